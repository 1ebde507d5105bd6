package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/pkg/filesystem"
	"github.com/doeshing/cmdgate/internal/ports"
)

// FileLoader loads YAML configuration from ~/.cmdgate/config.yaml
// (overridable via CMDGATE_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is replaced by written
// defaults; a present file is hydrated so zero values keep their documented
// defaults.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := defaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("CMDGATE_CONFIG"); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".cmdgate", "config.yaml")
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func defaultConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Reasoner: domain.ReasonerSettings{
			Endpoint:       "https://api.openai.com/v1/chat/completions",
			ModelID:        "gpt-4o-mini",
			AuthEnvVar:     "OPENAI_API_KEY",
			TimeoutSeconds: 30,
			MaxRetries:     1,
		},
		Cache: domain.CacheSettings{
			MaxEntries: 100,
			TTL:        "5m",
		},
		Output: domain.OutputSettings{
			MaxEntries: 50,
			TTL:        "30m",
		},
		Security: domain.SecuritySettings{
			RulesFile: filepath.Join(filesystem.UserHomeDir(), ".cmdgate", "rules.yaml"),
		},
		Audit: domain.AuditSettings{
			Enabled: true,
			Path:    filepath.Join(filesystem.UserHomeDir(), ".cmdgate", "audit.db"),
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	defaults := defaultConfig()
	if cfg.Reasoner.Endpoint == "" {
		cfg.Reasoner.Endpoint = defaults.Reasoner.Endpoint
	}
	if cfg.Reasoner.ModelID == "" {
		cfg.Reasoner.ModelID = defaults.Reasoner.ModelID
	}
	if cfg.Reasoner.AuthEnvVar == "" {
		cfg.Reasoner.AuthEnvVar = defaults.Reasoner.AuthEnvVar
	}
	if cfg.Reasoner.TimeoutSeconds == 0 {
		cfg.Reasoner.TimeoutSeconds = defaults.Reasoner.TimeoutSeconds
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = defaults.Cache.MaxEntries
	}
	if cfg.Cache.TTL == "" {
		cfg.Cache.TTL = defaults.Cache.TTL
	}
	if cfg.Output.MaxEntries == 0 {
		cfg.Output.MaxEntries = defaults.Output.MaxEntries
	}
	if cfg.Output.TTL == "" {
		cfg.Output.TTL = defaults.Output.TTL
	}
	if cfg.Security.RulesFile == "" {
		cfg.Security.RulesFile = defaults.Security.RulesFile
	}
	if cfg.Audit.Path == "" {
		cfg.Audit.Path = defaults.Audit.Path
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
