package domain

// Config mirrors ~/.cmdgate/config.yaml.
type Config struct {
	ConfigFormatVersion string           `yaml:"config_format_version"`
	Reasoner            ReasonerSettings `yaml:"reasoner"`
	Cache               CacheSettings    `yaml:"cache"`
	Output              OutputSettings   `yaml:"output"`
	Security            SecuritySettings `yaml:"security"`
	Audit               AuditSettings    `yaml:"audit"`
	Lock                LockSettings     `yaml:"lock"`
}

// ReasonerSettings configures the external reasoning service client.
type ReasonerSettings struct {
	Endpoint       string `yaml:"endpoint"`
	ModelID        string `yaml:"model"`
	AuthEnvVar     string `yaml:"auth_env_var"`
	TimeoutSeconds int    `yaml:"timeout"`
	MaxRetries     int    `yaml:"max_retries"`
}

// CacheSettings bounds the verdict cache.
type CacheSettings struct {
	MaxEntries int    `yaml:"max_entries"`
	TTL        string `yaml:"ttl"`
}

// OutputSettings bounds the command-output store.
type OutputSettings struct {
	MaxEntries int    `yaml:"max_entries"`
	TTL        string `yaml:"ttl"`
}

// SecuritySettings points the rule engine at its pattern tables.
type SecuritySettings struct {
	RulesFile string `yaml:"rules_file"`
}

// AuditSettings controls the classification audit log.
type AuditSettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LockSettings controls the single-instance lock file.
type LockSettings struct {
	Path string `yaml:"path"`
}
