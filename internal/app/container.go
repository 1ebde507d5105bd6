package app

import (
	"context"
	"time"

	"github.com/doeshing/cmdgate/internal/application/classify"
	appconfig "github.com/doeshing/cmdgate/internal/application/config"
	"github.com/doeshing/cmdgate/internal/application/doctor"
	"github.com/doeshing/cmdgate/internal/infrastructure/audit"
	"github.com/doeshing/cmdgate/internal/infrastructure/cache"
	"github.com/doeshing/cmdgate/internal/infrastructure/config"
	"github.com/doeshing/cmdgate/internal/infrastructure/lock"
	"github.com/doeshing/cmdgate/internal/infrastructure/output"
	"github.com/doeshing/cmdgate/internal/infrastructure/parse"
	"github.com/doeshing/cmdgate/internal/infrastructure/reasoning"
	"github.com/doeshing/cmdgate/internal/infrastructure/rules"
	"github.com/doeshing/cmdgate/internal/pkg/logger"
	"github.com/doeshing/cmdgate/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	ClassifyService *classify.Service
	DoctorService   *doctor.Service
	ConfigProvider  ports.ConfigProvider
	VerdictCache    ports.VerdictCache
	OutputStore     ports.OutputStore
	AuditStore      ports.AuditRepository
	RuleEngine      ports.RuleEngine
	ProcessLock     ports.ProcessLock
	Logger          *logger.CharmLogger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		return nil, err
	}

	log := logger.New(verbose)

	ruleEngine, err := rules.NewEngine(cfg.Security.RulesFile)
	if err != nil {
		ruleEngine, err = rules.NewEngine("")
		if err != nil {
			return nil, err
		}
	}

	verdictCache := cache.NewMemory(cfg.Cache.MaxEntries, parseTTL(cfg.Cache.TTL, cache.DefaultTTL))
	outputStore := output.NewStore(cfg.Output.MaxEntries, parseTTL(cfg.Output.TTL, output.DefaultTTL))

	var auditStore ports.AuditRepository
	if cfg.Audit.Enabled {
		auditStore = audit.NewSQLiteStore(cfg.Audit.Path)
	}

	classifyService := &classify.Service{
		Cache:    verdictCache,
		Reasoner: reasoning.NewClient(cfg.Reasoner, log.WithPrefix("reasoner")),
		Parser:   parse.NewParser(),
		Rules:    ruleEngine,
		Audit:    auditStore,
		Logger:   log.WithPrefix("classify"),
	}

	processLock := lock.NewFileLock(cfg.Lock.Path, log.WithPrefix("lock"))

	return &Container{
		ClassifyService: classifyService,
		DoctorService: &doctor.Service{
			ConfigProvider: cfgLoader,
			Rules:          ruleEngine,
			Lock:           processLock,
		},
		ConfigProvider: cfgLoader,
		VerdictCache:   verdictCache,
		OutputStore:    outputStore,
		AuditStore:     auditStore,
		RuleEngine:     ruleEngine,
		ProcessLock:    processLock,
		Logger:         log,
	}, nil
}

func parseTTL(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return fallback
}
