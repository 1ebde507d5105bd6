package doctor

import (
	"context"
	"fmt"
	"os"

	appconfig "github.com/doeshing/cmdgate/internal/application/config"
	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Rules          ports.RuleEngine
	Lock           ports.ProcessLock
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", "loaded and valid"))
	}

	if s.Rules != nil {
		if v := s.Rules.QuickCheck("rm -rf /"); v.Level == domain.LevelDangerous {
			checks = append(checks, ok("Rule engine", fmt.Sprintf("patterns active (%s)", cfg.Security.RulesFile)))
		} else {
			checks = append(checks, warn("Rule engine", "dangerous probe not flagged, rules may be misconfigured"))
		}
	} else {
		checks = append(checks, warn("Rule engine", "not initialized"))
	}

	if os.Getenv(cfg.Reasoner.AuthEnvVar) == "" {
		checks = append(checks, warn("Reasoner credential",
			fmt.Sprintf("%s not set, classification falls back to local rules", cfg.Reasoner.AuthEnvVar)))
	} else {
		checks = append(checks, ok("Reasoner credential", fmt.Sprintf("%s present", cfg.Reasoner.AuthEnvVar)))
	}

	if cfg.Audit.Enabled {
		checks = append(checks, ok("Audit log", cfg.Audit.Path))
	} else {
		checks = append(checks, warn("Audit log", "disabled in config"))
	}

	if s.Lock != nil {
		if err := s.Lock.Acquire(); err != nil {
			checks = append(checks, warn("Instance lock", err.Error()))
		} else {
			_ = s.Lock.Release()
			checks = append(checks, ok("Instance lock", s.Lock.Path()))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
