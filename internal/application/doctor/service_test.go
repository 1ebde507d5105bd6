package doctor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/infrastructure/lock"
	"github.com/doeshing/cmdgate/internal/infrastructure/rules"
)

type stubConfig struct {
	cfg domain.Config
	err error
}

func (s *stubConfig) Load(context.Context) (domain.Config, error) {
	return s.cfg, s.err
}

func validConfig() domain.Config {
	return domain.Config{
		Reasoner: domain.ReasonerSettings{
			Endpoint:       "https://api.openai.com/v1/chat/completions",
			ModelID:        "gpt-4o-mini",
			AuthEnvVar:     "CMDGATE_DOCTOR_TEST_KEY",
			TimeoutSeconds: 30,
		},
		Cache:  domain.CacheSettings{MaxEntries: 100, TTL: "5m"},
		Output: domain.OutputSettings{MaxEntries: 50, TTL: "30m"},
	}
}

func TestRunReportsHealthyEnvironment(t *testing.T) {
	t.Setenv("CMDGATE_DOCTOR_TEST_KEY", "sk-test")
	engine, err := rules.NewEngine(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("rules.NewEngine error: %v", err)
	}

	svc := &Service{
		ConfigProvider: &stubConfig{cfg: validConfig()},
		Rules:          engine,
		Lock:           lock.NewFileLock(filepath.Join(t.TempDir(), "cmdgate.lock"), nil),
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	for _, check := range report.Checks {
		if check.Status == domain.HealthError {
			t.Errorf("check %q failed: %s", check.Name, check.Details)
		}
	}
}

func TestRunWarnsWhenCredentialMissing(t *testing.T) {
	cfg := validConfig()
	cfg.Reasoner.AuthEnvVar = "CMDGATE_DOCTOR_UNSET_KEY"
	svc := &Service{ConfigProvider: &stubConfig{cfg: cfg}}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	found := false
	for _, check := range report.Checks {
		if check.Name == "Reasoner credential" && check.Status == domain.HealthWarn {
			found = true
		}
	}
	if !found {
		t.Fatal("expected warning for missing credential")
	}
}

func TestRunFailsOnConfigError(t *testing.T) {
	svc := &Service{ConfigProvider: &stubConfig{err: errors.New("unreadable")}}

	report, err := svc.Run(context.Background())
	if err == nil {
		t.Fatal("expected error when config cannot be loaded")
	}
	if len(report.Checks) == 0 || report.Checks[0].Status != domain.HealthError {
		t.Fatalf("expected failing config check, got %+v", report.Checks)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.TTL = "forever"
	svc := &Service{ConfigProvider: &stubConfig{cfg: cfg}}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.Checks[0].Status != domain.HealthError {
		t.Fatalf("expected config validation failure, got %+v", report.Checks[0])
	}
}
