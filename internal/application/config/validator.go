package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/doeshing/cmdgate/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validateReasoner(cfg.Reasoner); err != nil {
		return err
	}
	if err := validateCache(cfg.Cache); err != nil {
		return err
	}
	if err := validateOutput(cfg.Output); err != nil {
		return err
	}
	if cfg.Audit.Enabled && cfg.Audit.Path == "" {
		return errors.New("audit.path must be set when audit is enabled")
	}
	return nil
}

func validateReasoner(r domain.ReasonerSettings) error {
	u, err := url.Parse(r.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("reasoner.endpoint %q is not a valid URL", r.Endpoint)
	}
	if r.ModelID == "" {
		return errors.New("reasoner.model must be set")
	}
	if r.TimeoutSeconds <= 0 {
		return fmt.Errorf("reasoner.timeout must be positive, got %d", r.TimeoutSeconds)
	}
	if r.MaxRetries < 0 {
		return fmt.Errorf("reasoner.max_retries must not be negative, got %d", r.MaxRetries)
	}
	return nil
}

func validateCache(c domain.CacheSettings) error {
	if c.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be positive, got %d", c.MaxEntries)
	}
	return validateTTL("cache.ttl", c.TTL)
}

func validateOutput(o domain.OutputSettings) error {
	if o.MaxEntries <= 0 {
		return fmt.Errorf("output.max_entries must be positive, got %d", o.MaxEntries)
	}
	return validateTTL("output.ttl", o.TTL)
}

func validateTTL(field, raw string) error {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s %q is not a duration", field, raw)
	}
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %s", field, raw)
	}
	return nil
}
