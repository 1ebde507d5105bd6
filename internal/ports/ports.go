// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The application core depends on these abstractions only; concrete adapters
// (HTTP clients, caches, SQLite, the CLI) live in the infrastructure layer and
// are wired together in internal/app.
package ports

import (
	"context"

	"github.com/doeshing/cmdgate/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.cmdgate/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Reasoner consults the external natural-language reasoning service about a
// command and returns the raw completion text. It has no opinion on parsing:
// it returns text or fails with one of the reasoning error values.
type Reasoner interface {
	Analyze(ctx context.Context, command string) (string, error)
}

// VerdictParser turns raw reasoner output into a structured verdict. It is
// total: unparsable input degrades to a conservative verdict, never an error.
type VerdictParser interface {
	Parse(raw string) domain.Verdict
}

// RuleEngine is the deterministic offline classifier used as the fallback of
// last resort. QuickCheck is total and side-effect free.
type RuleEngine interface {
	QuickCheck(command string) domain.Verdict
}

// VerdictCache maps exact command strings to previously computed verdicts,
// bounded by capacity and entry age.
type VerdictCache interface {
	Get(key string) (domain.Verdict, bool)
	Put(key string, verdict domain.Verdict)
	Clear()
	SweepExpired() int
	Stats() domain.CacheStats
}

// OutputStore buffers full command output for later paged retrieval.
type OutputStore interface {
	Store(command, output, connectionID string) string
	Get(id string) (domain.OutputRecord, bool)
	LastLines(id string, count int) (string, bool)
	Full(id string) (string, bool)
	Remove(id string) bool
	CleanupExpired() int
	Clear()
	Stats() domain.CacheStats
}

// AuditRepository persists classification events for operability. It is
// best-effort: the classifier logs and ignores audit failures.
type AuditRepository interface {
	Record(record domain.AuditRecord) error
	Recent(limit int, search string) ([]domain.AuditRecord, error)
	Clear() error
}

// ProcessLock guards against two agent instances running concurrently.
type ProcessLock interface {
	Acquire() error
	Release() error
	Path() string
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
