// Package classify implements the safety classification pipeline: verdict
// cache, reasoning service, tiered parser, and the deterministic rule engine
// as fallback of last resort.
package classify

import (
	"context"
	"time"

	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/ports"
)

// Service orchestrates classification end-to-end. Classify is a total
// function: every input maps to a verdict and no upstream failure propagates
// to the caller.
type Service struct {
	Cache    ports.VerdictCache
	Reasoner ports.Reasoner
	Parser   ports.VerdictParser
	Rules    ports.RuleEngine
	Audit    ports.AuditRepository
	Logger   ports.Logger
}

// Classify gates a single command.
//
// Cache hits return unchanged, without re-validation against current rules.
// On a miss the reasoning service is consulted and its output parsed; any
// reasoner failure falls back to the rule engine. Both paths cache their
// result, so a degraded verdict is reused for the TTL window even after the
// reasoning service recovers — the fallback is only distinguishable through
// the reason text.
//
// The cache lock is never held across the network call: lookup and the
// eventual write are separate critical sections, so two concurrent calls for
// the same uncached command may both consult the reasoner (last writer wins).
// A response arriving after ctx is done is discarded rather than cached,
// since the caller never consumed it.
func (s *Service) Classify(ctx context.Context, command string) domain.Verdict {
	start := time.Now()

	if verdict, ok := s.Cache.Get(command); ok {
		s.record(command, verdict, domain.SourceCache, start)
		return verdict
	}

	raw, err := s.Reasoner.Analyze(ctx, command)
	if err == nil {
		verdict := s.Parser.Parse(raw)
		if ctx.Err() == nil {
			s.Cache.Put(command, verdict)
		}
		s.record(command, verdict, domain.SourceAI, start)
		return verdict
	}

	if s.Logger != nil {
		s.Logger.Warn("reasoning service failed, using local rule engine", map[string]interface{}{
			"error": err.Error(),
		})
	}

	verdict := s.Rules.QuickCheck(command)
	if ctx.Err() == nil {
		s.Cache.Put(command, verdict)
	}
	s.record(command, verdict, domain.SourceRules, start)
	return verdict
}

// QuickCheck bypasses the cache and reasoner entirely.
func (s *Service) QuickCheck(command string) domain.Verdict {
	return s.Rules.QuickCheck(command)
}

// ClearCache resets the verdict cache.
func (s *Service) ClearCache() {
	s.Cache.Clear()
}

// CacheStats exposes verdict-cache state for inspection.
func (s *Service) CacheStats() domain.CacheStats {
	return s.Cache.Stats()
}

// SweepCache drops expired verdicts and reports how many were removed.
func (s *Service) SweepCache() int {
	return s.Cache.SweepExpired()
}

// record appends to the audit log best-effort. Audit failures are logged and
// ignored; they must never block the classification path.
func (s *Service) record(command string, verdict domain.Verdict, source domain.Source, start time.Time) {
	if s.Audit == nil {
		return
	}
	err := s.Audit.Record(domain.AuditRecord{
		Timestamp:  start,
		Command:    command,
		Level:      verdict.Level,
		Reason:     verdict.Reason,
		Source:     source,
		DurationMS: time.Since(start).Milliseconds(),
	})
	if err != nil && s.Logger != nil {
		s.Logger.Warn("audit record failed", map[string]interface{}{"error": err.Error()})
	}
}
