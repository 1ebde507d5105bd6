package classify

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/infrastructure/cache"
	"github.com/doeshing/cmdgate/internal/infrastructure/parse"
	"github.com/doeshing/cmdgate/internal/infrastructure/rules"
)

type stubReasoner struct {
	calls int
	raw   string
	err   error
}

func (s *stubReasoner) Analyze(ctx context.Context, command string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.raw, nil
}

var errUnavailable = errors.New("reasoning service unavailable")

func newTestService(t *testing.T, reasoner *stubReasoner) *Service {
	t.Helper()
	engine, err := rules.NewEngine(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("rules.NewEngine error: %v", err)
	}
	return &Service{
		Cache:    cache.NewMemory(10, time.Minute),
		Reasoner: reasoner,
		Parser:   parse.NewParser(),
		Rules:    engine,
	}
}

func TestClassifyUsesReasonerVerdict(t *testing.T) {
	reasoner := &stubReasoner{raw: `{"level":"safe","reason":"read-only"}`}
	svc := newTestService(t, reasoner)

	got := svc.Classify(context.Background(), "ls -la")
	want := domain.Verdict{Level: domain.LevelSafe, Reason: "read-only"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Classify mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifySecondCallIsCacheHit(t *testing.T) {
	reasoner := &stubReasoner{raw: `{"level":"safe","reason":"read-only"}`}
	svc := newTestService(t, reasoner)

	first := svc.Classify(context.Background(), "ls -la")
	second := svc.Classify(context.Background(), "ls -la")

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("cached verdict differs (-first +second):\n%s", diff)
	}
	if reasoner.calls != 1 {
		t.Fatalf("reasoner called %d times, want 1", reasoner.calls)
	}
}

func TestClassifyFallsBackToRulesOnFailure(t *testing.T) {
	reasoner := &stubReasoner{err: errUnavailable}
	svc := newTestService(t, reasoner)

	if got := svc.Classify(context.Background(), "rm -rf /"); got.Level != domain.LevelDangerous {
		t.Fatalf("expected dangerous from rule fallback, got %+v", got)
	}
	if got := svc.Classify(context.Background(), "git status"); got.Level != domain.LevelSafe {
		t.Fatalf("expected safe from rule fallback, got %+v", got)
	}
}

func TestClassifyCachesFallbackVerdicts(t *testing.T) {
	reasoner := &stubReasoner{err: errUnavailable}
	svc := newTestService(t, reasoner)

	svc.Classify(context.Background(), "git status")
	svc.Classify(context.Background(), "git status")

	// The degraded verdict is cached like any other; the reasoner is not
	// retried within the TTL window even though it has "recovered".
	if reasoner.calls != 1 {
		t.Fatalf("reasoner called %d times, want 1", reasoner.calls)
	}
}

func TestClassifyIsTotal(t *testing.T) {
	reasoner := &stubReasoner{raw: "complete nonsense with no verdict"}
	svc := newTestService(t, reasoner)

	for _, command := range []string{"", "   ", "no-such-tool --flag", "\xff\xfe"} {
		got := svc.Classify(context.Background(), command)
		if !got.Level.Valid() {
			t.Errorf("Classify(%q) produced invalid level %q", command, got.Level)
		}
		if got.Reason == "" {
			t.Errorf("Classify(%q) produced empty reason", command)
		}
	}
}

func TestClassifyDiscardsLateResponse(t *testing.T) {
	reasoner := &stubReasoner{raw: `{"level":"safe","reason":"read-only"}`}
	svc := newTestService(t, reasoner)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The caller abandoned the call; the verdict is still returned but must
	// not be cached on its behalf.
	svc.Classify(ctx, "ls -la")
	svc.Classify(context.Background(), "ls -la")

	if reasoner.calls != 2 {
		t.Fatalf("reasoner called %d times, want 2 (late response not cached)", reasoner.calls)
	}
}

func TestQuickCheckBypassesReasonerAndCache(t *testing.T) {
	reasoner := &stubReasoner{raw: `{"level":"dangerous","reason":"trust me"}`}
	svc := newTestService(t, reasoner)

	if got := svc.QuickCheck("git status"); got.Level != domain.LevelSafe {
		t.Fatalf("expected allow-list verdict, got %+v", got)
	}
	if reasoner.calls != 0 {
		t.Fatalf("QuickCheck must not consult the reasoner, calls=%d", reasoner.calls)
	}
}

func TestClearCacheForcesReclassification(t *testing.T) {
	reasoner := &stubReasoner{raw: `{"level":"safe","reason":"read-only"}`}
	svc := newTestService(t, reasoner)

	svc.Classify(context.Background(), "ls -la")
	svc.ClearCache()
	svc.Classify(context.Background(), "ls -la")

	if reasoner.calls != 2 {
		t.Fatalf("reasoner called %d times, want 2 after clear", reasoner.calls)
	}
}

func TestCacheStatsReflectUsage(t *testing.T) {
	reasoner := &stubReasoner{raw: `{"level":"safe","reason":"read-only"}`}
	svc := newTestService(t, reasoner)

	svc.Classify(context.Background(), "ls")
	svc.Classify(context.Background(), "pwd")

	stats := svc.CacheStats()
	if stats.Total != 2 || stats.Active != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
