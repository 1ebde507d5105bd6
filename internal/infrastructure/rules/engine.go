// Package rules implements the deterministic offline classifier used when the
// reasoning service is unreachable or returns garbage. It is the fallback of
// last resort: the only path to a safe verdict is explicit allow-listing.
package rules

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/pkg/filesystem"
	"github.com/doeshing/cmdgate/internal/ports"
)

// Engine classifies commands with static tables: an ordered dangerous-pattern
// scan, an allow-list, and a moderate-list. No I/O after construction.
type Engine struct {
	patterns []compiledPattern
	safe     map[string]struct{}
	moderate map[string]struct{}
}

type compiledPattern struct {
	re   *regexp.Regexp
	rule DangerPattern
}

// DangerPattern describes a regex-based dangerous-command matcher. The regex
// is tested against the trimmed, lowercased command.
type DangerPattern struct {
	Pattern string `yaml:"pattern"`
	Message string `yaml:"message"`
}

// RulesFile is the YAML schema root for ~/.cmdgate/rules.yaml.
type RulesFile struct {
	Rules struct {
		DangerPatterns   []DangerPattern `yaml:"danger_patterns"`
		SafeCommands     []string        `yaml:"safe_commands"`
		ModerateCommands []string        `yaml:"moderate_commands"`
	} `yaml:"rules"`
}

// chmod +x only grants execute permission; it is the one chmod form the
// allow-list accepts.
var chmodExecOnly = regexp.MustCompile(`^chmod\s+\+x(\s|$)`)

// NewEngine loads rule tables from disk (or defaults when the file is missing).
func NewEngine(path string) (*Engine, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}

	var compiled []compiledPattern
	for _, pattern := range rules.Rules.DangerPatterns {
		re, err := regexp.Compile(pattern.Pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledPattern{re: re, rule: pattern})
	}

	return &Engine{
		patterns: compiled,
		safe:     toSet(rules.Rules.SafeCommands),
		moderate: toSet(rules.Rules.ModerateCommands),
	}, nil
}

// QuickCheck implements ports.RuleEngine. It never fails: every input string,
// including empty or unparsable ones, maps to a verdict.
//
// The dangerous-pattern scan runs before the allow-list so a dangerous
// argument combination on an otherwise trusted base command is still caught.
func (e *Engine) QuickCheck(command string) domain.Verdict {
	cmd := strings.ToLower(strings.TrimSpace(command))

	for _, pattern := range e.patterns {
		if pattern.re.MatchString(cmd) {
			return domain.Verdict{
				Level:           domain.LevelDangerous,
				Reason:          "Command matches a known dangerous pattern (local rules): " + pattern.rule.Message,
				SuggestedAction: "Do not run this without a verified backup and explicit intent",
				Consequences:    "May cause data loss or system damage",
			}
		}
	}

	if chmodExecOnly.MatchString(cmd) {
		return domain.Verdict{
			Level:  domain.LevelSafe,
			Reason: "Grants execute permission only (local allow-list)",
		}
	}

	base := baseCommand(cmd)
	if _, ok := e.safe[base]; ok && base != "" {
		return domain.Verdict{
			Level:  domain.LevelSafe,
			Reason: "Common development or read-only command (local allow-list)",
		}
	}

	if _, ok := e.moderate[base]; ok {
		return domain.Verdict{
			Level:           domain.LevelModerate,
			Reason:          "Command mutates files, configuration or service state (local rules)",
			SuggestedAction: "Confirm the operation target",
		}
	}

	// Ambiguity never resolves to safe.
	return domain.Verdict{
		Level:           domain.LevelModerate,
		Reason:          "Unable to determine command safety (unknown command)",
		SuggestedAction: "Confirm the command intent",
	}
}

// baseCommand extracts the leading token for the allow/moderate-list lookup.
// Shell-aware tokenization handles quoting; on parse errors it degrades to a
// plain whitespace split rather than failing.
func baseCommand(cmd string) string {
	parser := shellwords.NewParser()
	if tokens, err := parser.Parse(cmd); err == nil && len(tokens) > 0 {
		return tokens[0]
	}
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func loadRules(path string) (RulesFile, error) {
	var rules RulesFile
	path = resolveRulesPath(path)
	data, err := os.ReadFile(path)
	if err != nil {
		// fall back to defaults
		return defaultRules(), nil
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, err
	}
	defaults := defaultRules()
	if len(rules.Rules.DangerPatterns) == 0 {
		rules.Rules.DangerPatterns = defaults.Rules.DangerPatterns
	}
	if len(rules.Rules.SafeCommands) == 0 {
		rules.Rules.SafeCommands = defaults.Rules.SafeCommands
	}
	if len(rules.Rules.ModerateCommands) == 0 {
		rules.Rules.ModerateCommands = defaults.Rules.ModerateCommands
	}
	return rules, nil
}

func defaultRules() RulesFile {
	var rules RulesFile
	rules.Rules.DangerPatterns = defaultPatterns()
	rules.Rules.SafeCommands = defaultSafeCommands()
	rules.Rules.ModerateCommands = defaultModerateCommands()
	return rules
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	return set
}

func resolveRulesPath(path string) string {
	if path == "" {
		return filepath.Join(filesystem.UserHomeDir(), ".cmdgate", "rules.yaml")
	}
	return filesystem.ExpandPath(path)
}

var _ ports.RuleEngine = (*Engine)(nil)
