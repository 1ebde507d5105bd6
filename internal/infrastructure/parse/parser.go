// Package parse turns raw reasoning-service output into structured verdicts.
//
// The upstream reasoner is a black box whose output format cannot be trusted:
// it may wrap JSON in markdown fences, surround it with chatter, emit slightly
// broken JSON, or refuse to answer at all. Parsing therefore degrades through
// four tiers, trading fidelity for availability. The floor of the degradation
// is always a moderate verdict, never a silent safe.
package parse

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/ports"
)

// Parser implements ports.VerdictParser. Stateless.
type Parser struct{}

// NewParser returns the tiered verdict parser.
func NewParser() *Parser {
	return &Parser{}
}

var (
	fenceMarkup = regexp.MustCompile("```(?:json)?\\s*")
	levelField  = regexp.MustCompile(`(?i)"level"\s*:\s*"(safe|moderate|dangerous)"`)
	levelWord   = regexp.MustCompile(`(?i)\b(safe|moderate|dangerous)\b`)
	reasonField = regexp.MustCompile(`"reason"\s*:\s*"([^"]*)"`)
)

// Parse never fails: each tier returns (verdict, ok) and the chain falls
// through on no result, ending at the conservative floor.
func (p *Parser) Parse(raw string) domain.Verdict {
	if verdict, ok := parseStrict(raw); ok {
		return verdict
	}
	if verdict, ok := parseExtracted(raw); ok {
		return verdict
	}
	if verdict, ok := salvageKeywords(raw); ok {
		return verdict
	}
	return domain.Verdict{
		Level:           domain.LevelModerate,
		Reason:          "Reasoning service response unparsable",
		SuggestedAction: "Manual confirmation required",
	}
}

// wireVerdict is the JSON shape the reasoner is asked to produce. Unknown
// fields are ignored by encoding/json.
type wireVerdict struct {
	Level           string `json:"level"`
	Reason          string `json:"reason"`
	SuggestedAction string `json:"suggestedAction"`
	Consequences    string `json:"consequences"`
}

// parseStrict strips code-fence markup and parses the remainder directly.
func parseStrict(raw string) (domain.Verdict, bool) {
	clean := strings.TrimSpace(fenceMarkup.ReplaceAllString(raw, ""))
	return decode(clean)
}

// parseExtracted retries the strict parse on the first balanced {...} span,
// which handles completions that surround the JSON object with prose.
func parseExtracted(raw string) (domain.Verdict, bool) {
	span, ok := balancedObject(raw)
	if !ok {
		return domain.Verdict{}, false
	}
	return decode(span)
}

func decode(text string) (domain.Verdict, bool) {
	var wire wireVerdict
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return domain.Verdict{}, false
	}
	level, ok := domain.ParseLevel(wire.Level)
	if !ok {
		return domain.Verdict{}, false
	}
	reason := strings.TrimSpace(wire.Reason)
	if reason == "" {
		reason = "Reasoning service provided no justification"
	}
	return domain.Verdict{
		Level:           level,
		Reason:          reason,
		SuggestedAction: wire.SuggestedAction,
		Consequences:    wire.Consequences,
	}, true
}

// salvageKeywords rescues the risk level even when the JSON is beyond repair,
// preferring an explicit "level" field over a bare keyword in prose.
func salvageKeywords(raw string) (domain.Verdict, bool) {
	var levelText string
	if m := levelField.FindStringSubmatch(raw); m != nil {
		levelText = m[1]
	} else if m := levelWord.FindStringSubmatch(raw); m != nil {
		levelText = m[1]
	} else {
		return domain.Verdict{}, false
	}
	level, _ := domain.ParseLevel(levelText)

	reason := "Response format degraded; risk level extracted from raw text"
	if m := reasonField.FindStringSubmatch(raw); m != nil && strings.TrimSpace(m[1]) != "" {
		reason = m[1]
	}

	verdict := domain.Verdict{Level: level, Reason: reason}
	if level != domain.LevelSafe {
		verdict.SuggestedAction = "Manual review recommended"
	}
	return verdict, true
}

// balancedObject returns the first brace-balanced object span in text,
// skipping braces inside JSON string literals.
func balancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

var _ ports.VerdictParser = (*Parser)(nil)
