package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/doeshing/cmdgate/internal/domain"
)

func renderVerdict(out io.Writer, command string, verdict domain.Verdict) {
	fmt.Fprintf(out, "Command: %s\n", command)
	fmt.Fprintf(out, "Level:   %s\n", strings.ToUpper(string(verdict.Level)))
	fmt.Fprintf(out, "Reason:  %s\n", verdict.Reason)
	if verdict.SuggestedAction != "" {
		fmt.Fprintf(out, "Action:  %s\n", verdict.SuggestedAction)
	}
	if verdict.Consequences != "" {
		fmt.Fprintf(out, "Impact:  %s\n", verdict.Consequences)
	}
}
