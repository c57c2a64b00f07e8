// Package assemble serializes a context bundle into the plain-text block
// exported to the clipboard for pasting into an LLM prompt.
package assemble

import (
	"strings"

	"github.com/godex-dev/godex/internal/domain"
)

// Serialize renders a bundle deterministically: prompt header, optional raw
// rules text, then each collection's hits in bundle order. Pure function;
// repeated calls on the same bundle yield byte-identical output. The caller
// owns the actual clipboard write.
func Serialize(b domain.ContextBundle) string {
	var sb strings.Builder

	sb.WriteString("Prompt: ")
	sb.WriteString(b.Query)
	sb.WriteString("\n\n")

	// Presence of the field is the gate, not non-emptiness.
	if b.ProjectRules != nil {
		sb.WriteString(*b.ProjectRules)
	}

	for _, ctx := range b.Contexts {
		sb.WriteString("From ")
		sb.WriteString(ctx.Collection)
		sb.WriteString(":\n")
		for _, r := range ctx.Results {
			sb.WriteString("Source: ")
			sb.WriteString(r.Source)
			sb.WriteString("\n")
			sb.WriteString(r.Text)
			sb.WriteString("\n\n")
		}
	}

	return sb.String()
}
