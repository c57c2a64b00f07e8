// Package render classifies retrieved chunks as code or prose and applies
// lightweight markup to the prose variant.
package render

import (
	"regexp"
	"strings"
)

// Kind discriminates the Block variants.
type Kind int

const (
	// Code is verbatim text for preformatted display.
	Code Kind = iota
	// Markup is prose rewritten into structural markup.
	Markup
)

// Block is the tagged result of Render.
type Block struct {
	Kind    Kind
	Content string
}

// codeMarkers classify a chunk as code when any of them occurs literally.
// Case-sensitive; covers GDScript and the common scripting keywords.
var codeMarkers = []string{"func ", "var ", "import ", "class "}

var (
	// Two-hash rule must run before the one-hash rule: both anchor on '#',
	// and a greedy single-hash pattern would consume "## " lines as well.
	reH6   = regexp.MustCompile(`(?m)^## (.*)$`)
	reH5   = regexp.MustCompile(`(?m)^# (.*)$`)
	reBold = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// Render classifies text and, for prose, applies the ordered rewrites:
// headings, bold spans, bullet lines, then remaining newlines to breaks.
// Code chunks pass through untouched.
//
// The output is trusted verbatim; no HTML escaping is applied. Chunks come
// from the caller's own indexed sources, not from arbitrary user input.
func Render(text string) Block {
	for _, marker := range codeMarkers {
		if strings.Contains(text, marker) {
			return Block{Kind: Code, Content: text}
		}
	}

	out := reH6.ReplaceAllString(text, "<h6>$1</h6>")
	out = reH5.ReplaceAllString(out, "<h5>$1</h5>")
	out = reBold.ReplaceAllString(out, "<strong>$1</strong>")
	out = strings.ReplaceAll(out, "\n- ", "<br>• ")
	out = strings.ReplaceAll(out, "\n", "<br>")

	return Block{Kind: Markup, Content: out}
}
