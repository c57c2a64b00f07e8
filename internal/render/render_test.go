package render

import (
	"strings"
	"testing"
)

func TestRender_CodeMarkers(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"gdscript func", "func _ready():\n\tpass"},
		{"var declaration", "var speed = 300"},
		{"import statement", "import os\nprint(os.getcwd())"},
		{"class declaration", "class Player extends Node2D"},
		{"marker mid-text", "signal handling: func _on_body_entered(body):"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Render(tt.text)
			if b.Kind != Code {
				t.Fatalf("expected Code, got %v", b.Kind)
			}
			if b.Content != tt.text {
				t.Errorf("code content must be verbatim: got %q", b.Content)
			}
		})
	}
}

func TestRender_CodeIsCaseSensitive(t *testing.T) {
	// "Func " is not a marker; neither is "function" without the trailing space match.
	b := Render("Func Ready does not exist in GDScript")
	if b.Kind != Markup {
		t.Fatalf("expected Markup for non-matching case, got Code")
	}
}

func TestRender_MarkupHeadings(t *testing.T) {
	b := Render("# Title\n- item one")
	if b.Kind != Markup {
		t.Fatalf("expected Markup, got Code")
	}
	if !strings.Contains(b.Content, "<h5>Title</h5>") {
		t.Errorf("missing h5 heading: %q", b.Content)
	}
	if !strings.Contains(b.Content, "<br>• item one") {
		t.Errorf("missing bullet rewrite: %q", b.Content)
	}
}

func TestRender_TwoHashBeforeOneHash(t *testing.T) {
	b := Render("## Subsection\ntext")
	if strings.Contains(b.Content, "<h5>") {
		t.Errorf("double-hash line consumed by single-hash rule: %q", b.Content)
	}
	if !strings.Contains(b.Content, "<h6>Subsection</h6>") {
		t.Errorf("missing h6 heading: %q", b.Content)
	}
}

func TestRender_BoldAndBreaks(t *testing.T) {
	b := Render("The **Input** singleton\nhandles events")
	if !strings.Contains(b.Content, "<strong>Input</strong>") {
		t.Errorf("missing bold span: %q", b.Content)
	}
	if !strings.Contains(b.Content, "singleton<br>handles") {
		t.Errorf("newline not rewritten to break: %q", b.Content)
	}
	if strings.Contains(b.Content, "\n") {
		t.Errorf("raw newline left in markup output: %q", b.Content)
	}
}

func TestRender_NoEscaping(t *testing.T) {
	// Literal markup-special characters pass through unescaped.
	b := Render("use <Node2D> & children")
	if !strings.Contains(b.Content, "<Node2D> &") {
		t.Errorf("special characters must pass through: %q", b.Content)
	}
}
