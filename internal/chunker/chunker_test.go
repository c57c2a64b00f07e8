package chunker

import (
	"strings"
	"testing"
)

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	chunks := Split("player.gd", "func _ready():\n\tpass", Config{Size: 1000, Overlap: 200})
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Source != "player.gd" || chunks[0].Index != 0 {
		t.Errorf("bad chunk metadata: %+v", chunks[0])
	}
}

func TestSplit_OverlapCarriesContext(t *testing.T) {
	text := strings.Repeat("a", 150)
	chunks := Split("f.gd", text, Config{Size: 100, Overlap: 20})

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if len(chunks[0].Text) != 100 {
		t.Errorf("first chunk length: got %d, want 100", len(chunks[0].Text))
	}
	// Second chunk starts at 80 (size - overlap), so it spans 80..150.
	if len(chunks[1].Text) != 70 {
		t.Errorf("second chunk length: got %d, want 70", len(chunks[1].Text))
	}
}

func TestSplit_RuneBoundaries(t *testing.T) {
	text := strings.Repeat("é", 120)
	chunks := Split("f.md", text, Config{Size: 100, Overlap: 0})

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if strings.ContainsRune(c.Text, '�') {
			t.Fatal("chunk split a multi-byte rune")
		}
	}
}

func TestSplit_SkipsWhitespaceOnly(t *testing.T) {
	text := strings.Repeat("x", 100) + strings.Repeat(" ", 100) + strings.Repeat("y", 50)
	chunks := Split("f.txt", text, Config{Size: 100, Overlap: 0})

	if len(chunks) != 2 {
		t.Fatalf("expected whitespace-only chunk dropped, got %d chunks", len(chunks))
	}
	if chunks[1].Index != 1 {
		t.Errorf("indices must stay sequential over kept chunks, got %d", chunks[1].Index)
	}
}

func TestSplit_EmptyText(t *testing.T) {
	if got := Split("f", "", Config{}); got != nil {
		t.Fatalf("expected nil for empty text, got %v", got)
	}
}

func TestNormalize(t *testing.T) {
	cfg := Config{Size: 0, Overlap: -1}.Normalize()
	if cfg.Size != DefaultSize || cfg.Overlap != DefaultOverlap {
		t.Errorf("got %+v", cfg)
	}

	cfg = Config{Size: 100, Overlap: 100}.Normalize()
	if cfg.Overlap >= cfg.Size {
		t.Errorf("overlap must end up below size: %+v", cfg)
	}
}
