// Package chunker splits documents into bounded overlapping spans for embedding.
package chunker

import (
	"strings"

	"github.com/godex-dev/godex/internal/domain"
)

// Defaults match the historical indexing parameters.
const (
	DefaultSize    = 1000
	DefaultOverlap = 200
)

// Config holds chunking parameters. Size and Overlap are in runes so that
// multi-byte characters in docs never split mid-codepoint.
type Config struct {
	Size    int
	Overlap int
}

// Normalize clamps invalid values back to defaults. Overlap must stay
// strictly smaller than Size or the walk would never advance.
func (c Config) Normalize() Config {
	if c.Size <= 0 {
		c.Size = DefaultSize
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		c.Overlap = DefaultOverlap
		if c.Overlap >= c.Size {
			c.Overlap = c.Size / 5
		}
	}
	return c
}

// Split cuts text into chunks of cfg.Size runes stepping by Size-Overlap.
// Whitespace-only chunks are dropped; indices stay sequential over the kept
// chunks so document IDs remain stable.
func Split(source, text string, cfg Config) []domain.Chunk {
	cfg = cfg.Normalize()

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := cfg.Size - cfg.Overlap
	chunks := make([]domain.Chunk, 0, len(runes)/step+1)

	for start := 0; start < len(runes); start += step {
		end := start + cfg.Size
		if end > len(runes) {
			end = len(runes)
		}

		piece := string(runes[start:end])
		if strings.TrimSpace(piece) != "" {
			chunks = append(chunks, domain.Chunk{
				Source: source,
				Index:  len(chunks),
				Text:   piece,
			})
		}

		if end == len(runes) {
			break
		}
	}

	return chunks
}
