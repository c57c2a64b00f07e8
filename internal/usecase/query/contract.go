package query

import (
	"context"

	"github.com/godex-dev/godex/internal/domain"
)

// Searcher runs vector similarity search on one collection.
type Searcher interface {
	SearchKNN(ctx context.Context, collection string, vector []float32, topK int) ([]domain.SearchResult, error)
}

// RulesReader loads the stored project rules document.
type RulesReader interface {
	Exists() bool
	Load() (string, error)
}
