// Package search maps KNN search results onto domain search results.
package search

import (
	"context"
	"fmt"

	"github.com/godex-dev/godex/internal/db"
	"github.com/godex-dev/godex/internal/domain"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements usecase/query.Searcher.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SearchKNN performs a vector similarity search on a collection. Results keep
// the backend's ranking order.
func (r *Repo) SearchKNN(
	ctx context.Context, collection string, vector []float32, topK int,
) ([]domain.SearchResult, error) {
	q := &db.KNNQuery{
		IndexName:    indexName(collection),
		Vector:       vector,
		K:            topK,
		ReturnFields: []string{"text", "source", "__vector_score"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", collection, err)
	}

	return parseResults(sr), nil
}

func parseResults(sr *db.SearchResult) []domain.SearchResult {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	results := make([]domain.SearchResult, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		results = append(results, domain.SearchResult{
			Source: entry.Fields["source"],
			Text:   entry.Fields["text"],
			Score:  entry.Score,
		})
	}
	return results
}

func indexName(collection string) string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, collection)
}
