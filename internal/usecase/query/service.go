// Package query assembles a context bundle for one retrieval request: embed
// the prompt once, search every requested collection, attach project rules.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/godex-dev/godex/internal/db"
	"github.com/godex-dev/godex/internal/domain"
)

// Service handles retrieval queries.
type Service struct {
	search Searcher
	embed  domain.Embedder
	rules  RulesReader
	logger *zap.Logger
}

// New creates a query service.
func New(search Searcher, embed domain.Embedder, rules RulesReader, logger *zap.Logger) *Service {
	return &Service{search: search, embed: embed, rules: rules, logger: logger}
}

// Query embeds the prompt once and searches each collection in request order.
// Collections without an index and collections with zero hits are omitted from
// the bundle; a bundle with no contexts at all is still a valid response.
func (s *Service) Query(ctx context.Context, q domain.Query, limit int) (domain.ContextBundle, error) {
	if strings.TrimSpace(q.Text) == "" {
		return domain.ContextBundle{}, fmt.Errorf("%w: empty query", domain.ErrValidation)
	}

	collections := q.Collections
	if len(collections) == 0 {
		collections = domain.DefaultCollections
	}
	if limit <= 0 {
		limit = domain.DefaultQueryLimit
	}

	embResult, err := s.embed.Embed(ctx, q.Text)
	if err != nil {
		return domain.ContextBundle{}, fmt.Errorf("vectorize query: %w", err)
	}

	bundle := domain.ContextBundle{Query: q.Text}

	for _, col := range collections {
		results, err := s.search.SearchKNN(ctx, col, embResult.Embedding, limit)
		if err != nil {
			// A named but never-indexed collection is an empty context,
			// not a failure.
			if errors.Is(err, db.ErrIndexNotFound) || errors.Is(err, domain.ErrNotFound) {
				s.logger.Debug("Collection has no index, skipping",
					zap.String("collection", col))
				continue
			}
			return domain.ContextBundle{}, fmt.Errorf("search %s: %w", col, err)
		}
		if len(results) == 0 {
			continue
		}
		bundle.Contexts = append(bundle.Contexts, domain.CollectionResults{
			Collection: col,
			Results:    results,
		})
	}

	if q.IncludeRules && s.rules.Exists() {
		text, err := s.rules.Load()
		if err != nil {
			return domain.ContextBundle{}, fmt.Errorf("load project rules: %w", err)
		}
		bundle.ProjectRules = &text
	}

	s.logger.Info("Query completed",
		zap.Int("collections_hit", len(bundle.Contexts)),
		zap.Int("total_results", bundle.TotalResults()),
		zap.Bool("rules_attached", bundle.ProjectRules != nil),
	)

	return bundle, nil
}
