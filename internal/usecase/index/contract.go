package index

import (
	"context"

	"github.com/godex-dev/godex/internal/domain"
	"github.com/godex-dev/godex/internal/scrape"
)

// ChunkStore persists embedded chunks.
type ChunkStore interface {
	Upsert(ctx context.Context, collection string, chunks []domain.EmbeddedChunk) error
	DeleteBySource(ctx context.Context, collection, source string) error
	Count(ctx context.Context, collection string) (int, error)
}

// CollectionEnsurer guarantees a collection exists before indexing into it.
type CollectionEnsurer interface {
	Ensure(ctx context.Context, name string) error
}

// DocsFetcher walks the online class reference.
type DocsFetcher interface {
	ClassPages(ctx context.Context, version string) ([]scrape.Page, error)
	PageText(ctx context.Context, pageURL string) (string, error)
}
