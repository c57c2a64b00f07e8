// Package index feeds project files and scraped docs pages through the
// chunk-embed-upsert pipeline.
package index

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/godex-dev/godex/internal/chunker"
	"github.com/godex-dev/godex/internal/domain"
	"github.com/godex-dev/godex/internal/metrics"
)

// Config holds indexing parameters.
type Config struct {
	ChunkSize     int
	ChunkOverlap  int
	MaxFileSizeKB int
}

// Service handles project and docs indexing runs.
type Service struct {
	chunks ChunkStore
	colls  CollectionEnsurer
	embed  domain.Embedder
	docs   DocsFetcher
	cfg    Config
	logger *zap.Logger
}

// New creates an indexing service.
func New(
	chunks ChunkStore, colls CollectionEnsurer, embed domain.Embedder,
	docs DocsFetcher, cfg Config, logger *zap.Logger,
) *Service {
	return &Service{chunks: chunks, colls: colls, embed: embed, docs: docs, cfg: cfg, logger: logger}
}

// IndexProject walks a Godot project directory and indexes every readable
// source file into the collection. Sources are re-indexed in place: stale
// chunks of a shrunken file are removed first.
func (s *Service) IndexProject(ctx context.Context, root, collection string) (domain.IndexStats, error) {
	start := time.Now()

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return domain.IndexStats{}, fmt.Errorf("%w: project path %q is not a directory", domain.ErrValidation, root)
	}

	if err := s.colls.Ensure(ctx, collection); err != nil {
		return domain.IndexStats{}, err
	}

	files, skipped, err := walkProject(root, s.cfg.MaxFileSizeKB)
	if err != nil {
		return domain.IndexStats{}, err
	}

	stats := domain.IndexStats{FilesSkipped: skipped}
	metrics.IndexFilesTotal.WithLabelValues("skipped").Add(float64(skipped))

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		n, tokens, err := s.indexSource(ctx, collection, f.RelPath, f.Text)
		if err != nil {
			return stats, fmt.Errorf("index %s: %w", f.RelPath, err)
		}

		stats.FilesIndexed++
		stats.ChunksUpserted += n
		stats.TokensUsed += tokens
		metrics.IndexFilesTotal.WithLabelValues("indexed").Inc()
	}

	stats.Duration = time.Since(start)
	s.logger.Info("Project indexed",
		zap.String("collection", collection),
		zap.Int("files_indexed", stats.FilesIndexed),
		zap.Int("files_skipped", stats.FilesSkipped),
		zap.Int("chunks", stats.ChunksUpserted),
		zap.Int("tokens", stats.TokensUsed),
		zap.Duration("duration", stats.Duration),
	)
	return stats, nil
}

// IndexDocs scrapes the class reference of one Godot version and indexes every
// page. A page that fails to fetch is counted and skipped, not fatal: a long
// scrape should survive transient errors.
func (s *Service) IndexDocs(ctx context.Context, version, collection string) (domain.IndexStats, error) {
	start := time.Now()

	if version == "" {
		return domain.IndexStats{}, fmt.Errorf("%w: docs version is required", domain.ErrValidation)
	}

	if err := s.colls.Ensure(ctx, collection); err != nil {
		return domain.IndexStats{}, err
	}

	pages, err := s.docs.ClassPages(ctx, version)
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("list class pages: %w", err)
	}

	var stats domain.IndexStats
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		text, err := s.docs.PageText(ctx, page.URL)
		if err != nil {
			s.logger.Warn("Docs page fetch failed",
				zap.String("page", page.Name), zap.Error(err))
			stats.PagesFailed++
			continue
		}
		stats.PagesFetched++

		n, tokens, err := s.indexSource(ctx, collection, page.Name+".txt", text)
		if err != nil {
			return stats, fmt.Errorf("index %s: %w", page.Name, err)
		}
		stats.ChunksUpserted += n
		stats.TokensUsed += tokens
	}

	stats.Duration = time.Since(start)
	s.logger.Info("Docs indexed",
		zap.String("collection", collection),
		zap.String("version", version),
		zap.Int("pages_fetched", stats.PagesFetched),
		zap.Int("pages_failed", stats.PagesFailed),
		zap.Int("chunks", stats.ChunksUpserted),
		zap.Duration("duration", stats.Duration),
	)
	return stats, nil
}

// indexSource chunks one document, embeds the chunks in a batch, and replaces
// the source's stored chunks.
func (s *Service) indexSource(ctx context.Context, collection, source, text string) (int, int, error) {
	chunks := chunker.Split(source, text, chunker.Config{
		Size:    s.cfg.ChunkSize,
		Overlap: s.cfg.ChunkOverlap,
	})
	if len(chunks) == 0 {
		return 0, 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	batch, err := s.batchEmbed(ctx, texts)
	if err != nil {
		return 0, 0, err
	}
	if len(batch.Embeddings) != len(chunks) {
		return 0, 0, fmt.Errorf("embedded %d of %d chunks", len(batch.Embeddings), len(chunks))
	}

	embedded := make([]domain.EmbeddedChunk, len(chunks))
	for i, c := range chunks {
		embedded[i] = domain.EmbeddedChunk{Chunk: c, Vector: batch.Embeddings[i]}
	}

	if err := s.chunks.DeleteBySource(ctx, collection, source); err != nil {
		return 0, 0, err
	}
	if err := s.chunks.Upsert(ctx, collection, embedded); err != nil {
		return 0, 0, err
	}

	metrics.IndexChunksTotal.WithLabelValues(collection).Add(float64(len(embedded)))
	return len(embedded), batch.TotalTokens, nil
}

func (s *Service) batchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if be, ok := s.embed.(domain.BatchEmbedder); ok {
		res, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
		}
		return res, nil
	}
	res, err := domain.BatchFallback(ctx, s.embed, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed fallback: %w", err)
	}
	return res, nil
}
