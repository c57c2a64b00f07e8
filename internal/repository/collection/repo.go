// Package collection persists collection metadata and manages the FT index
// that backs each collection's vector search.
package collection

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/godex-dev/godex/internal/db"
	"github.com/godex-dev/godex/internal/domain"
)

// store is the consumer interface for collections (ISP).
//
//nolint:interfacebloat // collection repo needs hash + index management operations
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	DelMulti(ctx context.Context, keys []string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// HNSWConfig HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo implements usecase/collection.Repository.
type Repo struct {
	store            store
	defaultVectorDim int
	hnsw             HNSWConfig
}

// New creates a collection repository.
func New(s store, defaultVectorDim int) *Repo {
	return &Repo{store: s, defaultVectorDim: defaultVectorDim, hnsw: HNSWConfig{M: 16, EFConstruct: 200}}
}

// WithHNSW configures HNSW index parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// Create stores a collection: HSET metadata then FT.CREATE index.
// On FT.CREATE failure, rolls back the HSET via DEL.
func (r *Repo) Create(ctx context.Context, col domain.Collection) error {
	metaKey := metaKey(col.Name)
	exists, err := r.store.Exists(ctx, metaKey)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	dim := col.VectorDim
	if dim <= 0 {
		dim = r.defaultVectorDim
	}
	indexDef := buildIndex(col.Name, dim, r.hnsw)

	if err := r.store.HSet(ctx, metaKey, collectionToHash(col, dim)); err != nil {
		return fmt.Errorf("hset collection %s: %w", col.Name, err)
	}

	// FT.CREATE, rolling back the HSET on error
	if err := r.store.CreateIndex(ctx, indexDef); err != nil {
		cleanupErr := r.store.Del(ctx, metaKey)
		return errors.Join(err, cleanupErr)
	}

	return nil
}

// Get retrieves a collection by name.
func (r *Repo) Get(ctx context.Context, name string) (domain.Collection, error) {
	m, err := r.store.HGetAll(ctx, metaKey(name))
	if err != nil {
		return domain.Collection{}, fmt.Errorf("hgetall collection %s: %w", name, err)
	}
	if len(m) == 0 {
		return domain.Collection{}, domain.ErrNotFound
	}
	return collectionFromHash(m, r.defaultVectorDim), nil
}

// Exists reports whether a collection's metadata is present.
func (r *Repo) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := r.store.Exists(ctx, metaKey(name))
	if err != nil {
		return false, fmt.Errorf("check collection %s: %w", name, err)
	}
	return ok, nil
}

// List returns all collections sorted by CreatedAt.
func (r *Repo) List(ctx context.Context) ([]domain.Collection, error) {
	keys, err := r.store.Scan(ctx, metaKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan collections: %w", err)
	}
	if len(keys) == 0 {
		return []domain.Collection{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi collections: %w", err)
	}

	collections := make([]domain.Collection, 0, len(results))
	for _, m := range results {
		if len(m) == 0 {
			continue
		}
		collections = append(collections, collectionFromHash(m, r.defaultVectorDim))
	}

	sort.Slice(collections, func(i, j int) bool {
		return collections[i].CreatedAt < collections[j].CreatedAt
	})

	return collections, nil
}

// Delete removes a collection: DEL metadata, FT.DROPINDEX (rollback HSET on
// error), then purges every chunk key under the collection prefix.
func (r *Repo) Delete(ctx context.Context, name string) error {
	metaKey := metaKey(name)

	metaBackup, err := r.store.HGetAll(ctx, metaKey)
	if err != nil {
		return fmt.Errorf("hgetall collection %s: %w", name, err)
	}
	if len(metaBackup) == 0 {
		return domain.ErrNotFound
	}

	if err := r.store.Del(ctx, metaKey); err != nil {
		return fmt.Errorf("del collection %s: %w", name, err)
	}

	// FT.DROPINDEX, restoring the meta on error. A missing index is fine: the
	// collection may have been created before its first indexing run failed.
	if err := r.store.DropIndex(ctx, indexName(name)); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		cleanupErr := r.store.HSet(ctx, metaKey, metaBackup)
		return errors.Join(err, cleanupErr)
	}

	chunkKeys, err := r.store.Scan(ctx, chunkPrefix(name)+"*")
	if err != nil {
		return fmt.Errorf("scan chunks %s: %w", name, err)
	}
	if err := r.store.DelMulti(ctx, chunkKeys); err != nil {
		return fmt.Errorf("purge chunks %s: %w", name, err)
	}

	return nil
}

// Redis key patterns: godex:collection:{name}, godex:{name}:idx, godex:{name}:chunk:

func metaKey(name string) string {
	return fmt.Sprintf("%scollection:%s", domain.KeyPrefix, name)
}

func indexName(name string) string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, name)
}

func chunkPrefix(name string) string {
	return fmt.Sprintf("%s%s:chunk:", domain.KeyPrefix, name)
}
