// Package chunkrepo persists embedded chunks as hashes under a collection's
// key prefix, where the collection's FT index picks them up.
package chunkrepo

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/godex-dev/godex/internal/db"
	"github.com/godex-dev/godex/internal/domain"
)

// store is the consumer interface for chunk storage (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	DelMulti(ctx context.Context, keys []string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/index.ChunkStore.
type Repo struct {
	store store
}

// New creates a chunk repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// batchSize caps one HSetMulti round-trip; large docs pages can produce
// thousands of chunks.
const batchSize = 100

// Upsert writes embedded chunks in pipelined batches. Re-indexing the same
// source overwrites its chunk keys in place.
func (r *Repo) Upsert(ctx context.Context, collection string, chunks []domain.EmbeddedChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, 0, len(chunks))
	for _, ec := range chunks {
		items = append(items, db.HashSetItem{
			Key:    chunkKey(collection, ec.Chunk.Source, ec.Chunk.Index),
			Fields: chunkToHash(ec),
		})
	}

	for start := 0; start < len(items); start += batchSize {
		end := min(start+batchSize, len(items))
		if err := r.store.HSetMulti(ctx, items[start:end]); err != nil {
			return fmt.Errorf("hset chunks %s: %w", collection, err)
		}
	}
	return nil
}

// DeleteBySource removes every chunk of one source, used before re-indexing a
// file whose chunk count may have shrunk.
func (r *Repo) DeleteBySource(ctx context.Context, collection, source string) error {
	pattern := fmt.Sprintf("%s%s:chunk:%s_*", domain.KeyPrefix, collection, sanitizeSource(source))
	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return fmt.Errorf("scan chunks %s: %w", source, err)
	}
	if err := r.store.DelMulti(ctx, keys); err != nil {
		return fmt.Errorf("del chunks %s: %w", source, err)
	}
	return nil
}

// Count returns the number of stored chunks in a collection.
func (r *Repo) Count(ctx context.Context, collection string) (int, error) {
	pattern := fmt.Sprintf("%s%s:chunk:*", domain.KeyPrefix, collection)
	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return 0, fmt.Errorf("scan chunks %s: %w", collection, err)
	}
	return len(keys), nil
}

func chunkToHash(ec domain.EmbeddedChunk) map[string]string {
	return map[string]string{
		"text":   ec.Chunk.Text,
		"source": ec.Chunk.Source,
		"index":  strconv.Itoa(ec.Chunk.Index),
		"vector": vectorToBytes(ec.Vector),
	}
}

// vectorToBytes serializes []float32 to the little-endian FLOAT32 blob the
// index's vector field expects.
func vectorToBytes(vec []float32) string {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return string(buf)
}

// Redis key pattern: godex:{collection}:chunk:{sanitized-source}_{index}

func chunkKey(collection, source string, index int) string {
	return fmt.Sprintf("%s%s:chunk:%s_%d", domain.KeyPrefix, collection, sanitizeSource(source), index)
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func sanitizeSource(source string) string {
	return unsafeKeyChars.ReplaceAllString(source, "_")
}
