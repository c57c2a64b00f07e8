// Package domain holds the core godex entities shared across layers.
package domain

import "time"

// KeyPrefix namespaces all godex keys in the database.
const KeyPrefix = "godex:"

// Default collections queried when the caller does not name any.
var DefaultCollections = []string{"godot_game", "godot_docs"}

// DefaultQueryLimit is the per-collection result cap when unspecified.
const DefaultQueryLimit = 3

// Query is one retrieval request, immutable once dispatched.
type Query struct {
	Text         string
	Collections  []string
	IncludeRules bool
}

// SearchResult is a single retrieved chunk. Score is a similarity in [0,1].
type SearchResult struct {
	Source string
	Text   string
	Score  float64
}

// CollectionResults holds the ranked hits of one collection, in the order
// the search backend returned them. Never re-sorted by godex.
type CollectionResults struct {
	Collection string
	Results    []SearchResult
}

// ContextBundle is the full response for one query. ProjectRules is gated on
// presence, not non-emptiness: a non-nil pointer to an empty string still
// counts as attached rules. A bundle with zero results is a valid, displayable
// empty state distinct from an error.
type ContextBundle struct {
	Query        string
	ProjectRules *string
	Contexts     []CollectionResults
}

// TotalResults counts hits across all contexts.
func (b ContextBundle) TotalResults() int {
	n := 0
	for _, c := range b.Contexts {
		n += len(c.Results)
	}
	return n
}

// Collection is a named vector collection with its index geometry.
type Collection struct {
	Name      string
	VectorDim int
	CreatedAt int64
}

// Chunk is a bounded span of source text produced for embedding.
type Chunk struct {
	Source string
	Index  int
	Text   string
}

// EmbeddedChunk pairs a chunk with its vector, ready for upsert.
type EmbeddedChunk struct {
	Chunk  Chunk
	Vector []float32
}

// IndexStats summarizes one indexing run.
type IndexStats struct {
	FilesIndexed   int           `json:"files_indexed"`
	FilesSkipped   int           `json:"files_skipped"`
	PagesFetched   int           `json:"pages_fetched,omitempty"`
	PagesFailed    int           `json:"pages_failed,omitempty"`
	ChunksUpserted int           `json:"chunks_upserted"`
	TokensUsed     int           `json:"tokens_used"`
	Duration       time.Duration `json:"duration_ns"`
}
