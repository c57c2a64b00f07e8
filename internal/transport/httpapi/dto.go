package httpapi

import "time"

// queryRequest is the POST /api/query body.
type queryRequest struct {
	Query        string   `json:"query"`
	Limit        int      `json:"limit,omitempty"`
	Collections  []string `json:"collections,omitempty"`
	IncludeRules bool     `json:"include_rules,omitempty"`
}

// queryResponse mirrors the context bundle. ProjectRules is omitted entirely
// when no rules are attached so clients can gate on key presence.
type queryResponse struct {
	Query        string              `json:"query"`
	ProjectRules *string             `json:"project_rules,omitempty"`
	Contexts     []collectionContext `json:"contexts"`
}

type collectionContext struct {
	Collection string            `json:"collection"`
	Results    []searchResultDTO `json:"results"`
}

type searchResultDTO struct {
	Source string  `json:"source"`
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
}

type indexProjectRequest struct {
	Path       string `json:"path"`
	Collection string `json:"collection,omitempty"`
}

type indexDocsRequest struct {
	Version    string `json:"version"`
	Collection string `json:"collection,omitempty"`
}

type indexStatsDTO struct {
	FilesIndexed   int     `json:"files_indexed,omitempty"`
	FilesSkipped   int     `json:"files_skipped,omitempty"`
	PagesFetched   int     `json:"pages_fetched,omitempty"`
	PagesFailed    int     `json:"pages_failed,omitempty"`
	ChunksUpserted int     `json:"chunks_upserted"`
	TokensUsed     int     `json:"tokens_used"`
	DurationSec    float64 `json:"duration_sec"`
}

type indexResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Stats   indexStatsDTO `json:"stats"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type createCollectionRequest struct {
	Name string `json:"name"`
}

type collectionDTO struct {
	Name      string    `json:"name"`
	VectorDim int       `json:"vector_dim"`
	CreatedAt time.Time `json:"created_at"`
}

type collectionsResponse struct {
	Collections []collectionDTO `json:"collections"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// errorResponse carries the failure detail surfaced verbatim to clients.
type errorResponse struct {
	Detail string `json:"detail"`
}
