// Package httpapi exposes the retrieval backend over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/godex-dev/godex/internal/domain"
	"github.com/godex-dev/godex/internal/rules"
	collectionuc "github.com/godex-dev/godex/internal/usecase/collection"
	healthuc "github.com/godex-dev/godex/internal/usecase/health"
	indexuc "github.com/godex-dev/godex/internal/usecase/index"
	queryuc "github.com/godex-dev/godex/internal/usecase/query"
)

// maxRulesUploadBytes caps the project rules upload size.
const maxRulesUploadBytes = 1 << 20

// Server holds the HTTP handlers and their use case dependencies.
type Server struct {
	query       *queryuc.Service
	index       *indexuc.Service
	collections *collectionuc.Service
	health      *healthuc.Service
	rules       *rules.Store
	logger      *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	query *queryuc.Service,
	index *indexuc.Service,
	collections *collectionuc.Service,
	health *healthuc.Service,
	rulesStore *rules.Store,
	logger *zap.Logger,
) *Server {
	return &Server{
		query:       query,
		index:       index,
		collections: collections,
		health:      health,
		rules:       rulesStore,
		logger:      logger,
	}
}

// Routes mounts every endpoint on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/query", s.handleQuery)
		r.Post("/index-project", s.handleIndexProject)
		r.Post("/index-docs", s.handleIndexDocs)
		r.Post("/upload-rules", s.handleUploadRules)
		r.Get("/collections", s.handleListCollections)
		r.Post("/collections", s.handleCreateCollection)
		r.Delete("/collections/{name}", s.handleDeleteCollection)
	})
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// handleQuery handles POST /api/query.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	bundle, err := s.query.Query(r.Context(), domain.Query{
		Text:         req.Query,
		Collections:  req.Collections,
		IncludeRules: req.IncludeRules,
	}, req.Limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bundleToDTO(bundle))
}

// handleIndexProject handles POST /api/index-project. Indexing runs
// synchronously; the server's write timeout must accommodate large projects.
func (s *Server) handleIndexProject(w http.ResponseWriter, r *http.Request) {
	var req indexProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	collection := req.Collection
	if collection == "" {
		collection = domain.DefaultCollections[0]
	}

	stats, err := s.index.IndexProject(r.Context(), req.Path, collection)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, indexResponse{
		Success: true,
		Message: "project indexed into " + collection,
		Stats:   statsToDTO(stats),
	})
}

// handleIndexDocs handles POST /api/index-docs.
func (s *Server) handleIndexDocs(w http.ResponseWriter, r *http.Request) {
	var req indexDocsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	collection := req.Collection
	if collection == "" {
		collection = domain.DefaultCollections[1]
	}

	stats, err := s.index.IndexDocs(r.Context(), req.Version, collection)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, indexResponse{
		Success: true,
		Message: "docs " + req.Version + " indexed into " + collection,
		Stats:   statsToDTO(stats),
	})
}

// handleUploadRules handles POST /api/upload-rules (multipart, field "file").
func (s *Server) handleUploadRules(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing rules file: "+err.Error())
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxRulesUploadBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read rules file: "+err.Error())
		return
	}
	if len(content) > maxRulesUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "rules file exceeds 1 MiB")
		return
	}

	if err := s.rules.Save(content); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Success: true,
		Message: "project rules saved as " + rules.Filename,
	})
}

// handleListCollections handles GET /api/collections.
func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := s.collections.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := collectionsResponse{Collections: make([]collectionDTO, len(cols))}
	for i, c := range cols {
		resp.Collections[i] = collectionDTO{
			Name:      c.Name,
			VectorDim: c.VectorDim,
			CreatedAt: time.UnixMilli(c.CreatedAt).UTC(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCreateCollection handles POST /api/collections.
func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	col, err := s.collections.Create(r.Context(), req.Name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, collectionDTO{
		Name:      col.Name,
		VectorDim: col.VectorDim,
		CreatedAt: time.UnixMilli(col.CreatedAt).UTC(),
	})
}

// handleDeleteCollection handles DELETE /api/collections/{name}.
func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.collections.Delete(r.Context(), name); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: checks})
}

func bundleToDTO(b domain.ContextBundle) queryResponse {
	resp := queryResponse{
		Query:        b.Query,
		ProjectRules: b.ProjectRules,
		Contexts:     make([]collectionContext, len(b.Contexts)),
	}
	for i, c := range b.Contexts {
		results := make([]searchResultDTO, len(c.Results))
		for j, r := range c.Results {
			results[j] = searchResultDTO{Source: r.Source, Text: r.Text, Score: r.Score}
		}
		resp.Contexts[i] = collectionContext{Collection: c.Collection, Results: results}
	}
	return resp
}

func statsToDTO(s domain.IndexStats) indexStatsDTO {
	return indexStatsDTO{
		FilesIndexed:   s.FilesIndexed,
		FilesSkipped:   s.FilesSkipped,
		PagesFetched:   s.PagesFetched,
		PagesFailed:    s.PagesFailed,
		ChunksUpserted: s.ChunksUpserted,
		TokensUsed:     s.TokensUsed,
		DurationSec:    s.Duration.Seconds(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)

	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, msg)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, msg)
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, msg)
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		writeError(w, http.StatusBadGateway, msg)
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
