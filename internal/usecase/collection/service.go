// Package collection implements collection lifecycle operations.
package collection

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/godex-dev/godex/internal/domain"
)

var validName = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Service handles collection CRUD operations.
type Service struct {
	repo      Repository
	vectorDim int
	logger    *zap.Logger
}

// New creates a collection service.
func New(repo Repository, vectorDim int, logger *zap.Logger) *Service {
	return &Service{repo: repo, vectorDim: vectorDim, logger: logger}
}

// Create validates and stores a new collection.
func (s *Service) Create(ctx context.Context, name string) (domain.Collection, error) {
	if name == "" || !validName.MatchString(name) {
		return domain.Collection{}, fmt.Errorf("%w: invalid collection name %q", domain.ErrValidation, name)
	}

	col := domain.Collection{
		Name:      name,
		VectorDim: s.vectorDim,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.repo.Create(ctx, col); err != nil {
		return domain.Collection{}, fmt.Errorf("create collection: %w", err)
	}

	s.logger.Info("Collection created", zap.String("collection", name))
	return col, nil
}

// Get retrieves a collection by name.
func (s *Service) Get(ctx context.Context, name string) (domain.Collection, error) {
	col, err := s.repo.Get(ctx, name)
	if err != nil {
		return domain.Collection{}, fmt.Errorf("get collection: %w", err)
	}
	return col, nil
}

// List returns all collections.
func (s *Service) List(ctx context.Context) ([]domain.Collection, error) {
	cols, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return cols, nil
}

// Names returns all collection names in List order.
func (s *Service) Names(ctx context.Context) ([]string, error) {
	cols, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names, nil
}

// Delete removes a collection and its chunks.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	s.logger.Info("Collection deleted", zap.String("collection", name))
	return nil
}

// Ensure creates the collection if it does not exist yet. Indexing into a
// fresh collection must not require a separate create step.
func (s *Service) Ensure(ctx context.Context, name string) error {
	exists, err := s.repo.Exists(ctx, name)
	if err != nil {
		return fmt.Errorf("check collection %s: %w", name, err)
	}
	if exists {
		return nil
	}
	if _, err := s.Create(ctx, name); err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
		return err
	}
	return nil
}

// EnsureDefaults creates the default collections if missing. Called once at
// startup so a fresh database is immediately queryable.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	for _, name := range domain.DefaultCollections {
		if err := s.Ensure(ctx, name); err != nil {
			return fmt.Errorf("default collection %s: %w", name, err)
		}
	}
	return nil
}
