package collection

import (
	"context"

	"github.com/godex-dev/godex/internal/domain"
)

// Repository defines the storage contract for collections.
type Repository interface {
	Create(ctx context.Context, col domain.Collection) error
	Get(ctx context.Context, name string) (domain.Collection, error)
	Exists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]domain.Collection, error)
	Delete(ctx context.Context, name string) error
}
