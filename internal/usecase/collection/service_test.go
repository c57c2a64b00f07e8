package collection

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/godex-dev/godex/internal/domain"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	createFn func(ctx context.Context, col domain.Collection) error
	getFn    func(ctx context.Context, name string) (domain.Collection, error)
	existsFn func(ctx context.Context, name string) (bool, error)
	listFn   func(ctx context.Context) ([]domain.Collection, error)
	deleteFn func(ctx context.Context, name string) error
}

func (m *mockRepo) Create(ctx context.Context, col domain.Collection) error {
	if m.createFn != nil {
		return m.createFn(ctx, col)
	}
	return nil
}

func (m *mockRepo) Get(ctx context.Context, name string) (domain.Collection, error) {
	if m.getFn != nil {
		return m.getFn(ctx, name)
	}
	return domain.Collection{}, domain.ErrNotFound
}

func (m *mockRepo) Exists(ctx context.Context, name string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, name)
	}
	return false, nil
}

func (m *mockRepo) List(ctx context.Context) ([]domain.Collection, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockRepo) Delete(ctx context.Context, name string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, name)
	}
	return nil
}

func newTestService(t *testing.T) (*Service, *mockRepo) {
	t.Helper()
	mr := &mockRepo{}
	return New(mr, 384, zap.NewNop()), mr
}

func TestCreate(t *testing.T) {
	svc, mr := newTestService(t)

	var created domain.Collection
	mr.createFn = func(_ context.Context, col domain.Collection) error {
		created = col
		return nil
	}

	col, err := svc.Create(context.Background(), "godot_game")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if col.Name != "godot_game" {
		t.Errorf("name: got %q", col.Name)
	}
	if created.VectorDim != 384 {
		t.Errorf("vector dim: got %d, want 384", created.VectorDim)
	}
	if created.CreatedAt == 0 {
		t.Error("CreatedAt not set")
	}
}

func TestCreate_InvalidName(t *testing.T) {
	svc, _ := newTestService(t)

	for _, name := range []string{"", "has space", "slash/name", "dot.name"} {
		_, err := svc.Create(context.Background(), name)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Create(%q): got %v, want ErrValidation", name, err)
		}
	}
}

func TestCreate_Duplicate(t *testing.T) {
	svc, mr := newTestService(t)
	mr.createFn = func(context.Context, domain.Collection) error {
		return domain.ErrAlreadyExists
	}

	_, err := svc.Create(context.Background(), "godot_game")
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("got %v, want ErrAlreadyExists", err)
	}
}

func TestNames(t *testing.T) {
	svc, mr := newTestService(t)
	mr.listFn = func(context.Context) ([]domain.Collection, error) {
		return []domain.Collection{{Name: "godot_game"}, {Name: "godot_docs"}}, nil
	}

	names, err := svc.Names(context.Background())
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) != 2 || names[0] != "godot_game" || names[1] != "godot_docs" {
		t.Errorf("got %v", names)
	}
}

func TestEnsureDefaults(t *testing.T) {
	svc, mr := newTestService(t)

	existing := map[string]bool{"godot_game": true}
	mr.existsFn = func(_ context.Context, name string) (bool, error) {
		return existing[name], nil
	}
	var created []string
	mr.createFn = func(_ context.Context, col domain.Collection) error {
		created = append(created, col.Name)
		return nil
	}

	if err := svc.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}
	if len(created) != 1 || created[0] != "godot_docs" {
		t.Errorf("created %v, want only godot_docs", created)
	}
}

func TestEnsureDefaults_RaceTolerated(t *testing.T) {
	svc, mr := newTestService(t)
	mr.createFn = func(context.Context, domain.Collection) error {
		return domain.ErrAlreadyExists
	}

	if err := svc.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("EnsureDefaults with concurrent create: %v", err)
	}
}
