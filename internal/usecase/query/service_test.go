package query

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/godex-dev/godex/internal/db"
	"github.com/godex-dev/godex/internal/domain"
)

type mockSearcher struct {
	fn func(ctx context.Context, collection string, vector []float32, topK int) ([]domain.SearchResult, error)
}

func (m *mockSearcher) SearchKNN(
	ctx context.Context, collection string, vector []float32, topK int,
) ([]domain.SearchResult, error) {
	if m.fn != nil {
		return m.fn(ctx, collection, vector, topK)
	}
	return nil, nil
}

type mockEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vector}, nil
}

type mockRules struct {
	exists bool
	text   string
	err    error
}

func (m *mockRules) Exists() bool { return m.exists }
func (m *mockRules) Load() (string, error) {
	return m.text, m.err
}

func newTestService(t *testing.T) (*Service, *mockSearcher, *mockEmbedder, *mockRules) {
	t.Helper()
	search := &mockSearcher{}
	embed := &mockEmbedder{vector: []float32{0.1, 0.2}}
	rules := &mockRules{}
	svc := New(search, embed, rules, zap.NewNop())
	return svc, search, embed, rules
}

func TestQuery_EmptyText(t *testing.T) {
	svc, _, embed, _ := newTestService(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.Query(context.Background(), domain.Query{Text: text}, 3)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Query(%q): got %v, want ErrValidation", text, err)
		}
	}
	if embed.calls != 0 {
		t.Errorf("embedder called %d times for invalid queries", embed.calls)
	}
}

func TestQuery_EmbedsOnce(t *testing.T) {
	svc, search, embed, _ := newTestService(t)

	var searched []string
	search.fn = func(_ context.Context, col string, vec []float32, _ int) ([]domain.SearchResult, error) {
		if vec[0] != 0.1 {
			t.Errorf("vector not passed through: %v", vec)
		}
		searched = append(searched, col)
		return []domain.SearchResult{{Source: "x", Text: "y", Score: 0.5}}, nil
	}

	q := domain.Query{Text: "how do signals work?", Collections: []string{"a", "b", "c"}}
	if _, err := svc.Query(context.Background(), q, 3); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if embed.calls != 1 {
		t.Errorf("embedder called %d times, want 1", embed.calls)
	}
	if len(searched) != 3 || searched[0] != "a" || searched[2] != "c" {
		t.Errorf("search order: got %v", searched)
	}
}

func TestQuery_DefaultCollections(t *testing.T) {
	svc, search, _, _ := newTestService(t)

	var searched []string
	search.fn = func(_ context.Context, col string, _ []float32, _ int) ([]domain.SearchResult, error) {
		searched = append(searched, col)
		return nil, nil
	}

	if _, err := svc.Query(context.Background(), domain.Query{Text: "q"}, 0); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(searched) != len(domain.DefaultCollections) {
		t.Fatalf("searched %v", searched)
	}
	for i, col := range domain.DefaultCollections {
		if searched[i] != col {
			t.Errorf("collection %d: got %q, want %q", i, searched[i], col)
		}
	}
}

func TestQuery_OmitsEmptyCollections(t *testing.T) {
	svc, search, _, _ := newTestService(t)

	search.fn = func(_ context.Context, col string, _ []float32, _ int) ([]domain.SearchResult, error) {
		if col == "empty" {
			return nil, nil
		}
		return []domain.SearchResult{{Source: "s", Text: "t", Score: 0.9}}, nil
	}

	q := domain.Query{Text: "q", Collections: []string{"full", "empty"}}
	bundle, err := svc.Query(context.Background(), q, 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(bundle.Contexts) != 1 || bundle.Contexts[0].Collection != "full" {
		t.Errorf("contexts: %+v", bundle.Contexts)
	}
}

func TestQuery_MissingIndexSkipped(t *testing.T) {
	svc, search, _, _ := newTestService(t)

	search.fn = func(_ context.Context, col string, _ []float32, _ int) ([]domain.SearchResult, error) {
		if col == "never_indexed" {
			return nil, db.ErrIndexNotFound
		}
		return []domain.SearchResult{{Source: "s", Text: "t", Score: 0.9}}, nil
	}

	q := domain.Query{Text: "q", Collections: []string{"never_indexed", "good"}}
	bundle, err := svc.Query(context.Background(), q, 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(bundle.Contexts) != 1 || bundle.Contexts[0].Collection != "good" {
		t.Errorf("contexts: %+v", bundle.Contexts)
	}
}

func TestQuery_SearchFailurePropagates(t *testing.T) {
	svc, search, _, _ := newTestService(t)
	search.fn = func(context.Context, string, []float32, int) ([]domain.SearchResult, error) {
		return nil, errors.New("backend down")
	}

	_, err := svc.Query(context.Background(), domain.Query{Text: "q"}, 3)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestQuery_EmptyBundleIsValid(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	bundle, err := svc.Query(context.Background(), domain.Query{Text: "nothing matches"}, 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if bundle.TotalResults() != 0 {
		t.Errorf("expected empty bundle, got %d results", bundle.TotalResults())
	}
	if bundle.Query != "nothing matches" {
		t.Errorf("query echo: got %q", bundle.Query)
	}
}

func TestQuery_RulesAttached(t *testing.T) {
	svc, _, _, rules := newTestService(t)
	rules.exists = true
	rules.text = "Always use typed GDScript."

	q := domain.Query{Text: "q", IncludeRules: true}
	bundle, err := svc.Query(context.Background(), q, 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if bundle.ProjectRules == nil || *bundle.ProjectRules != "Always use typed GDScript." {
		t.Errorf("rules: %v", bundle.ProjectRules)
	}
}

func TestQuery_EmptyRulesStillAttached(t *testing.T) {
	svc, _, _, rules := newTestService(t)
	rules.exists = true
	rules.text = ""

	bundle, err := svc.Query(context.Background(), domain.Query{Text: "q", IncludeRules: true}, 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	// Presence matters, not content: an empty rules doc still attaches.
	if bundle.ProjectRules == nil {
		t.Fatal("rules pointer nil for existing empty doc")
	}
	if *bundle.ProjectRules != "" {
		t.Errorf("rules text: got %q", *bundle.ProjectRules)
	}
}

func TestQuery_RulesNotRequested(t *testing.T) {
	svc, _, _, rules := newTestService(t)
	rules.exists = true
	rules.text = "rules"

	bundle, err := svc.Query(context.Background(), domain.Query{Text: "q", IncludeRules: false}, 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if bundle.ProjectRules != nil {
		t.Error("rules attached without IncludeRules")
	}
}

func TestQuery_RulesAbsent(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	bundle, err := svc.Query(context.Background(), domain.Query{Text: "q", IncludeRules: true}, 3)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if bundle.ProjectRules != nil {
		t.Error("rules attached though none stored")
	}
}
