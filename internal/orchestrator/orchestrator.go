// Package orchestrator drives one query-display cycle: validate, dispatch to
// the retrieval collaborator, install the returned bundle, export to the
// clipboard, and keep the notice slot current.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/godex-dev/godex/internal/assemble"
	"github.com/godex-dev/godex/internal/domain"
)

// DefaultNoticeTTL is how long a notice stays before auto-clearing.
const DefaultNoticeTTL = 10 * time.Second

// Collaborator is the external retrieval service consumed by the orchestrator.
type Collaborator interface {
	Collections(ctx context.Context) ([]string, error)
	Query(ctx context.Context, q domain.Query, limit int) (domain.ContextBundle, error)
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	Write(text string) error
}

// Orchestrator validates queries, dispatches them, and owns the session state.
type Orchestrator struct {
	api       Collaborator
	clipboard Clipboard
	logger    *zap.Logger

	limit     int
	noticeTTL time.Duration

	// gen guards against out-of-order resolution of overlapping submissions:
	// a response is applied only while its generation is still the latest.
	gen atomic.Uint64

	mu    sync.Mutex
	state State
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLimit sets the per-collection result cap sent to the collaborator.
func WithLimit(limit int) Option {
	return func(o *Orchestrator) {
		if limit > 0 {
			o.limit = limit
		}
	}
}

// WithNoticeTTL sets the notice auto-clear timeout.
func WithNoticeTTL(ttl time.Duration) Option {
	return func(o *Orchestrator) {
		if ttl > 0 {
			o.noticeTTL = ttl
		}
	}
}

// New creates an orchestrator. clipboard may be nil to disable export.
func New(api Collaborator, clipboard Clipboard, logger *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:       api,
		clipboard: clipboard,
		logger:    logger,
		limit:     domain.DefaultQueryLimit,
		noticeTTL: DefaultNoticeTTL,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit validates and dispatches a query, then installs the result as the
// new displayed bundle. On success with at least one hit the serialized
// bundle is written to the clipboard; a clipboard failure is downgraded to an
// informational notice and never surfaces as an error.
func (o *Orchestrator) Submit(ctx context.Context, q domain.Query) (domain.ContextBundle, error) {
	if strings.TrimSpace(q.Text) == "" {
		err := fmt.Errorf("query text is empty: %w", domain.ErrValidation)
		o.post("Please enter a query.", domain.SeverityDanger)
		return domain.ContextBundle{}, err
	}
	if len(q.Collections) == 0 {
		err := fmt.Errorf("no collections selected: %w", domain.ErrValidation)
		o.post("Select at least one collection.", domain.SeverityDanger)
		return domain.ContextBundle{}, err
	}

	gen := o.gen.Add(1)

	bundle, err := o.api.Query(ctx, q, o.limit)
	if err != nil {
		o.post(err.Error(), severityFor(err))
		return domain.ContextBundle{}, err
	}

	if gen != o.gen.Load() {
		// A newer submission resolved first; discard this response rather
		// than letting the last-to-resolve overwrite the displayed state.
		o.logger.Debug("discarding stale query response",
			zap.Uint64("generation", gen),
			zap.Uint64("latest", o.gen.Load()),
		)
		return bundle, nil
	}

	o.apply(BundleReplaced{Bundle: bundle})

	if bundle.TotalResults() == 0 {
		o.post("No results found for this query.", domain.SeverityInfo)
		return bundle, nil
	}

	o.export(bundle)
	return bundle, nil
}

// export serializes the bundle and attempts the clipboard write.
func (o *Orchestrator) export(bundle domain.ContextBundle) {
	text := assemble.Serialize(bundle)

	if o.clipboard == nil {
		o.post("Context ready.", domain.SeveritySuccess)
		return
	}

	if err := o.clipboard.Write(text); err != nil {
		// The query itself succeeded; clipboard failure must not look like one.
		o.logger.Warn("clipboard export failed", zap.Error(err))
		o.post("Context ready (clipboard unavailable).", domain.SeverityInfo)
		return
	}

	o.post("Context copied to clipboard.", domain.SeveritySuccess)
}

// RefreshCollections fetches the known collection names. On failure the
// previously known set is kept intact: the collaborator may be cold-starting
// and this must not alarm the user.
func (o *Orchestrator) RefreshCollections(ctx context.Context) []string {
	names, err := o.api.Collections(ctx)
	if err != nil {
		o.logger.Debug("collection refresh failed, keeping known set", zap.Error(err))
		return o.State().Collections
	}

	o.apply(CollectionsRefreshed{Names: names})
	return names
}

// State returns a snapshot of the session state, clearing the notice slot
// first when its TTL has elapsed.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = Apply(o.state, NoticeExpired{At: time.Now()}, o.noticeTTL)
	return o.state
}

func (o *Orchestrator) apply(ev Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = Apply(o.state, ev, o.noticeTTL)
}

func (o *Orchestrator) post(text string, sev domain.Severity) {
	o.apply(NoticePosted{Text: text, Severity: sev, At: time.Now()})
}

// severityFor maps the error taxonomy to notice severities: server failures
// are danger, transport failures warning.
func severityFor(err error) domain.Severity {
	if errors.Is(err, domain.ErrServer) {
		return domain.SeverityDanger
	}
	return domain.SeverityWarning
}
