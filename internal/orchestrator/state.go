package orchestrator

import (
	"time"

	"github.com/godex-dev/godex/internal/domain"
)

// Notice is the single current-value alert slot. Every event overwrites it;
// the last writer wins, and it expires after a fixed TTL.
type Notice struct {
	Text      string
	Severity  domain.Severity
	ExpiresAt time.Time
}

// State is the UI-observable session state. Values are replaced wholesale by
// the reducer; callers receive snapshots, never shared references.
type State struct {
	Bundle      *domain.ContextBundle
	Collections []string
	Notice      *Notice
}

// Event is a state transition input.
type Event interface{ isEvent() }

// BundleReplaced installs a new displayed bundle, superseding any prior one.
type BundleReplaced struct {
	Bundle domain.ContextBundle
}

// CollectionsRefreshed replaces the known collection set.
type CollectionsRefreshed struct {
	Names []string
}

// NoticePosted overwrites the notice slot.
type NoticePosted struct {
	Text     string
	Severity domain.Severity
	At       time.Time
}

// NoticeExpired clears the notice slot when its TTL has elapsed.
type NoticeExpired struct {
	At time.Time
}

func (BundleReplaced) isEvent()       {}
func (CollectionsRefreshed) isEvent() {}
func (NoticePosted) isEvent()         {}
func (NoticeExpired) isEvent()        {}

// Apply maps (state, event) to the next state. No incremental merging: a new
// bundle always replaces the previous one in full.
func Apply(s State, ev Event, noticeTTL time.Duration) State {
	switch e := ev.(type) {
	case BundleReplaced:
		b := e.Bundle
		s.Bundle = &b
	case CollectionsRefreshed:
		s.Collections = append([]string(nil), e.Names...)
	case NoticePosted:
		s.Notice = &Notice{
			Text:      e.Text,
			Severity:  e.Severity,
			ExpiresAt: e.At.Add(noticeTTL),
		}
	case NoticeExpired:
		if s.Notice != nil && !e.At.Before(s.Notice.ExpiresAt) {
			s.Notice = nil
		}
	}
	return s
}
