package marker

import (
	"context"
	"sync"

	"github.com/pboueri/outgit/src/git"
	"github.com/pboueri/outgit/src/logger"
)

// Tracker remembers the last known synchronization point between the local
// branch and its remote: the merge-base of the two. It is the only mutable
// state shared across the engine, and it is process-lifetime only — the
// marker is rebuilt from the repository on the next startup.
//
// The tracker has two states: unknown and known. A refresh that fails moves
// the tracker back to unknown rather than silently retaining a stale value.
type Tracker struct {
	git    git.QueryAdapter
	remote string

	mu         sync.RWMutex
	id         string
	known      bool
	generation uint64
}

func NewTracker(adapter git.QueryAdapter, remote string) *Tracker {
	return &Tracker{
		git:    adapter,
		remote: remote,
	}
}

// Current returns the marker commit id, if known. Readers observe either the
// pre-refresh or post-refresh marker, never a partial update.
func (t *Tracker) Current() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.id, t.known
}

// Generation increments on every marker transition so that consumers can
// discard results computed against a superseded marker.
func (t *Tracker) Generation() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.generation
}

// RemoteRef returns the remote tracking ref for a branch, e.g. "origin/main".
func (t *Tracker) RemoteRef(branch string) string {
	return t.remote + "/" + branch
}

// Refresh recomputes the marker from the repository. It is idempotent and
// safe to invoke concurrently with outstanding reads. On any query failure
// the marker becomes unknown.
func (t *Tracker) Refresh(ctx context.Context) (string, bool) {
	branch, err := t.git.CurrentBranch(ctx)
	if err != nil {
		logger.Debug("Push marker unavailable: %v", err)
		return t.set("", false)
	}

	base, err := t.git.MergeBase(ctx, branch, t.RemoteRef(branch))
	if err != nil {
		logger.Debug("Push marker unavailable: %v", err)
		return t.set("", false)
	}

	logger.Debug("Push marker refreshed to %s", base)
	return t.set(base, true)
}

func (t *Tracker) set(id string, known bool) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.id != id || t.known != known {
		t.generation++
	}
	t.id = id
	t.known = known
	return t.id, t.known
}
