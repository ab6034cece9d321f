package watch

import (
	"context"
	"strings"
	"sync"

	"github.com/pboueri/outgit/src/git"
	"github.com/pboueri/outgit/src/logger"
	"github.com/pboueri/outgit/src/marker"
)

// EventKind is the closed set of repository mutation signals the dispatcher
// understands.
type EventKind int

const (
	MetadataChanged EventKind = iota
	MetadataCreated
	MetadataDeleted
	ActiveViewChanged
)

func (k EventKind) String() string {
	switch k {
	case MetadataChanged:
		return "metadata-changed"
	case MetadataCreated:
		return "metadata-created"
	case MetadataDeleted:
		return "metadata-deleted"
	case ActiveViewChanged:
		return "active-view-changed"
	default:
		return "unknown"
	}
}

// Event is one repository mutation signal.
type Event struct {
	Kind EventKind
	Path string
}

// Dispatcher consumes mutation events from a single inbound channel and
// decides, per event, whether to refresh the push marker or merely invalidate
// cached views. Only a detected push moves the marker; refreshing on every
// metadata touch would make the outgoing and synced sets flicker on unrelated
// local operations such as checkout or fetch.
type Dispatcher struct {
	git        git.QueryAdapter
	tracker    *marker.Tracker
	events     chan Event
	invalidate func()

	mu            sync.Mutex
	lastRemoteTip string
}

func NewDispatcher(adapter git.QueryAdapter, tracker *marker.Tracker, invalidate func()) *Dispatcher {
	return &Dispatcher{
		git:        adapter,
		tracker:    tracker,
		events:     make(chan Event, 16),
		invalidate: invalidate,
	}
}

// Events returns the inbound channel mutation signals are sent on.
func (d *Dispatcher) Events() chan<- Event {
	return d.events
}

// Run consumes events until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.events:
			d.Handle(ctx, ev)
		}
	}
}

// Handle processes a single event.
func (d *Dispatcher) Handle(ctx context.Context, ev Event) {
	logger.Debug("Repository event: %s %s", ev.Kind, ev.Path)

	if ev.Kind == MetadataChanged && d.pushDetected(ctx) {
		logger.Info("Push detected, refreshing push marker")
		d.tracker.Refresh(ctx)
	}

	if d.invalidate != nil {
		d.invalidate()
	}
}

// pushDetected reports whether the remote tracking ref moved because of a
// push since the last check. The remote-tracking reflog records pushes with
// an "update by push" subject; comparing the tip id keeps an old push entry
// from re-triggering on every later metadata touch.
func (d *Dispatcher) pushDetected(ctx context.Context) bool {
	branch, err := d.git.CurrentBranch(ctx)
	if err != nil {
		return false
	}
	remoteRef := d.tracker.RemoteRef(branch)

	tip, err := d.git.ResolveRef(ctx, remoteRef)
	if err != nil {
		return false
	}

	d.mu.Lock()
	moved := tip != d.lastRemoteTip
	d.lastRemoteTip = tip
	d.mu.Unlock()
	if !moved {
		return false
	}

	subject, err := d.git.LastOperation(ctx, "refs/remotes/"+remoteRef)
	if err != nil {
		return false
	}
	return strings.Contains(subject, "update by push")
}
