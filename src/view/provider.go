package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/pboueri/outgit/src"
	"github.com/pboueri/outgit/src/engine"
	"github.com/pboueri/outgit/src/marker"
)

// Category is a tagged variant over {Outgoing, Synced} x {Commits, Files}.
// Handlers are looked up by tag, never by display label.
type Category int

const (
	OutgoingCommits Category = iota
	OutgoingFiles
	SyncedCommits
	SyncedFiles
)

func (c Category) Label() string {
	switch c {
	case OutgoingCommits:
		return "Outgoing Commits"
	case OutgoingFiles:
		return "Outgoing Files"
	case SyncedCommits:
		return "Synced Commits"
	case SyncedFiles:
		return "Synced Files"
	default:
		return "Unknown"
	}
}

// ItemKind discriminates what a tree item represents.
type ItemKind int

const (
	ItemCommit ItemKind = iota
	ItemFile
	ItemInformational
)

// Item is one renderable node. Commit and file items carry enough identifying
// data for a consumer to request a diff view.
type Item struct {
	Kind     ItemKind
	Label    string
	CommitID string
	Path     string
	Change   src.ChangeKind
}

// Provider maps categories onto engine queries and caches the results until
// the next invalidation. Engine failures surface as informational items so a
// partially failing view still renders.
type Provider struct {
	engine   *engine.Engine
	tracker  *marker.Tracker
	handlers map[Category]func(ctx context.Context) []Item

	mu    sync.Mutex
	cache map[Category][]Item
}

func NewProvider(eng *engine.Engine, tracker *marker.Tracker) *Provider {
	p := &Provider{
		engine:  eng,
		tracker: tracker,
		cache:   map[Category][]Item{},
	}
	p.handlers = map[Category]func(ctx context.Context) []Item{
		OutgoingCommits: p.outgoingCommits,
		OutgoingFiles:   p.outgoingFiles,
		SyncedCommits:   p.syncedCommits,
		SyncedFiles:     p.syncedFiles,
	}
	return p
}

// RootCategories returns the top-level tree nodes in display order.
func (p *Provider) RootCategories() []Category {
	return []Category{OutgoingCommits, OutgoingFiles, SyncedCommits, SyncedFiles}
}

// Items returns the children of a category, computing and caching them on
// first access.
func (p *Provider) Items(ctx context.Context, category Category) []Item {
	p.mu.Lock()
	if items, ok := p.cache[category]; ok {
		p.mu.Unlock()
		return items
	}
	p.mu.Unlock()

	handler, ok := p.handlers[category]
	if !ok {
		return nil
	}
	items := handler(ctx)

	p.mu.Lock()
	p.cache[category] = items
	p.mu.Unlock()
	return items
}

// RequestRefresh drops all cached items; the next access recomputes from the
// repository.
func (p *Provider) RequestRefresh() {
	p.mu.Lock()
	p.cache = map[Category][]Item{}
	p.mu.Unlock()
}

// RequestPushStateUpdate refreshes the push marker and invalidates.
func (p *Provider) RequestPushStateUpdate(ctx context.Context) {
	p.tracker.Refresh(ctx)
	p.RequestRefresh()
}

func (p *Provider) outgoingCommits(ctx context.Context) []Item {
	commits, err := p.engine.OutgoingCommits(ctx)
	if err != nil {
		return []Item{informational(fmt.Sprintf("commits failed to load: %v", err))}
	}
	if len(commits) == 0 {
		return []Item{informational("No outgoing commits")}
	}
	return commitItems(commits)
}

func (p *Provider) outgoingFiles(ctx context.Context) []Item {
	files, warnings := p.engine.OutgoingFiles(ctx)
	return fileItems(files, warnings, "No outgoing files")
}

func (p *Provider) syncedCommits(ctx context.Context) []Item {
	commits, err := p.engine.SyncedCommits(ctx)
	if err != nil {
		return []Item{informational(fmt.Sprintf("commits failed to load: %v", err))}
	}
	if len(commits) == 0 {
		return []Item{informational("No synced commits")}
	}
	return commitItems(commits)
}

func (p *Provider) syncedFiles(ctx context.Context) []Item {
	files, warnings := p.engine.SyncedFiles(ctx)
	return fileItems(files, warnings, "No synced files")
}

func commitItems(commits []src.Commit) []Item {
	items := make([]Item, 0, len(commits))
	for _, commit := range commits {
		label := fmt.Sprintf("%s %s", commit.ShortID(), commit.Summary)
		if !commit.Date.IsZero() {
			label = fmt.Sprintf("%s (%s, %s)", label, commit.Author, humanize.Time(commit.Date))
		}
		items = append(items, Item{
			Kind:     ItemCommit,
			Label:    label,
			CommitID: commit.ID,
		})
	}
	return items
}

func fileItems(files []src.FileChange, warnings []string, emptyLabel string) []Item {
	var items []Item
	for _, file := range files {
		items = append(items, Item{
			Kind:   ItemFile,
			Label:  fmt.Sprintf("%s (%s)", file.Path, file.Kind),
			Path:   file.Path,
			Change: file.Kind,
		})
	}
	for _, warning := range warnings {
		items = append(items, informational(warning))
	}
	if len(items) == 0 {
		items = []Item{informational(emptyLabel)}
	}
	return items
}

func informational(label string) Item {
	return Item{Kind: ItemInformational, Label: label}
}
