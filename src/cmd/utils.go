package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pboueri/outgit/src/config"
	"github.com/pboueri/outgit/src/engine"
	"github.com/pboueri/outgit/src/git"
	"github.com/pboueri/outgit/src/marker"
	"github.com/pboueri/outgit/src/view"
)

// workspace bundles the managers every command wires up: the configured git
// adapter, the push marker tracker, the query engine and the view provider.
type workspace struct {
	root     string
	config   *config.Config
	git      *git.ExecAdapter
	tracker  *marker.Tracker
	engine   *engine.Engine
	provider *view.Provider
}

// createWorkspace creates the managers for the working directory and refreshes
// the push marker once so commands start from current repository state.
func createWorkspace(ctx context.Context) (*workspace, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	adapter, err := git.NewWithCommand(root, cfg.Git.Command, cfg.Git.Timeout)
	if err != nil {
		return nil, err
	}

	// Fail fast outside a repository instead of surfacing the same error
	// from every later query.
	if _, err := adapter.CurrentBranch(ctx); err != nil {
		return nil, err
	}

	tracker := marker.NewTracker(adapter, cfg.Remote)
	tracker.Refresh(ctx)

	eng := engine.New(adapter, tracker, cfg.Tracker.DedupPolicy, cfg.Tracker.SyncedLimit)
	return &workspace{
		root:     root,
		config:   cfg,
		git:      adapter,
		tracker:  tracker,
		engine:   eng,
		provider: view.NewProvider(eng, tracker),
	}, nil
}
