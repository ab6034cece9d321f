package integration

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pboueri/outgit/src"
	"github.com/pboueri/outgit/src/config"
	"github.com/pboueri/outgit/src/engine"
	"github.com/pboueri/outgit/src/git"
	"github.com/pboueri/outgit/src/marker"
	"github.com/pboueri/outgit/src/view"
)

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

func writeAndCommit(t *testing.T, dir, name, content, message string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	runGit(t, dir, "add", name)
	runGit(t, dir, "commit", "-m", message)
}

// Walks the full stack against a real repository: config, adapter, marker,
// engine and provider, across a commit-push-commit cycle.
func TestPushFlow(t *testing.T) {
	ctx := context.Background()

	repoDir, err := os.MkdirTemp("", "outgit-integration")
	require.NoError(t, err)
	defer os.RemoveAll(repoDir)
	remoteDir, err := os.MkdirTemp("", "outgit-integration-remote")
	require.NoError(t, err)
	defer os.RemoveAll(remoteDir)

	runGit(t, remoteDir, "init", "--bare", "-b", "main")
	runGit(t, repoDir, "init", "-b", "main")
	runGit(t, repoDir, "config", "user.email", "test@example.com")
	runGit(t, repoDir, "config", "user.name", "Test User")
	runGit(t, repoDir, "remote", "add", "origin", remoteDir)

	writeAndCommit(t, repoDir, "main.go", "package main\n", "init")
	runGit(t, repoDir, "push", "-u", "origin", "main")

	cfg, err := config.LoadConfig(repoDir)
	require.NoError(t, err)

	adapter, err := git.NewWithCommand(repoDir, cfg.Git.Command, cfg.Git.Timeout)
	require.NoError(t, err)

	tracker := marker.NewTracker(adapter, cfg.Remote)
	_, known := tracker.Refresh(ctx)
	require.True(t, known)

	eng := engine.New(adapter, tracker, cfg.Tracker.DedupPolicy, cfg.Tracker.SyncedLimit)
	provider := view.NewProvider(eng, tracker)

	// Freshly pushed branch has nothing outgoing
	commits, err := eng.OutgoingCommits(ctx)
	require.NoError(t, err)
	assert.Empty(t, commits)

	// Two local commits become outgoing, deduplicated by path
	writeAndCommit(t, repoDir, "main.go", "package main\n\nfunc main() {}\n", "add main")
	writeAndCommit(t, repoDir, "main_test.go", "package main\n", "add test")
	provider.RequestRefresh()

	commits, err = eng.OutgoingCommits(ctx)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "add test", commits[0].Summary)

	files, warnings := eng.OutgoingFiles(ctx)
	require.Empty(t, warnings)
	require.Len(t, files, 2)
	assert.Equal(t, "main.go", files[0].Path)
	assert.Equal(t, src.ChangeModified, files[0].Kind)
	assert.Equal(t, "main_test.go", files[1].Path)

	items := provider.Items(ctx, view.OutgoingCommits)
	require.Len(t, items, 2)
	assert.Contains(t, items[0].Label, "add test")

	// Pushing moves the marker and empties the outgoing set
	runGit(t, repoDir, "push", "origin", "main")
	provider.RequestPushStateUpdate(ctx)

	commits, err = eng.OutgoingCommits(ctx)
	require.NoError(t, err)
	assert.Empty(t, commits)

	synced, err := eng.SyncedCommits(ctx)
	require.NoError(t, err)
	assert.Len(t, synced, 3)

	items = provider.Items(ctx, view.OutgoingCommits)
	require.Len(t, items, 1)
	assert.Equal(t, view.ItemInformational, items[0].Kind)
}
