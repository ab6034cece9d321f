package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pboueri/outgit/src"
	"github.com/pboueri/outgit/src/git"
	"github.com/pboueri/outgit/src/marker"
)

// threeCommitRepo builds the feature-branch scenario: c3 "fix bug" and
// c2 "add test" are ahead of the merge-base c1 "init".
func threeCommitRepo() *git.MockAdapter {
	mock := git.NewMockAdapter()
	mock.Branch = "feature"
	mock.Commits = []src.Commit{
		{ID: "c3", Summary: "fix bug", Date: time.Unix(3, 0)},
		{ID: "c2", Summary: "add test", Date: time.Unix(2, 0)},
		{ID: "c1", Summary: "init", Date: time.Unix(1, 0)},
	}
	mock.MergeBases["feature origin/feature"] = "c1"
	mock.Files["c1"] = []src.FileChange{{Path: "main.go", Kind: src.ChangeAdded}}
	mock.Files["c2"] = []src.FileChange{{Path: "main_test.go", Kind: src.ChangeAdded}}
	mock.Files["c3"] = []src.FileChange{{Path: "main.go", Kind: src.ChangeModified}}
	return mock
}

func newEngine(mock *git.MockAdapter, policy src.DedupPolicy) (*Engine, *marker.Tracker) {
	tracker := marker.NewTracker(mock, "origin")
	return New(mock, tracker, policy, 0), tracker
}

func TestOutgoingCommitsWithKnownMarker(t *testing.T) {
	mock := threeCommitRepo()
	eng, tracker := newEngine(mock, src.DedupFirstSeenWins)
	ctx := context.Background()

	_, known := tracker.Refresh(ctx)
	require.True(t, known)

	commits, err := eng.OutgoingCommits(ctx)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "c3", commits[0].ID)
	assert.Equal(t, "c2", commits[1].ID)
}

func TestOutgoingCommitsFallsBackToRemoteTip(t *testing.T) {
	mock := threeCommitRepo()
	eng, _ := newEngine(mock, src.DedupFirstSeenWins)
	ctx := context.Background()

	// No marker refresh; the engine must compare against origin/feature.
	_, err := eng.OutgoingCommits(ctx)
	require.Error(t, err)
	assert.Contains(t, mock.Calls(), "LogRange origin/feature feature")
}

func TestOutgoingCommitsEmptyWhenUpToDate(t *testing.T) {
	mock := threeCommitRepo()
	mock.MergeBases["feature origin/feature"] = "c3"
	eng, tracker := newEngine(mock, src.DedupFirstSeenWins)
	ctx := context.Background()

	tracker.Refresh(ctx)

	commits, err := eng.OutgoingCommits(ctx)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestOutgoingFilesFirstSeenWins(t *testing.T) {
	mock := threeCommitRepo()
	mock.MergeBases["feature origin/feature"] = "c1"
	// c2 (older) adds shared.go, c3 (newer) modifies it again.
	mock.Files["c2"] = []src.FileChange{{Path: "shared.go", Kind: src.ChangeAdded}}
	mock.Files["c3"] = []src.FileChange{{Path: "shared.go", Kind: src.ChangeModified}}

	eng, tracker := newEngine(mock, src.DedupFirstSeenWins)
	ctx := context.Background()
	tracker.Refresh(ctx)

	files, warnings := eng.OutgoingFiles(ctx)
	assert.Empty(t, warnings)
	require.Len(t, files, 1)
	assert.Equal(t, "shared.go", files[0].Path)
	assert.Equal(t, src.ChangeAdded, files[0].Kind)
}

func TestOutgoingFilesModifiedOnMultiplePolicy(t *testing.T) {
	mock := threeCommitRepo()
	mock.Files["c2"] = []src.FileChange{{Path: "shared.go", Kind: src.ChangeAdded}}
	mock.Files["c3"] = []src.FileChange{{Path: "shared.go", Kind: src.ChangeDeleted}}

	eng, tracker := newEngine(mock, src.DedupModifiedOnMultiple)
	ctx := context.Background()
	tracker.Refresh(ctx)

	files, warnings := eng.OutgoingFiles(ctx)
	assert.Empty(t, warnings)
	require.Len(t, files, 1)
	assert.Equal(t, src.ChangeModified, files[0].Kind)
}

func TestOutgoingFilesIdempotent(t *testing.T) {
	mock := threeCommitRepo()
	eng, tracker := newEngine(mock, src.DedupFirstSeenWins)
	ctx := context.Background()
	tracker.Refresh(ctx)

	first, _ := eng.OutgoingFiles(ctx)
	second, _ := eng.OutgoingFiles(ctx)
	assert.Equal(t, first, second)
}

func TestOutgoingFilesDegradesOnSingleCommitFailure(t *testing.T) {
	mock := git.NewMockAdapter()
	mock.Branch = "feature"
	mock.Commits = []src.Commit{
		{ID: "c4", Summary: "three"},
		{ID: "c3", Summary: "two"},
		{ID: "c2", Summary: "one"},
		{ID: "c1", Summary: "init"},
	}
	mock.MergeBases["feature origin/feature"] = "c1"
	mock.Files["c2"] = []src.FileChange{{Path: "a.go", Kind: src.ChangeAdded}}
	mock.Files["c4"] = []src.FileChange{{Path: "b.go", Kind: src.ChangeAdded}}
	mock.FilesErr["c3"] = git.ErrCommitNotFound

	eng, tracker := newEngine(mock, src.DedupFirstSeenWins)
	ctx := context.Background()
	tracker.Refresh(ctx)

	files, warnings := eng.OutgoingFiles(ctx)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "c3")
	require.Len(t, files, 2)
	assert.Equal(t, "a.go", files[0].Path)
	assert.Equal(t, "b.go", files[1].Path)
}

func TestSyncedSoftEmptyWithoutMarker(t *testing.T) {
	mock := threeCommitRepo()
	eng, _ := newEngine(mock, src.DedupFirstSeenWins)
	ctx := context.Background()

	commits, err := eng.SyncedCommits(ctx)
	require.NoError(t, err)
	assert.Empty(t, commits)

	files, warnings := eng.SyncedFiles(ctx)
	assert.Empty(t, files)
	assert.Empty(t, warnings)
}

func TestSyncedIncludesMarkerCommit(t *testing.T) {
	mock := threeCommitRepo()
	eng, tracker := newEngine(mock, src.DedupFirstSeenWins)
	ctx := context.Background()
	tracker.Refresh(ctx)

	commits, err := eng.SyncedCommits(ctx)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "c1", commits[0].ID)

	files, warnings := eng.SyncedFiles(ctx)
	assert.Empty(t, warnings)
	require.Len(t, files, 1)
	assert.Equal(t, "main.go", files[0].Path)
}

func TestSyncedLimit(t *testing.T) {
	mock := threeCommitRepo()
	mock.MergeBases["feature origin/feature"] = "c3"
	tracker := marker.NewTracker(mock, "origin")
	eng := New(mock, tracker, src.DedupFirstSeenWins, 2)
	ctx := context.Background()
	tracker.Refresh(ctx)

	commits, err := eng.SyncedCommits(ctx)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "c3", commits[0].ID)
	assert.Equal(t, "c2", commits[1].ID)
}

func TestRefreshMovesBoundary(t *testing.T) {
	mock := threeCommitRepo()
	eng, tracker := newEngine(mock, src.DedupFirstSeenWins)
	ctx := context.Background()
	tracker.Refresh(ctx)

	outgoing, err := eng.OutgoingCommits(ctx)
	require.NoError(t, err)
	assert.Len(t, outgoing, 2)

	// A push lands c2 on the remote; the refreshed marker excludes it from
	// the outgoing set and includes it in the synced set.
	mock.MergeBases["feature origin/feature"] = "c2"
	tracker.Refresh(ctx)

	outgoing, err = eng.OutgoingCommits(ctx)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, "c3", outgoing[0].ID)

	synced, err := eng.SyncedCommits(ctx)
	require.NoError(t, err)
	require.Len(t, synced, 2)
	assert.Equal(t, "c2", synced[0].ID)
	assert.Equal(t, "c1", synced[1].ID)
}
