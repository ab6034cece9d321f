package marker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pboueri/outgit/src"
	"github.com/pboueri/outgit/src/git"
)

func mockRepo() *git.MockAdapter {
	mock := git.NewMockAdapter()
	mock.Branch = "main"
	mock.Commits = []src.Commit{
		{ID: "c3", Summary: "fix bug", Date: time.Unix(3, 0)},
		{ID: "c2", Summary: "add test", Date: time.Unix(2, 0)},
		{ID: "c1", Summary: "init", Date: time.Unix(1, 0)},
	}
	mock.MergeBases["main origin/main"] = "c1"
	return mock
}

func TestTrackerStartsUnknown(t *testing.T) {
	tracker := NewTracker(mockRepo(), "origin")

	_, known := tracker.Current()
	assert.False(t, known)
}

func TestTrackerRefresh(t *testing.T) {
	mock := mockRepo()
	tracker := NewTracker(mock, "origin")
	ctx := context.Background()

	id, known := tracker.Refresh(ctx)
	require.True(t, known)
	assert.Equal(t, "c1", id)

	id, known = tracker.Current()
	require.True(t, known)
	assert.Equal(t, "c1", id)
}

func TestTrackerRefreshFailureClearsMarker(t *testing.T) {
	mock := mockRepo()
	tracker := NewTracker(mock, "origin")
	ctx := context.Background()

	_, known := tracker.Refresh(ctx)
	require.True(t, known)

	mock.MergeBaseErr = git.ErrNoUpstream
	_, known = tracker.Refresh(ctx)
	assert.False(t, known)

	_, known = tracker.Current()
	assert.False(t, known)
}

func TestTrackerGenerationAdvancesOnTransition(t *testing.T) {
	mock := mockRepo()
	tracker := NewTracker(mock, "origin")
	ctx := context.Background()

	before := tracker.Generation()
	tracker.Refresh(ctx)
	afterFirst := tracker.Generation()
	assert.Greater(t, afterFirst, before)

	// Idempotent refresh to the same marker does not advance the generation.
	tracker.Refresh(ctx)
	assert.Equal(t, afterFirst, tracker.Generation())

	mock.MergeBases["main origin/main"] = "c2"
	tracker.Refresh(ctx)
	assert.Greater(t, tracker.Generation(), afterFirst)
}

func TestTrackerConcurrentRefresh(t *testing.T) {
	mock := mockRepo()
	tracker := NewTracker(mock, "origin")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Refresh(ctx)
			id, known := tracker.Current()
			if known {
				assert.Equal(t, "c1", id)
			}
		}()
	}
	wg.Wait()

	id, known := tracker.Current()
	require.True(t, known)
	assert.Equal(t, "c1", id)
}

func TestTrackerRemoteRef(t *testing.T) {
	tracker := NewTracker(mockRepo(), "upstream")
	assert.Equal(t, "upstream/feature", tracker.RemoteRef("feature"))
}
