package git

import (
	"context"

	"github.com/pboueri/outgit/src"
)

// QueryAdapter answers read-only queries against a single working copy. None
// of the queries mutate repository state.
type QueryAdapter interface {
	// CurrentBranch returns the checked-out branch name. It is recomputed on
	// every call since the branch may change between refreshes.
	CurrentBranch(ctx context.Context) (string, error)
	// MergeBase returns the most recent common ancestor of two refs.
	MergeBase(ctx context.Context, localRef, remoteRef string) (string, error)
	// LogRange returns the commits in (fromExclusive, toInclusive], newest
	// first. An empty fromExclusive means "from the root commit".
	LogRange(ctx context.Context, fromExclusive, toInclusive string) ([]src.Commit, error)
	// ChangedFiles returns the files touched by a single commit.
	ChangedFiles(ctx context.Context, commitID string) ([]src.FileChange, error)
	// ResolveRef resolves a ref to its object id.
	ResolveRef(ctx context.Context, ref string) (string, error)
	// ListFiles returns the paths tracked as of a ref.
	ListFiles(ctx context.Context, ref string) ([]string, error)
	// LastOperation returns the subject of the most recent reflog entry for a
	// ref, or an empty string if the ref has no reflog.
	LastOperation(ctx context.Context, ref string) (string, error)
}

// ContentSource retrieves file content at a ref, used to materialize
// two-sided diffs. A path that does not exist at the ref yields empty content
// rather than an error.
type ContentSource interface {
	FileContent(ctx context.Context, ref, path string) (string, error)
}
