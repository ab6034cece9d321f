package engine

import (
	"context"
	"fmt"

	"github.com/pboueri/outgit/src"
	"github.com/pboueri/outgit/src/git"
	"github.com/pboueri/outgit/src/logger"
	"github.com/pboueri/outgit/src/marker"
)

// Engine computes the outgoing and synced commit/file sets by combining
// read-only repository queries with the push-state marker. All state it
// depends on is injected; the engine itself is stateless and every query
// recomputes from the repository.
type Engine struct {
	git         git.QueryAdapter
	marker      *marker.Tracker
	policy      src.DedupPolicy
	syncedLimit int
}

func New(adapter git.QueryAdapter, tracker *marker.Tracker, policy src.DedupPolicy, syncedLimit int) *Engine {
	if policy == "" {
		policy = src.DedupFirstSeenWins
	}
	return &Engine{
		git:         adapter,
		marker:      tracker,
		policy:      policy,
		syncedLimit: syncedLimit,
	}
}

// OutgoingCommits returns the commits in (marker, branchTip] when the push
// marker is known, falling back to (remoteTrackingTip, branchTip] otherwise.
// Newest first. An up-to-date branch yields an empty slice, not an error.
func (e *Engine) OutgoingCommits(ctx context.Context) ([]src.Commit, error) {
	branch, err := e.git.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}

	lower, known := e.marker.Current()
	if !known {
		lower = e.marker.RemoteRef(branch)
	}

	commits, err := e.git.LogRange(ctx, lower, branch)
	if err != nil {
		return nil, fmt.Errorf("failed to list outgoing commits: %w", err)
	}
	return dedupeCommits(commits), nil
}

// OutgoingFiles returns the files touched by outgoing commits, deduplicated
// by path. Failures of individual sub-queries degrade into warnings alongside
// the partial result instead of aborting the computation.
func (e *Engine) OutgoingFiles(ctx context.Context) ([]src.FileChange, []string) {
	commits, err := e.OutgoingCommits(ctx)
	if err != nil {
		logger.Warn("Outgoing files unavailable: %v", err)
		return nil, []string{fmt.Sprintf("commits failed to load: %v", err)}
	}
	return e.unionFiles(ctx, commits)
}

// SyncedCommits returns the commits at or before the push marker, newest
// first, capped by the configured history limit. The marker commit itself is
// included. With no known marker the result is soft-empty.
func (e *Engine) SyncedCommits(ctx context.Context) ([]src.Commit, error) {
	m, known := e.marker.Current()
	if !known {
		return nil, nil
	}

	commits, err := e.git.LogRange(ctx, "", m)
	if err != nil {
		return nil, fmt.Errorf("failed to list synced commits: %w", err)
	}
	if e.syncedLimit > 0 && len(commits) > e.syncedLimit {
		commits = commits[:e.syncedLimit]
	}
	return dedupeCommits(commits), nil
}

// SyncedFiles returns the deduplicated files touched by synced commits, with
// the same degradation policy as OutgoingFiles.
func (e *Engine) SyncedFiles(ctx context.Context) ([]src.FileChange, []string) {
	commits, err := e.SyncedCommits(ctx)
	if err != nil {
		logger.Warn("Synced files unavailable: %v", err)
		return nil, []string{fmt.Sprintf("commits failed to load: %v", err)}
	}
	return e.unionFiles(ctx, commits)
}

// unionFiles merges per-commit file changes over a range. Commits arrive
// newest first; deduplication processes them oldest first so that the
// first-seen-wins policy keeps the status from the earliest commit touching
// each path. The order is decided by commit order, never by completion order.
func (e *Engine) unionFiles(ctx context.Context, commits []src.Commit) ([]src.FileChange, []string) {
	var files []src.FileChange
	var warnings []string
	index := make(map[string]int)

	for i := len(commits) - 1; i >= 0; i-- {
		commit := commits[i]
		changes, err := e.git.ChangedFiles(ctx, commit.ID)
		if err != nil {
			logger.Warn("Failed to load files for commit %s: %v", commit.ShortID(), err)
			warnings = append(warnings, fmt.Sprintf("files for commit %s failed to load: %v", commit.ShortID(), err))
			continue
		}
		for _, change := range changes {
			at, seen := index[change.Path]
			if !seen {
				index[change.Path] = len(files)
				files = append(files, change)
				continue
			}
			if e.policy == src.DedupModifiedOnMultiple {
				files[at].Kind = src.ChangeModified
			}
		}
	}
	return files, warnings
}

// dedupeCommits drops repeated commit ids while preserving order. Log output
// should never repeat a commit; this keeps the no-duplicates contract even if
// a parse hiccup does.
func dedupeCommits(commits []src.Commit) []src.Commit {
	seen := make(map[string]bool, len(commits))
	result := commits[:0]
	for _, c := range commits {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		result = append(result, c)
	}
	return result
}
