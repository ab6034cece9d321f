package src

import (
	"time"
)

// Commit is a single commit parsed from one line of log output. It is
// recomputed on every query and never persisted.
type Commit struct {
	ID      string
	Author  string
	Date    time.Time
	Summary string
}

// ShortID returns the abbreviated commit identifier used in display output.
func (c Commit) ShortID() string {
	if len(c.ID) > 8 {
		return c.ID[:8]
	}
	return c.ID
}

// ChangeKind classifies how a commit affected a file.
type ChangeKind string

const (
	ChangeAdded       ChangeKind = "added"
	ChangeModified    ChangeKind = "modified"
	ChangeDeleted     ChangeKind = "deleted"
	ChangeRenamed     ChangeKind = "renamed"
	ChangeCopied      ChangeKind = "copied"
	ChangeUnmerged    ChangeKind = "unmerged"
	ChangeTypeChanged ChangeKind = "type-changed"
	ChangeUnknown     ChangeKind = "unknown"
)

// FileChange records one file touched by a commit (or by a range of commits
// after deduplication).
type FileChange struct {
	Path string
	Kind ChangeKind
}

// DedupPolicy decides which ChangeKind survives when a file is touched by
// more than one commit in a range.
type DedupPolicy string

const (
	// DedupFirstSeenWins keeps the status from the earliest-processed commit,
	// even if a later commit touches the same file again.
	DedupFirstSeenWins DedupPolicy = "first-seen-wins"
	// DedupModifiedOnMultiple reports any file touched by more than one
	// commit as modified.
	DedupModifiedOnMultiple DedupPolicy = "modified-on-multiple"
)
