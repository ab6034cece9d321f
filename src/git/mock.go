package git

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pboueri/outgit/src"
)

// MockAdapter is an in-memory QueryAdapter for tests. Commits are held newest
// first, mirroring log output order.
type MockAdapter struct {
	Branch       string
	Commits      []src.Commit
	Files        map[string][]src.FileChange
	Contents     map[string]string // "ref:path" -> content
	MergeBases   map[string]string // "local remote" -> id
	LastReflog   string
	Refs         map[string]string   // ref -> id, consulted before commit ids
	TrackedFiles map[string][]string // ref -> paths

	BranchErr    error
	MergeBaseErr error
	LogErr       error
	FilesErr     map[string]error // per-commit failure injection

	mu      sync.Mutex
	CallLog []string
}

func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		Files:        map[string][]src.FileChange{},
		Contents:     map[string]string{},
		MergeBases:   map[string]string{},
		Refs:         map[string]string{},
		TrackedFiles: map[string][]string{},
		FilesErr:     map[string]error{},
	}
}

func (m *MockAdapter) record(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallLog = append(m.CallLog, fmt.Sprintf(format, args...))
}

// Calls returns a snapshot of the recorded query log.
func (m *MockAdapter) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.CallLog...)
}

func (m *MockAdapter) CurrentBranch(ctx context.Context) (string, error) {
	m.record("CurrentBranch")
	if m.BranchErr != nil {
		return "", m.BranchErr
	}
	return m.Branch, nil
}

func (m *MockAdapter) MergeBase(ctx context.Context, localRef, remoteRef string) (string, error) {
	m.record("MergeBase %s %s", localRef, remoteRef)
	if m.MergeBaseErr != nil {
		return "", m.MergeBaseErr
	}
	if id, ok := m.MergeBases[localRef+" "+remoteRef]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoUpstream, remoteRef)
}

// LogRange returns the commits strictly after fromExclusive up to and
// including toInclusive, preserving the configured newest-first order.
func (m *MockAdapter) LogRange(ctx context.Context, fromExclusive, toInclusive string) ([]src.Commit, error) {
	m.record("LogRange %s %s", fromExclusive, toInclusive)
	if m.LogErr != nil {
		return nil, m.LogErr
	}
	start := 0
	if toInclusive != "" && toInclusive != m.Branch && toInclusive != "HEAD" {
		start = m.indexOf(toInclusive)
		if start < 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRange, toInclusive)
		}
	}
	if fromExclusive == "" {
		return append([]src.Commit{}, m.Commits[start:]...), nil
	}
	end := m.indexOf(fromExclusive)
	if end < 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRange, fromExclusive)
	}
	if end < start {
		return nil, nil
	}
	return append([]src.Commit{}, m.Commits[start:end]...), nil
}

func (m *MockAdapter) indexOf(ref string) int {
	for i, c := range m.Commits {
		if c.ID == ref || strings.HasPrefix(c.ID, ref) {
			return i
		}
	}
	return -1
}

func (m *MockAdapter) ChangedFiles(ctx context.Context, commitID string) ([]src.FileChange, error) {
	m.record("ChangedFiles %s", commitID)
	if err, ok := m.FilesErr[commitID]; ok {
		return nil, err
	}
	files, ok := m.Files[commitID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCommitNotFound, commitID)
	}
	return files, nil
}

func (m *MockAdapter) ResolveRef(ctx context.Context, ref string) (string, error) {
	m.record("ResolveRef %s", ref)
	if id, ok := m.Refs[ref]; ok {
		return id, nil
	}
	if ref == "HEAD" || ref == m.Branch {
		if len(m.Commits) == 0 {
			return "", fmt.Errorf("failed to resolve ref %s", ref)
		}
		return m.Commits[0].ID, nil
	}
	if i := m.indexOf(ref); i >= 0 {
		return m.Commits[i].ID, nil
	}
	return "", fmt.Errorf("failed to resolve ref %s", ref)
}

func (m *MockAdapter) ListFiles(ctx context.Context, ref string) ([]string, error) {
	m.record("ListFiles %s", ref)
	return m.TrackedFiles[ref], nil
}

func (m *MockAdapter) LastOperation(ctx context.Context, ref string) (string, error) {
	m.record("LastOperation %s", ref)
	return m.LastReflog, nil
}

func (m *MockAdapter) FileContent(ctx context.Context, ref, path string) (string, error) {
	m.record("FileContent %s %s", ref, path)
	return m.Contents[ref+":"+path], nil
}
