package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/pboueri/outgit/src"
	"github.com/pboueri/outgit/src/logger"
)

type ExecAdapter struct {
	repoPath string
	command  string
	baseArgs []string
	timeout  time.Duration
}

// New creates a QueryAdapter backed by the git binary, scoped to repoPath.
func New(repoPath string) *ExecAdapter {
	return &ExecAdapter{
		repoPath: repoPath,
		command:  "git",
	}
}

// NewWithCommand creates an adapter using a configured git command line, e.g.
// "git -c core.fsmonitor=false". The command is parsed with shell quoting
// rules.
func NewWithCommand(repoPath string, command string, timeout time.Duration) (*ExecAdapter, error) {
	parts, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("failed to parse git command %q: %w", command, err)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("git command is empty")
	}
	return &ExecAdapter{
		repoPath: repoPath,
		command:  parts[0],
		baseArgs: parts[1:],
		timeout:  timeout,
	}, nil
}

func (g *ExecAdapter) runGitCommand(ctx context.Context, args ...string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	full := append(append([]string{}, g.baseArgs...), args...)
	cmd := exec.CommandContext(ctx, g.command, full...)
	cmd.Dir = g.repoPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Running %s %s", g.command, strings.Join(full, " "))
	if err := cmd.Run(); err != nil {
		execErr := &ExecError{
			Args:     full,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			execErr.ExitCode = exitErr.ExitCode()
		}
		return "", execErr
	}
	return strings.TrimSpace(stdout.String()), nil
}

func stderrOf(err error) string {
	if execErr, ok := err.(*ExecError); ok {
		return strings.ToLower(execErr.Stderr)
	}
	return ""
}

func (g *ExecAdapter) CurrentBranch(ctx context.Context) (string, error) {
	out, err := g.runGitCommand(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		if strings.Contains(stderrOf(err), "not a git repository") {
			return "", fmt.Errorf("%w: %s", ErrNotARepository, g.repoPath)
		}
		return "", err
	}
	return out, nil
}

func (g *ExecAdapter) MergeBase(ctx context.Context, localRef, remoteRef string) (string, error) {
	out, err := g.runGitCommand(ctx, "merge-base", localRef, remoteRef)
	if err != nil {
		stderr := stderrOf(err)
		switch {
		case strings.Contains(stderr, "not a valid object name") ||
			strings.Contains(stderr, "unknown revision") ||
			strings.Contains(stderr, "bad revision"):
			return "", fmt.Errorf("%w: %s", ErrNoUpstream, remoteRef)
		case strings.Contains(stderr, "not a git repository"):
			return "", fmt.Errorf("%w: %s", ErrNotARepository, g.repoPath)
		default:
			// merge-base exits 1 with no diagnostics when histories are
			// disjoint, e.g. in shallow clones.
			if execErr, ok := err.(*ExecError); ok && execErr.ExitCode == 1 && execErr.Stderr == "" {
				return "", fmt.Errorf("%w: %s and %s", ErrDivergenceUnavailable, localRef, remoteRef)
			}
			return "", err
		}
	}
	return out, nil
}

func (g *ExecAdapter) LogRange(ctx context.Context, fromExclusive, toInclusive string) ([]src.Commit, error) {
	rev := toInclusive
	if fromExclusive != "" {
		rev = fromExclusive + ".." + toInclusive
	}
	out, err := g.runGitCommand(ctx, "log", "--pretty=format:%H|%an|%at|%s", rev)
	if err != nil {
		stderr := stderrOf(err)
		if strings.Contains(stderr, "unknown revision") ||
			strings.Contains(stderr, "bad revision") ||
			strings.Contains(stderr, "ambiguous argument") {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRange, rev)
		}
		return nil, err
	}
	return parseLog(out), nil
}

// parseLog converts one-line-per-commit log output into Commit records. Lines
// without the field separator are parse warnings, not hard failures.
func parseLog(out string) []src.Commit {
	var commits []src.Commit
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 4)
		if len(parts) < 4 {
			logger.Warn("Skipping unparseable log line: %q", line)
			continue
		}
		timestamp, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			logger.Warn("Skipping log line with bad timestamp: %q", line)
			continue
		}
		commits = append(commits, src.Commit{
			ID:      parts[0],
			Author:  parts[1],
			Date:    time.Unix(timestamp, 0),
			Summary: parts[3],
		})
	}
	return commits
}

func (g *ExecAdapter) ChangedFiles(ctx context.Context, commitID string) ([]src.FileChange, error) {
	out, err := g.runGitCommand(ctx, "show", "--name-status", "--format=", commitID)
	if err != nil {
		stderr := stderrOf(err)
		if strings.Contains(stderr, "unknown revision") ||
			strings.Contains(stderr, "bad revision") ||
			strings.Contains(stderr, "bad object") {
			return nil, fmt.Errorf("%w: %s", ErrCommitNotFound, commitID)
		}
		return nil, err
	}
	return parseNameStatus(out), nil
}

// parseNameStatus converts "--name-status" output into FileChange records.
// Rename and copy lines carry two paths; the destination path is kept.
func parseNameStatus(out string) []src.FileChange {
	var changes []src.FileChange
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			logger.Warn("Skipping unparseable status line: %q", line)
			continue
		}
		path := parts[len(parts)-1]
		changes = append(changes, src.FileChange{
			Path: path,
			Kind: parseChangeKind(parts[0]),
		})
	}
	return changes
}

func parseChangeKind(status string) src.ChangeKind {
	if status == "" {
		return src.ChangeUnknown
	}
	switch status[0] {
	case 'A':
		return src.ChangeAdded
	case 'M':
		return src.ChangeModified
	case 'D':
		return src.ChangeDeleted
	case 'R':
		return src.ChangeRenamed
	case 'C':
		return src.ChangeCopied
	case 'U':
		return src.ChangeUnmerged
	case 'T':
		return src.ChangeTypeChanged
	default:
		return src.ChangeUnknown
	}
}

func (g *ExecAdapter) ResolveRef(ctx context.Context, ref string) (string, error) {
	out, err := g.runGitCommand(ctx, "rev-parse", "--verify", ref)
	if err != nil {
		return "", fmt.Errorf("failed to resolve ref %s: %w", ref, err)
	}
	return out, nil
}

func (g *ExecAdapter) ListFiles(ctx context.Context, ref string) ([]string, error) {
	out, err := g.runGitCommand(ctx, "ls-tree", "-r", "--name-only", ref)
	if err != nil {
		return nil, fmt.Errorf("failed to list files at %s: %w", ref, err)
	}
	var files []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

func (g *ExecAdapter) LastOperation(ctx context.Context, ref string) (string, error) {
	out, err := g.runGitCommand(ctx, "reflog", "-1", "--format=%gs", ref)
	if err != nil {
		// A ref with no reflog is not an error for push detection.
		if _, ok := err.(*ExecError); ok {
			return "", nil
		}
		return "", err
	}
	return out, nil
}

func (g *ExecAdapter) FileContent(ctx context.Context, ref, path string) (string, error) {
	cmd := exec.CommandContext(ctx, g.command, append(append([]string{}, g.baseArgs...), "show", ref+":"+path)...)
	cmd.Dir = g.repoPath
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		// The path does not exist at that ref; a diff against empty content
		// is the expected rendering.
		return "", nil
	}
	return stdout.String(), nil
}
