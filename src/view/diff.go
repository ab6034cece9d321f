package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/pboueri/outgit/src/git"
)

var (
	diffAddColor = color.New(color.FgGreen)
	diffDelColor = color.New(color.FgRed)
)

// RenderDiff materializes a two-sided, line-oriented diff of a file between
// two refs. A path absent at a ref diffs against empty content, so newly
// added and deleted files render as all-insert or all-delete.
func RenderDiff(ctx context.Context, source git.ContentSource, path, oldRef, newRef string) (string, error) {
	before, err := source.FileContent(ctx, oldRef, path)
	if err != nil {
		return "", fmt.Errorf("failed to load %s at %s: %w", path, oldRef, err)
	}
	after, err := source.FileContent(ctx, newRef, path)
	if err != nil {
		return "", fmt.Errorf("failed to load %s at %s: %w", path, newRef, err)
	}

	if before == after {
		return fmt.Sprintf("%s: no changes between %s and %s\n", path, oldRef, newRef), nil
	}

	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(beforeChars, afterChars, false), lines)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s:%s\n+++ %s:%s\n", oldRef, path, newRef, path)
	for _, diff := range diffs {
		prefix := " "
		paint := (*color.Color)(nil)
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
			paint = diffAddColor
		case diffmatchpatch.DiffDelete:
			prefix = "-"
			paint = diffDelColor
		}
		for _, line := range splitLines(diff.Text) {
			rendered := prefix + line
			if paint != nil {
				rendered = paint.Sprint(rendered)
			}
			sb.WriteString(rendered + "\n")
		}
	}
	return sb.String(), nil
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
