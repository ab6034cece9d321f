package view

import (
	"context"

	"github.com/fatih/color"
	"github.com/xlab/treeprint"

	"github.com/pboueri/outgit/src"
)

var (
	categoryColor = color.New(color.FgCyan, color.Bold)
	commitColor   = color.New(color.FgYellow)
	infoColor     = color.New(color.Faint)

	changeColors = map[src.ChangeKind]*color.Color{
		src.ChangeAdded:    color.New(color.FgGreen),
		src.ChangeDeleted:  color.New(color.FgRed),
		src.ChangeModified: color.New(color.FgYellow),
		src.ChangeRenamed:  color.New(color.FgBlue),
		src.ChangeCopied:   color.New(color.FgBlue),
		src.ChangeUnmerged: color.New(color.FgMagenta),
	}
)

// RenderTree renders every category and its items as a navigable tree.
func RenderTree(ctx context.Context, provider *Provider) string {
	tree := treeprint.New()
	tree.SetValue("repository")

	for _, category := range provider.RootCategories() {
		branch := tree.AddBranch(categoryColor.Sprint(category.Label()))
		for _, item := range provider.Items(ctx, category) {
			branch.AddNode(renderItem(item))
		}
	}
	return tree.String()
}

// RenderCategory renders a single category subtree.
func RenderCategory(ctx context.Context, provider *Provider, category Category) string {
	tree := treeprint.New()
	tree.SetValue(categoryColor.Sprint(category.Label()))
	for _, item := range provider.Items(ctx, category) {
		tree.AddNode(renderItem(item))
	}
	return tree.String()
}

func renderItem(item Item) string {
	switch item.Kind {
	case ItemCommit:
		return commitColor.Sprint(item.Label)
	case ItemFile:
		if c, ok := changeColors[item.Change]; ok {
			return c.Sprint(item.Label)
		}
		return item.Label
	default:
		return infoColor.Sprint(item.Label)
	}
}
