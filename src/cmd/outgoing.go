package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pboueri/outgit/src/view"
)

var (
	outgoingCommitsOnly bool
	outgoingFilesOnly   bool
)

func init() {
	outgoingCmd.Flags().BoolVarP(&outgoingCommitsOnly, "commits", "c", false, "Show only outgoing commits")
	outgoingCmd.Flags().BoolVarP(&outgoingFilesOnly, "files", "f", false, "Show only outgoing files")
}

var outgoingCmd = &cobra.Command{
	Use:   "outgoing",
	Short: "List commits and files not yet pushed to the remote",
	RunE:  runOutgoing,
}

func runOutgoing(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ws, err := createWorkspace(ctx)
	if err != nil {
		return err
	}

	if !outgoingFilesOnly {
		fmt.Print(view.RenderCategory(ctx, ws.provider, view.OutgoingCommits))
	}
	if !outgoingCommitsOnly {
		fmt.Print(view.RenderCategory(ctx, ws.provider, view.OutgoingFiles))
	}
	return nil
}
