package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pboueri/outgit/src/view"
)

var (
	syncedCommitsOnly bool
	syncedFilesOnly   bool
)

func init() {
	syncedCmd.Flags().BoolVarP(&syncedCommitsOnly, "commits", "c", false, "Show only synced commits")
	syncedCmd.Flags().BoolVarP(&syncedFilesOnly, "files", "f", false, "Show only synced files")
}

var syncedCmd = &cobra.Command{
	Use:   "synced",
	Short: "List commits and files already pushed to the remote",
	RunE:  runSynced,
}

func runSynced(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ws, err := createWorkspace(ctx)
	if err != nil {
		return err
	}

	if !syncedFilesOnly {
		fmt.Print(view.RenderCategory(ctx, ws.provider, view.SyncedCommits))
	}
	if !syncedCommitsOnly {
		fmt.Print(view.RenderCategory(ctx, ws.provider, view.SyncedFiles))
	}
	return nil
}
