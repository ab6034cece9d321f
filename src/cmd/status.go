package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the push state of the current branch",
	Long:  `Show the current branch, the last known synchronization point with the remote, and a summary of how many commits and files are waiting to be pushed.`,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ws, err := createWorkspace(ctx)
	if err != nil {
		return err
	}

	branch, err := ws.git.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Branch: %s\n", branch)
	fmt.Printf("Remote: %s\n", ws.config.Remote)
	if tracked, err := ws.git.ListFiles(ctx, branch); err == nil {
		fmt.Printf("Tracked files: %d\n", len(tracked))
	}

	if id, known := ws.tracker.Current(); known {
		fmt.Printf("Last push: %s\n", id)
	} else {
		fmt.Printf("Last push: %s\n", color.YellowString("unknown (no upstream or divergence unavailable)"))
	}

	commits, err := ws.engine.OutgoingCommits(ctx)
	if err != nil {
		return err
	}
	files, warnings := ws.engine.OutgoingFiles(ctx)

	if len(commits) == 0 {
		fmt.Printf("Working branch: %s\n", color.GreenString("up to date with remote"))
	} else {
		fmt.Printf("Working branch: %s\n",
			color.YellowString("%d commits ahead (%d files)", len(commits), len(files)))
	}
	for _, warning := range warnings {
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(warning))
	}

	synced, err := ws.engine.SyncedCommits(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Synced history: %d commits\n", len(synced))

	return nil
}
