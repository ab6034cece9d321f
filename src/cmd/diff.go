package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pboueri/outgit/src/view"
)

var (
	diffFromRef string
	diffToRef   string
)

func init() {
	diffCmd.Flags().StringVar(&diffFromRef, "from", "", "Older ref to diff from (default: last push marker)")
	diffCmd.Flags().StringVar(&diffToRef, "to", "", "Newer ref to diff to (default: current branch)")
}

var diffCmd = &cobra.Command{
	Use:   "diff <path>",
	Short: "Show what changed in a file since the last push",
	Long:  `Render a line diff of one file between the last known synchronization point and the current branch tip. A file absent on one side diffs against empty content.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ws, err := createWorkspace(ctx)
	if err != nil {
		return err
	}
	path := args[0]

	from := diffFromRef
	if from == "" {
		id, known := ws.tracker.Current()
		if !known {
			return fmt.Errorf("no push marker known; pass --from explicitly")
		}
		from = id
	}

	to := diffToRef
	if to == "" {
		branch, err := ws.git.CurrentBranch(ctx)
		if err != nil {
			return err
		}
		to = branch
	}

	out, err := view.RenderDiff(ctx, ws.git, path, from, to)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
