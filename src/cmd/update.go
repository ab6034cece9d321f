package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Recompute the push marker from the repository",
	Long:  `Recompute the last known synchronization point from the current branch and its remote tracking ref. Useful after a push or fetch performed outside a running watch session.`,
	RunE:  runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ws, err := createWorkspace(ctx)
	if err != nil {
		return err
	}

	ws.provider.RequestPushStateUpdate(ctx)

	if id, known := ws.tracker.Current(); known {
		fmt.Printf("Push marker updated to %s\n", id)
	} else {
		fmt.Println("Push marker is unknown; the branch has no reachable remote counterpart")
	}
	return nil
}
