package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pboueri/outgit/src/logger"
	"github.com/pboueri/outgit/src/view"
	"github.com/pboueri/outgit/src/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the repository and re-render on changes",
	Long:  `Watch the repository metadata for commits, pushes and branch switches, keeping a live view of the outgoing and synced state until interrupted.`,
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ws, err := createWorkspace(ctx)
	if err != nil {
		return err
	}

	// Coalesce invalidations; a pending redraw absorbs further ones.
	redraw := make(chan struct{}, 1)
	dispatcher := watch.NewDispatcher(ws.git, ws.tracker, func() {
		ws.provider.RequestRefresh()
		select {
		case redraw <- struct{}{}:
		default:
		}
	})

	watcher, err := watch.NewWatcher(ws.root, dispatcher.Events(), ws.config.Watch.Debounce)
	if err != nil {
		return fmt.Errorf("failed to watch repository: %w", err)
	}
	defer watcher.Close()

	go dispatcher.Run(ctx)
	go watcher.Run(ctx)

	fmt.Print(view.RenderTree(ctx, ws.provider))
	logger.Info("Watching %s, press Ctrl-C to stop", ws.root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-redraw:
			fmt.Print(view.RenderTree(ctx, ws.provider))
		}
	}
}
