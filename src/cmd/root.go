package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pboueri/outgit/src/logger"
)

var (
	verboseCount int
)

var rootCmd = &cobra.Command{
	Use:   "outgit",
	Short: "Track which commits and files have not been pushed yet",
	Long: `outgit inspects the current git repository and reports the commits and
files that exist locally but have not reached the remote, alongside the
history that is already synchronized.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set logger level based on verbose flag count
		switch verboseCount {
		case 0:
			logger.SetLevel(logger.WarnLevel)
		case 1:
			logger.SetLevel(logger.InfoLevel)
		default: // 2 or more
			logger.SetLevel(logger.DebugLevel)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add persistent verbose flag that can be used multiple times
	rootCmd.PersistentFlags().CountVarP(&verboseCount, "verbose", "v", "Increase verbosity (use -vv for debug level)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(outgoingCmd)
	rootCmd.AddCommand(syncedCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(watchCmd)
}
