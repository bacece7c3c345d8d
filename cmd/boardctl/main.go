package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "boardctl failed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "boardctl",
		Short:         "Read and write posts on a message board",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("host", "", "board host (defaults to BOARD_HOST)")
	root.PersistentFlags().String("board", "", "board id from the boards file")
	root.PersistentFlags().Bool("form", false, "send create bodies form-encoded")
	root.PersistentFlags().Bool("verbose", false, "log requests to stderr")

	root.AddCommand(
		newListCmd(),
		newGetCmd(),
		newCreateCmd(),
		newUpdateCmd(),
		newDeleteCmd(),
		newCachedCmd(),
	)
	return root
}
