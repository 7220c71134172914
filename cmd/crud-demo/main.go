package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

// Article is the demo resource, matching the articles API shape.
type Article struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "crud-demo",
		Short: "Demo server and client for crud resource modules",
		Long: `crud-demo exercises a crud resource module end to end.

  serve  starts an in-memory articles REST API with a /live websocket
         endpoint broadcasting every data change
  run    drives a crud module (fetch, create, update, destroy) against
         a running server and logs the store mutations`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		runCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("crud-demo %s (%s)\n", version, commit)
		},
	}
}
