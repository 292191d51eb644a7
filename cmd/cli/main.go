package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host  string
	actor string
)

var rootCmd = &cobra.Command{
	Use:   "courtflow-cli",
	Short: "A CLI to interact with the courtflow server",
	Long: `A command-line interface for making requests to the various endpoints
of the courtflow application.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&actor, "as", "", "The acting user id, sent as X-User-ID")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
