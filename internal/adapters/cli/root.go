package cli

import (
	"github.com/spf13/cobra"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "documind",
	Short: "DocuMind document question answering",
	Long: `DocuMind indexes your documents and answers questions about them
with citations back to the source passages.

The CLI talks to a running DocuMind API server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "DocuMind API base URL")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
