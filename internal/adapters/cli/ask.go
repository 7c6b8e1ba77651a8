package cli

import (
	"github.com/spf13/cobra"

	"github.com/documind-ai/documind/internal/core/domain"
)

var (
	askModel string
	askMode  string
	askTopK  int
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Retrieves the most relevant document passages and generates an
answer with citations back to the sources.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askModel, "model", "", "model alias or fully qualified model id")
	askCmd.Flags().StringVar(&askMode, "mode", "", "search mode: semantic, keyword, hybrid (default auto)")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of passages to retrieve")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)

	var result domain.AskResult
	payload := domain.AskRequest{
		Question: args[0],
		Model:    askModel,
		Mode:     domain.SearchMode(askMode),
		TopK:     askTopK,
	}
	if err := client.postJSON(cmd.Context(), "/v1/ask", payload, &result); err != nil {
		return err
	}

	cmd.Println(result.Answer)
	cmd.Println()
	if len(result.Citations) > 0 {
		cmd.Println("Citations:")
		for _, c := range result.Citations {
			cmd.Printf("  [%d] %s, chunk %d (%.2f)\n", c.CitationID, c.Document, c.Chunk, c.Similarity)
		}
		cmd.Println()
	}
	cmd.Printf("model=%s mode=%s chunks=%d time=%.2fs\n",
		result.Model, result.SearchType, result.ContextChunks, result.ResponseTime)
	return nil
}
