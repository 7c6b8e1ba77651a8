package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/documind-ai/documind/internal/core/domain"
)

var (
	searchMode  string
	searchTopK  int
	searchJSON  bool
	searchExact bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Searches indexed document chunks without generating an answer.
The mode defaults to automatic selection based on the query shape.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchMode, "mode", "", "search mode: semantic, keyword, hybrid (default auto)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchExact, "no-expand", false, "disable query expansion")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)

	payload := domain.SearchRequest{
		Query:       args[0],
		Mode:        domain.SearchMode(searchMode),
		TopK:        searchTopK,
		ExpandQuery: !searchExact,
	}

	var response struct {
		Query   string                `json:"query"`
		Results []domain.ScoredResult `json:"results"`
		Count   int                   `json:"count"`
	}
	if err := client.postJSON(cmd.Context(), "/v1/search", payload, &response); err != nil {
		return err
	}

	if searchJSON {
		data, err := json.MarshalIndent(response.Results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if response.Count == 0 {
		cmd.Println("No results found.")
		return nil
	}
	for i, r := range response.Results {
		cmd.Printf("  [%d] %s, chunk %d (%.2f)\n", i+1, r.DocumentTitle, r.Position, r.Similarity)
		cmd.Printf("      %s\n\n", snippet(r.Text, 160))
	}
	return nil
}

func snippet(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
