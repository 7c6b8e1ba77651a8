package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/documind-ai/documind/internal/core/domain"
)

var compareModels []string

var compareCmd = &cobra.Command{
	Use:   "compare [question]",
	Short: "Ask the same question across multiple models",
	Long: `Runs one retrieval pass and generates answers from each requested
model over the same context, so differences come from the models alone.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringSliceVar(&compareModels, "models", []string{"claude", "gpt4"}, "model aliases to compare")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)

	payload := map[string]any{
		"question": args[0],
		"models":   compareModels,
	}
	var result domain.CompareResult
	if err := client.postJSON(cmd.Context(), "/v1/ask/compare", payload, &result); err != nil {
		return err
	}

	aliases := make([]string, 0, len(result.Results))
	for alias := range result.Results {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	for _, alias := range aliases {
		answer := result.Results[alias]
		cmd.Printf("=== %s (%s) ===\n", alias, answer.ModelID)
		if answer.Error != "" {
			cmd.Printf("error: %s\n\n", answer.Error)
			continue
		}
		cmd.Printf("%s\n", strings.TrimSpace(answer.Answer))
		cmd.Printf("(%.2fs)\n\n", answer.ResponseTime)
	}
	cmd.Printf("context chunks: %d\n", result.ContextChunks)
	return nil
}
