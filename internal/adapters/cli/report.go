package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/documind-ai/documind/internal/core/domain"
)

var reportReset bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the in-memory search performance report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportReset, "reset", false, "clear recorded history after printing")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	client := NewClient(serverURL)

	var report domain.PerformanceReport
	if err := client.getJSON(cmd.Context(), "/v1/performance", nil, &report); err != nil {
		return err
	}

	if report.TotalQueries == 0 {
		cmd.Println("No queries recorded.")
	} else {
		cmd.Printf("Total queries: %d\n", report.TotalQueries)
		cmd.Printf("Overall: avg %.1fms, p95 %.1fms, avg score %.2f\n",
			report.Overall.AvgLatencyMS, report.Overall.P95LatencyMS, report.Overall.AvgScore)

		modes := make([]string, 0, len(report.ByMode))
		for mode := range report.ByMode {
			modes = append(modes, mode)
		}
		sort.Strings(modes)
		for _, mode := range modes {
			stats := report.ByMode[mode]
			cmd.Printf("  %-10s n=%d avg=%.1fms min=%.1fms max=%.1fms stdev=%.1fms share=%.1f%%\n",
				mode, stats.QueryCount, stats.AvgLatencyMS, stats.MinLatencyMS,
				stats.MaxLatencyMS, stats.LatencyStdevMS, report.ModeDistribution[mode])
		}

		if len(report.SlowestQueries) > 0 {
			cmd.Println("Slowest queries:")
			for _, slow := range report.SlowestQueries {
				cmd.Printf("  %.1fms [%s] %s\n", slow.LatencyMS, slow.Mode, slow.Query)
			}
		}
	}

	if reportReset {
		if err := client.deleteJSON(cmd.Context(), "/v1/performance"); err != nil {
			return err
		}
		cmd.Println("Performance history cleared.")
	}
	return nil
}
