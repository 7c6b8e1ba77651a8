package cli

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/documind-ai/documind/internal/core/domain"
)

var analyticsDays int

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show query analytics for the recent period",
	RunE:  runAnalytics,
}

func init() {
	analyticsCmd.Flags().IntVar(&analyticsDays, "days", 7, "analysis window in days")
	rootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(cmd *cobra.Command, _ []string) error {
	client := NewClient(serverURL)

	query := url.Values{}
	if analyticsDays > 0 {
		query.Set("days", strconv.Itoa(analyticsDays))
	}

	var analytics domain.QueryAnalytics
	if err := client.getJSON(cmd.Context(), "/v1/analytics", query, &analytics); err != nil {
		return err
	}

	cmd.Printf("Queries (%dd): %d, %.1f/day\n", analytics.PeriodDays, analytics.TotalQueries, analytics.QueriesPerDay)
	cmd.Printf("Avg response time: %.2fs\n", analytics.AvgResponseTime)
	if len(analytics.ModelUsage) > 0 {
		cmd.Println("Model usage:")
		for model, count := range analytics.ModelUsage {
			cmd.Printf("  %-40s %d\n", model, count)
		}
	}
	if len(analytics.TopDocuments) > 0 {
		cmd.Println("Top documents:")
		for _, doc := range analytics.TopDocuments {
			cmd.Printf("  %-40s %d\n", doc.Document, doc.Count)
		}
	}
	return nil
}
