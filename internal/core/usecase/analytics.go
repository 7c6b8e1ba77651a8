package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/documind-ai/documind/internal/core/domain"
	"github.com/documind-ai/documind/internal/core/ports"
)

const (
	defaultAnalyticsDays = 7
	topDocumentsLimit    = 10
)

// AnalyticsService aggregates persisted query logs into usage statistics.
type AnalyticsService struct {
	queryLog ports.QueryLogStore
}

func NewAnalyticsService(queryLog ports.QueryLogStore) *AnalyticsService {
	return &AnalyticsService{queryLog: queryLog}
}

func (s *AnalyticsService) QueryAnalytics(ctx context.Context, days int) (*domain.QueryAnalytics, error) {
	if days <= 0 {
		days = defaultAnalyticsDays
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	entries, err := s.queryLog.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list query logs: %w", err)
	}

	analytics := &domain.QueryAnalytics{
		PeriodDays:   days,
		ModelUsage:   map[string]int{},
		TopDocuments: []domain.DocumentCount{},
	}
	if len(entries) == 0 {
		return analytics, nil
	}

	totalResponseTime := 0.0
	documentCounts := make(map[string]int)
	for _, entry := range entries {
		totalResponseTime += entry.ResponseTime

		model := entry.Model
		if model == "" {
			model = "unknown"
		}
		analytics.ModelUsage[model]++

		for _, source := range entry.Sources {
			name := source.Document
			if name == "" {
				name = "Unknown"
			}
			documentCounts[name]++
		}
	}

	analytics.TotalQueries = len(entries)
	analytics.AvgResponseTime = round3(totalResponseTime / float64(len(entries)))
	analytics.QueriesPerDay = round2(float64(len(entries)) / float64(days))
	analytics.TopDocuments = topDocuments(documentCounts, topDocumentsLimit)

	return analytics, nil
}

func topDocuments(counts map[string]int, limit int) []domain.DocumentCount {
	out := make([]domain.DocumentCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, domain.DocumentCount{Document: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Document < out[j].Document
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
