package usecase

import (
	"math"
	"sort"
	"sync"

	"github.com/documind-ai/documind/internal/core/domain"
)

const slowestQueriesLimit = 5

// PerformanceMonitor keeps an append-only, process-lifetime history of one
// metrics record per search call. The history is mutated by every search,
// so it is mutex-protected; records are never modified after insertion and
// only an explicit Reset clears them.
type PerformanceMonitor struct {
	mu      sync.Mutex
	history []domain.QueryMetrics
}

func NewPerformanceMonitor() *PerformanceMonitor {
	return &PerformanceMonitor{}
}

func (m *PerformanceMonitor) Record(metrics domain.QueryMetrics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, metrics)
}

func (m *PerformanceMonitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
}

// Report aggregates the recorded history: per-mode latency/score statistics,
// overall stats with a non-interpolated 95th-percentile latency, the five
// slowest queries, and the mode distribution as percentages.
func (m *PerformanceMonitor) Report() domain.PerformanceReport {
	m.mu.Lock()
	history := make([]domain.QueryMetrics, len(m.history))
	copy(history, m.history)
	m.mu.Unlock()

	if len(history) == 0 {
		return domain.PerformanceReport{}
	}

	byMode := make(map[domain.SearchMode][]domain.QueryMetrics)
	for _, metrics := range history {
		byMode[metrics.Mode] = append(byMode[metrics.Mode], metrics)
	}

	modeStats := make(map[string]domain.ModeStats, len(byMode))
	for mode, records := range byMode {
		latencies := make([]float64, 0, len(records))
		scores := make([]float64, 0, len(records))
		resultCounts := 0.0
		for _, r := range records {
			latencies = append(latencies, r.LatencyMS)
			if r.AvgScore > 0 {
				scores = append(scores, r.AvgScore)
			}
			resultCounts += float64(r.NumResults)
		}

		stats := domain.ModeStats{
			QueryCount:     len(records),
			AvgLatencyMS:   round2(mean(latencies)),
			MinLatencyMS:   round2(minOf(latencies)),
			MaxLatencyMS:   round2(maxOf(latencies)),
			LatencyStdevMS: round2(sampleStdev(latencies)),
			AvgResults:     round1(resultCounts / float64(len(records))),
		}
		if len(scores) > 0 {
			stats.AvgScore = round4(mean(scores))
		}
		modeStats[string(mode)] = stats
	}

	allLatencies := make([]float64, 0, len(history))
	allScores := make([]float64, 0, len(history))
	allTopScores := make([]float64, 0, len(history))
	for _, r := range history {
		allLatencies = append(allLatencies, r.LatencyMS)
		if r.AvgScore > 0 {
			allScores = append(allScores, r.AvgScore)
		}
		if r.TopScore > 0 {
			allTopScores = append(allTopScores, r.TopScore)
		}
	}

	overall := domain.OverallStats{
		AvgLatencyMS: round2(mean(allLatencies)),
		P95LatencyMS: round2(percentile95(allLatencies)),
	}
	if len(allScores) > 0 {
		overall.AvgScore = round4(mean(allScores))
	}
	if len(allTopScores) > 0 {
		overall.AvgTopScore = round4(mean(allTopScores))
	}

	slowest := make([]domain.QueryMetrics, len(history))
	copy(slowest, history)
	sort.SliceStable(slowest, func(i, j int) bool {
		return slowest[i].LatencyMS > slowest[j].LatencyMS
	})
	if len(slowest) > slowestQueriesLimit {
		slowest = slowest[:slowestQueriesLimit]
	}
	slowQueries := make([]domain.SlowQuery, 0, len(slowest))
	for _, r := range slowest {
		query := r.Query
		if len(query) > 50 {
			query = query[:50]
		}
		slowQueries = append(slowQueries, domain.SlowQuery{
			Query:     query,
			LatencyMS: round2(r.LatencyMS),
			Mode:      r.Mode,
		})
	}

	distribution := make(map[string]float64, len(byMode))
	for mode, records := range byMode {
		distribution[string(mode)] = float64(len(records)) / float64(len(history)) * 100
	}

	return domain.PerformanceReport{
		TotalQueries:     len(history),
		ByMode:           modeStats,
		Overall:          overall,
		SlowestQueries:   slowQueries,
		ModeDistribution: distribution,
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	out := values[0]
	for _, v := range values[1:] {
		if v < out {
			out = v
		}
	}
	return out
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	out := values[0]
	for _, v := range values[1:] {
		if v > out {
			out = v
		}
	}
	return out
}

// sampleStdev reports 0 for fewer than two samples: variance is undefined
// there, not zero, but 0 is the safe reporting value.
func sampleStdev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	avg := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// percentile95 sorts and indexes at the 0.95 fraction without interpolating.
func percentile95(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted[int(float64(len(sorted))*0.95)]
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
