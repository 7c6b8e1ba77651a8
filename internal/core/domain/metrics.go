package domain

import "time"

// QueryMetrics is one append-only record per executed search call.
type QueryMetrics struct {
	Query      string     `json:"query"`
	Mode       SearchMode `json:"mode"`
	LatencyMS  float64    `json:"latency_ms"`
	NumResults int        `json:"num_results"`
	AvgScore   float64    `json:"avg_score"`
	TopScore   float64    `json:"top_score"`
}

type ModeStats struct {
	QueryCount     int     `json:"query_count"`
	AvgLatencyMS   float64 `json:"avg_latency_ms"`
	MinLatencyMS   float64 `json:"min_latency_ms"`
	MaxLatencyMS   float64 `json:"max_latency_ms"`
	LatencyStdevMS float64 `json:"latency_stdev_ms"`
	AvgScore       float64 `json:"avg_score"`
	AvgResults     float64 `json:"avg_results"`
}

type OverallStats struct {
	AvgLatencyMS float64 `json:"avg_latency_ms"`
	P95LatencyMS float64 `json:"p95_latency_ms"`
	AvgScore     float64 `json:"avg_score"`
	AvgTopScore  float64 `json:"avg_top_score"`
}

type SlowQuery struct {
	Query     string     `json:"query"`
	LatencyMS float64    `json:"latency_ms"`
	Mode      SearchMode `json:"mode"`
}

type PerformanceReport struct {
	TotalQueries     int                  `json:"total_queries"`
	ByMode           map[string]ModeStats `json:"by_mode,omitempty"`
	Overall          OverallStats         `json:"overall"`
	SlowestQueries   []SlowQuery          `json:"slowest_queries,omitempty"`
	ModeDistribution map[string]float64   `json:"mode_distribution,omitempty"`
}

// QueryLogEntry is the persisted analytics record for one answered question.
type QueryLogEntry struct {
	Question     string      `json:"question"`
	Answer       string      `json:"answer"`
	Model        string      `json:"model"`
	Sources      []SourceRef `json:"sources"`
	ResponseTime float64     `json:"response_time"`
	CreatedAt    time.Time   `json:"created_at"`
}

type DocumentCount struct {
	Document string `json:"document"`
	Count    int    `json:"count"`
}

type QueryAnalytics struct {
	PeriodDays      int             `json:"period_days"`
	TotalQueries    int             `json:"total_queries"`
	AvgResponseTime float64         `json:"avg_response_time"`
	ModelUsage      map[string]int  `json:"model_usage"`
	TopDocuments    []DocumentCount `json:"top_documents"`
	QueriesPerDay   float64         `json:"queries_per_day"`
}
