package usecase

import (
	"strings"
	"testing"

	"github.com/documind-ai/documind/internal/core/domain"
)

func TestAssembleContextHeadersAndDividers(t *testing.T) {
	results := []domain.ScoredResult{
		{DocumentTitle: "Handbook", Position: 2, Text: "vacation accrual rules"},
		{DocumentTitle: "Benefits", Position: 0, Text: "health plan overview"},
	}

	assembled := AssembleContext(results, 1000)
	if !strings.Contains(assembled, "[Source 1: Handbook, chunk 2]") {
		t.Fatalf("missing first source header: %q", assembled)
	}
	if !strings.Contains(assembled, "[Source 2: Benefits, chunk 0]") {
		t.Fatalf("missing second source header: %q", assembled)
	}
	if !strings.Contains(assembled, contextDivider) {
		t.Fatalf("missing divider between chunks: %q", assembled)
	}
}

func TestAssembleContextUnknownTitle(t *testing.T) {
	results := []domain.ScoredResult{{Position: 0, Text: "orphan text"}}

	assembled := AssembleContext(results, 1000)
	if !strings.Contains(assembled, "[Source 1: Unknown, chunk 0]") {
		t.Fatalf("expected Unknown title fallback, got %q", assembled)
	}
}

func TestAssembleContextRespectsBudget(t *testing.T) {
	big := strings.Repeat("x", 2000)
	results := []domain.ScoredResult{
		{DocumentTitle: "A", Position: 0, Text: big},
		{DocumentTitle: "B", Position: 0, Text: big},
		{DocumentTitle: "C", Position: 0, Text: big},
	}

	// Budget of 600 tokens = 2400 chars: the first chunk fits, the second
	// is truncated, the third never appears.
	assembled := AssembleContext(results, 600)
	if len(assembled) > 600*charsPerToken {
		t.Fatalf("assembled context exceeds budget: %d chars", len(assembled))
	}
	if !strings.Contains(assembled, "[Source 2: B, chunk 0]") {
		t.Fatalf("expected truncated second chunk included")
	}
	if !strings.Contains(assembled, "...") {
		t.Fatalf("expected truncation suffix")
	}
	if strings.Contains(assembled, "[Source 3") {
		t.Fatalf("expected assembly to stop at the budget")
	}
}

func TestAssembleContextSkipsTinyTruncation(t *testing.T) {
	first := strings.Repeat("a", 370)
	results := []domain.ScoredResult{
		{DocumentTitle: "A", Position: 0, Text: first},
		{DocumentTitle: "B", Position: 0, Text: strings.Repeat("b", 500)},
	}

	// 100 tokens = 400 chars. After the first chunk there is far less than
	// the minimum useful room, so the second is dropped entirely.
	assembled := AssembleContext(results, 100)
	if strings.Contains(assembled, "[Source 2") {
		t.Fatalf("expected second chunk skipped, got %q", assembled)
	}
}

func TestAssembleContextEmpty(t *testing.T) {
	if got := AssembleContext(nil, 1000); got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
}
