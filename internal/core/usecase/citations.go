package usecase

import (
	"fmt"
	"strings"

	"github.com/documind-ai/documind/internal/core/domain"
)

// ExtractCitations scans generated text for literal [Source N] markers and
// cross-references them against the ordered source list used to build the
// context. Only marker presence is checked; an answer with no markers yields
// an empty citation list, not an error.
func ExtractCitations(answer string, sources []domain.ScoredResult) domain.CitationSummary {
	citations := make([]domain.Citation, 0, len(sources))

	for i, source := range sources {
		marker := fmt.Sprintf("[Source %d]", i+1)
		if !strings.Contains(answer, marker) {
			continue
		}
		citations = append(citations, domain.Citation{
			CitationID: i + 1,
			Document:   source.DocumentTitle,
			Chunk:      source.Position,
			Similarity: source.Similarity,
		})
	}

	return domain.CitationSummary{
		Citations:    citations,
		TotalSources: len(sources),
		CitedCount:   len(citations),
	}
}
