package usecase

import (
	"fmt"
	"strings"

	"github.com/documind-ai/documind/internal/core/domain"
)

const (
	charsPerToken     = 4
	contextDivider    = "\n---\n"
	dividerOverhead   = 4
	truncationReserve = 10
	minTruncatedChars = 100
)

// AssembleContext packs ranked chunks into one bounded text block, each
// chunk prefixed with a numbered source marker cross-referenced later by
// citation extraction. Chunks are taken in input order; when the next chunk
// would blow the budget a truncated version is included only if the
// remaining room after the header is still meaningful, then assembly stops.
func AssembleContext(results []domain.ScoredResult, maxTokens int) string {
	if len(results) == 0 {
		return ""
	}

	maxChars := maxTokens * charsPerToken
	parts := make([]string, 0, len(results))
	currentChars := 0

	for i, result := range results {
		name := result.DocumentTitle
		if name == "" {
			name = "Unknown"
		}
		header := fmt.Sprintf("[Source %d: %s, chunk %d]", i+1, name, result.Position)
		block := header + "\n" + result.Text

		blockLen := len(block) + dividerOverhead
		if currentChars+blockLen > maxChars {
			remaining := maxChars - currentChars - len(header) - truncationReserve
			if remaining > minTruncatedChars && remaining < len(result.Text) {
				parts = append(parts, header+"\n"+result.Text[:remaining]+"...")
			}
			break
		}

		parts = append(parts, block)
		currentChars += blockLen
	}

	return strings.Join(parts, contextDivider)
}
