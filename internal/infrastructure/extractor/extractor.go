package extractor

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/documind-ai/documind/internal/core/domain"
)

// Extractor dispatches on the filename extension to a format-specific
// text extraction routine.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".md":
		return extractPlainText(r)
	case ".pdf":
		return extractPDF(r)
	case ".xlsx":
		return extractXLSX(r)
	default:
		return "", domain.WrapError(
			domain.ErrInvalidInput,
			"extract text",
			fmt.Errorf("unsupported file type %q", ext),
		)
	}
}
