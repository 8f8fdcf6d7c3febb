package unpack

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// decodePDF extracts the text content of a paginated document using pdfcpu.
// pdfcpu works on files, so the payload is staged in a scratch directory that
// is removed on every exit path. Pages are reassembled in page order to keep
// the text deterministic.
func decodePDF(data []byte) (string, error) {
	tmp, err := os.MkdirTemp("", "goconveyance-pdf-")
	if err != nil {
		return "", fmt.Errorf("pdf scratch dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	src := filepath.Join(tmp, "doc.pdf")
	if err := os.WriteFile(src, data, 0o644); err != nil {
		return "", fmt.Errorf("pdf scratch file: %w", err)
	}

	pdfCtx, err := api.ReadContextFile(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	pageCount := pdfCtx.PageCount

	outDir := filepath.Join(tmp, "pages")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("pdf scratch dir: %w", err)
	}
	if err := api.ExtractContentFile(src, outDir, nil, model.NewDefaultConfiguration()); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	// Extracted content lands as one file per page; stitch them back together
	// in page order.
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", fmt.Errorf("read extracted pages: %w", err)
	}
	pageTexts := make(map[int]string, pageCount)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(e.Name(), "Content_page_%d", &pageNum); err != nil {
			if _, err := fmt.Sscanf(e.Name(), "page_%d", &pageNum); err != nil {
				continue
			}
		}
		content, err := os.ReadFile(filepath.Join(outDir, e.Name()))
		if err != nil {
			continue
		}
		pageTexts[pageNum] = string(content)
	}

	var b strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		text, ok := pageTexts[pageNum]
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	}
	return normalizeWhitespace(b.String()), nil
}
