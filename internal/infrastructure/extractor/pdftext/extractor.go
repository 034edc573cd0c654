package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/mkrasnov/asop-compliance-service/internal/core/domain"
	"github.com/mkrasnov/asop-compliance-service/internal/core/ports"
)

// Extractor reads a stored PDF and concatenates the plain text of every
// page in natural order, each page followed by a newline. No layout or
// structure awareness; an empty document yields an empty string.
type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, storageKey string) (string, error) {
	reader, err := e.storage.Open(ctx, storageKey)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "open stored document", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "read stored document", err)
	}

	doc, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "parse pdf", err)
	}

	var text strings.Builder
	for pageNum := 1; pageNum <= doc.NumPage(); pageNum++ {
		page := doc.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", domain.WrapError(domain.ErrExtraction, fmt.Sprintf("extract page %d", pageNum), err)
		}
		// GetPlainText emits a row break before each text row, including the
		// first, so the page content arrives with a leading newline.
		text.WriteString(strings.TrimSpace(content))
		text.WriteString("\n")
	}
	return text.String(), nil
}
