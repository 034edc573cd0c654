package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkrasnov/asop-compliance-service/internal/core/domain"
	"github.com/mkrasnov/asop-compliance-service/internal/core/ports"
)

// IngestMemoUseCase runs the upload pipeline for one document: save bytes,
// extract text, analyze, persist. A failed analysis aborts before
// persistence, so an error message never masquerades as a review. The
// content area and the record store are not transactionally linked: a file
// saved before a later failure stays on disk without a record.
type IngestMemoUseCase struct {
	repo      ports.UploadRepository
	storage   ports.ObjectStorage
	extractor ports.TextExtractor
	analyzer  ports.ComplianceAnalyzer
}

func NewIngestMemoUseCase(
	repo ports.UploadRepository,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	analyzer ports.ComplianceAnalyzer,
) *IngestMemoUseCase {
	return &IngestMemoUseCase{
		repo:      repo,
		storage:   storage,
		extractor: extractor,
		analyzer:  analyzer,
	}
}

func (uc *IngestMemoUseCase) Upload(ctx context.Context, filename string, body io.Reader) (*domain.IngestResult, error) {
	if !hasPDFExtension(filename) {
		return nil, domain.WrapError(domain.ErrInvalidInput, "validate upload", fmt.Errorf("only PDF files are allowed: %s", filename))
	}

	storageKey := storageName(filename, time.Now().UTC())
	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	text, err := uc.extractor.Extract(ctx, storageKey)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	analysis, err := uc.analyzer.AnalyzeMemorandum(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("analyze memorandum: %w", err)
	}

	id, err := uc.repo.Insert(ctx, storageKey, text, domain.AnalysisResult{Analysis: analysis})
	if err != nil {
		return nil, fmt.Errorf("persist upload: %w", err)
	}

	return &domain.IngestResult{
		ID:            id,
		Filename:      storageKey,
		StoragePath:   uc.storage.Path(storageKey),
		ExtractedText: text,
		Analysis:      analysis,
	}, nil
}

func hasPDFExtension(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// storageName prefixes the original name with a sortable timestamp plus a
// short random infix, so two same-named uploads within one second still get
// distinct keys.
func storageName(filename string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s", now.Format("20060102_150405"), uuid.NewString()[:8], sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.pdf"
	}
	return base
}
