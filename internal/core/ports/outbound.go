package ports

import (
	"context"
	"io"

	"github.com/mkrasnov/asop-compliance-service/internal/core/domain"
)

// UploadRepository persists and reads upload records.
type UploadRepository interface {
	Insert(ctx context.Context, filename, extractedText string, analysis domain.AnalysisResult) (int64, error)
	List(ctx context.Context) ([]domain.UploadSummary, error)
	GetByID(ctx context.Context, id int64) (*domain.Upload, error)
}

// ObjectStorage stores the raw uploaded bytes. The content area is not
// transactionally linked to the record store.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Path(key string) string
}

// TextExtractor turns a stored document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, storageKey string) (string, error)
}

// ComplianceAnalyzer produces a natural-language ASOP review of memo text.
// AnalyzeText serves the direct analysis endpoint; AnalyzeMemorandum carries
// the full compliance-review instruction used by the upload pipeline.
type ComplianceAnalyzer interface {
	AnalyzeText(ctx context.Context, text string) (string, error)
	AnalyzeMemorandum(ctx context.Context, text string) (string, error)
}
