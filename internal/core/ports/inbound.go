package ports

import (
	"context"
	"io"

	"github.com/mkrasnov/asop-compliance-service/internal/core/domain"
)

// MemoIngestor is the inbound contract for the upload pipeline.
type MemoIngestor interface {
	Upload(ctx context.Context, filename string, body io.Reader) (*domain.IngestResult, error)
}

// MemoAnalysisService is the inbound contract for direct text analysis,
// bypassing storage.
type MemoAnalysisService interface {
	Analyze(ctx context.Context, text string) (string, error)
}

// UploadReader is the inbound read model for stored records.
type UploadReader interface {
	List(ctx context.Context) ([]domain.UploadSummary, error)
	GetByID(ctx context.Context, id int64) (*domain.Upload, error)
}
