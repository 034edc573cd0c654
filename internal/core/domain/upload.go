package domain

import "time"

// AnalysisResult is the structured analysis payload stored alongside an
// upload. It stays an object rather than a bare string so future structured
// findings (per-standard results, scores) can be added without a schema
// migration.
type AnalysisResult struct {
	Analysis string `json:"analysis"`
}

// Upload is the persisted record of one ingested memorandum. Records are
// written exactly once; there is no update or delete path.
type Upload struct {
	ID            int64          `json:"id"`
	Filename      string         `json:"filename"`
	ExtractedText string         `json:"extracted_text"`
	Analysis      AnalysisResult `json:"asop_analysis"`
	CreatedAt     time.Time      `json:"created_at"`
}

// UploadSummary is the listing projection without the heavy text fields.
type UploadSummary struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
}

// IngestResult is what a successful pipeline run returns to the caller.
type IngestResult struct {
	ID            int64  `json:"id"`
	Filename      string `json:"filename"`
	StoragePath   string `json:"path"`
	ExtractedText string `json:"extracted_text"`
	Analysis      string `json:"asop_analysis"`
}
