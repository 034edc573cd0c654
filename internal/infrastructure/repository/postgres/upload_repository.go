package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mkrasnov/asop-compliance-service/internal/core/domain"
)

// UploadRepository is the record store for ingested memorandums. All
// operations go through the shared database/sql pool, which returns
// connections on every exit path.
type UploadRepository struct {
	db *sql.DB
}

func NewUploadRepository(db *sql.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// OpenDB opens the bounded connection pool. The ceiling of five matches the
// deployment's provisioned database plan.
func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// EnsureSchema idempotently creates the uploads relation and its
// creation-time index. Safe to run on every process start.
func (r *UploadRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082801)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS uploads (
	id BIGSERIAL PRIMARY KEY,
	filename TEXT NOT NULL,
	extracted_text TEXT NOT NULL,
	asop_analysis JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// Insert atomically creates one record and returns its assigned identifier.
// The single-statement transaction rolls back before any error surfaces, so
// a failed insert leaves no partial row.
func (r *UploadRepository) Insert(ctx context.Context, filename, extractedText string, analysis domain.AnalysisResult) (int64, error) {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return 0, domain.WrapError(domain.ErrPersistence, "marshal analysis payload", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, domain.WrapError(domain.ErrPersistence, "begin insert tx", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var id int64
	err = tx.QueryRowContext(ctx, `
INSERT INTO uploads (filename, extracted_text, asop_analysis)
VALUES ($1, $2, $3)
RETURNING id
`, filename, extractedText, payload).Scan(&id)
	if err != nil {
		return 0, domain.WrapError(domain.ErrPersistence, "insert upload", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.WrapError(domain.ErrPersistence, "commit insert tx", err)
	}
	return id, nil
}

// List returns all records newest first, without the heavy text fields.
// Ties on created_at break by descending id, i.e. insertion order.
func (r *UploadRepository) List(ctx context.Context) ([]domain.UploadSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, filename, created_at
FROM uploads
ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, domain.WrapError(domain.ErrPersistence, "list uploads", err)
	}
	defer rows.Close()

	summaries := make([]domain.UploadSummary, 0)
	for rows.Next() {
		var s domain.UploadSummary
		if err := rows.Scan(&s.ID, &s.Filename, &s.CreatedAt); err != nil {
			return nil, domain.WrapError(domain.ErrPersistence, "scan upload summary", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrPersistence, "iterate uploads", err)
	}
	return summaries, nil
}

func (r *UploadRepository) GetByID(ctx context.Context, id int64) (*domain.Upload, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, extracted_text, asop_analysis, created_at
FROM uploads
WHERE id = $1
`, id)

	var up domain.Upload
	var payload []byte
	err := row.Scan(&up.ID, &up.Filename, &up.ExtractedText, &payload, &up.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrUploadNotFound, "get upload", fmt.Errorf("id=%d", id))
		}
		return nil, domain.WrapError(domain.ErrPersistence, "scan upload", err)
	}

	if err := json.Unmarshal(payload, &up.Analysis); err != nil {
		return nil, domain.WrapError(domain.ErrPersistence, "unmarshal analysis payload", err)
	}
	return &up, nil
}
