package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kochimetro/docflow/internal/core/domain"
)

// RecordRepository persists upload placeholders and processed chunks in two
// tables. The swap from placeholder to chunks happens in one transaction.
type RecordRepository struct {
	db *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *RecordRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS upload_records (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	status TEXT NOT NULL,
	failure_reason TEXT NOT NULL DEFAULT '',
	blob_ref TEXT NOT NULL,
	uploaded_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS processed_chunks (
	id TEXT PRIMARY KEY,
	source_doc_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	content TEXT NOT NULL,
	summary JSONB NOT NULL DEFAULT '{}'::jsonb,
	tags JSONB NOT NULL DEFAULT '[]'::jsonb,
	dates JSONB NOT NULL DEFAULT '{}'::jsonb,
	department TEXT NOT NULL,
	category TEXT NOT NULL,
	embedding JSONB,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_upload_records_status ON upload_records(status);
CREATE INDEX IF NOT EXISTS idx_processed_chunks_source ON processed_chunks(source_doc_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *RecordRepository) CreateUpload(ctx context.Context, rec *domain.UploadRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO upload_records (id, filename, status, failure_reason, blob_ref, uploaded_at)
VALUES ($1,$2,$3,$4,$5,$6)
`,
		rec.ID, rec.Filename, string(rec.Status), rec.FailureReason, rec.BlobRef, rec.UploadedAt,
	)
	if err != nil {
		return domain.WrapError(domain.ErrStorage, "insert upload record", err)
	}
	return nil
}

func (r *RecordRepository) GetUpload(ctx context.Context, id string) (*domain.UploadRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, status, failure_reason, blob_ref, uploaded_at
FROM upload_records
WHERE id = $1
`, id)

	var rec domain.UploadRecord
	var status string

	err := row.Scan(&rec.ID, &rec.Filename, &status, &rec.FailureReason, &rec.BlobRef, &rec.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrRecordNotFound, "get upload record", err)
		}
		return nil, domain.WrapError(domain.ErrStorage, "scan upload record", err)
	}

	rec.Status = domain.UploadStatus(status)
	return &rec, nil
}

func (r *RecordRepository) MarkUploadFailed(ctx context.Context, id, reason string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE upload_records
SET status = $2, failure_reason = $3
WHERE id = $1
`, id, string(domain.StatusFailed), reason)
	if err != nil {
		return domain.WrapError(domain.ErrStorage, "mark upload failed", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(domain.ErrStorage, "mark upload failed rows", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrRecordNotFound, "mark upload failed", sql.ErrNoRows)
	}
	return nil
}

func (r *RecordRepository) SwapUploadForChunks(ctx context.Context, uploadID string, chunks []domain.ProcessedChunk) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WrapError(domain.ErrStorage, "begin swap tx", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i := range chunks {
		if err := insertChunk(ctx, tx, &chunks[i]); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM upload_records WHERE id = $1`, uploadID); err != nil {
		return domain.WrapError(domain.ErrStorage, "delete upload placeholder", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(domain.ErrStorage, "commit swap tx", err)
	}
	return nil
}

func insertChunk(ctx context.Context, tx *sql.Tx, chunk *domain.ProcessedChunk) error {
	summaryJSON, err := json.Marshal(chunk.Summary)
	if err != nil {
		return domain.WrapError(domain.ErrStorage, "marshal summary", err)
	}
	tagsJSON, err := json.Marshal(chunk.Tags)
	if err != nil {
		return domain.WrapError(domain.ErrStorage, "marshal tags", err)
	}
	datesJSON, err := json.Marshal(chunk.Dates)
	if err != nil {
		return domain.WrapError(domain.ErrStorage, "marshal dates", err)
	}

	var embeddingJSON []byte
	if len(chunk.Embedding) > 0 {
		embeddingJSON, err = json.Marshal(chunk.Embedding)
		if err != nil {
			return domain.WrapError(domain.ErrStorage, "marshal embedding", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO processed_chunks (
	id, source_doc_id, filename, content, summary, tags, dates, department, category, embedding, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`,
		chunk.ID, chunk.SourceDocID, chunk.Filename, chunk.Content, summaryJSON, tagsJSON, datesJSON,
		chunk.Department, chunk.Category, embeddingJSON, chunk.CreatedAt,
	)
	if err != nil {
		return domain.WrapError(domain.ErrStorage, "insert processed chunk", err)
	}
	return nil
}

func (r *RecordRepository) ListChunksBySource(ctx context.Context, sourceDocID string) ([]domain.ProcessedChunk, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, source_doc_id, filename, content, summary, tags, dates, department, category, embedding, created_at
FROM processed_chunks
WHERE source_doc_id = $1
ORDER BY created_at, id
`, sourceDocID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "query processed chunks", err)
	}
	defer rows.Close()

	var chunks []domain.ProcessedChunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "iterate processed chunks", err)
	}
	return chunks, nil
}

func scanChunk(rows *sql.Rows) (*domain.ProcessedChunk, error) {
	var chunk domain.ProcessedChunk
	var summaryRaw, tagsRaw, datesRaw []byte
	var embeddingRaw []byte

	err := rows.Scan(
		&chunk.ID, &chunk.SourceDocID, &chunk.Filename, &chunk.Content,
		&summaryRaw, &tagsRaw, &datesRaw, &chunk.Department, &chunk.Category,
		&embeddingRaw, &chunk.CreatedAt,
	)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "scan processed chunk", err)
	}

	if err := json.Unmarshal(summaryRaw, &chunk.Summary); err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "unmarshal summary", err)
	}
	if err := json.Unmarshal(tagsRaw, &chunk.Tags); err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "unmarshal tags", err)
	}
	if err := json.Unmarshal(datesRaw, &chunk.Dates); err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "unmarshal dates", err)
	}
	if len(embeddingRaw) > 0 {
		if err := json.Unmarshal(embeddingRaw, &chunk.Embedding); err != nil {
			return nil, domain.WrapError(domain.ErrStorage, "unmarshal embedding", err)
		}
	}
	if chunk.Tags == nil {
		chunk.Tags = []string{}
	}
	return &chunk, nil
}

// DeleteDocument removes the document under either identity: processed chunks
// by source id, or a still-pending upload placeholder. Returns the number of
// rows removed.
func (r *RecordRepository) DeleteDocument(ctx context.Context, sourceDocID string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, domain.WrapError(domain.ErrStorage, "begin delete tx", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM processed_chunks WHERE source_doc_id = $1`, sourceDocID)
	if err != nil {
		return 0, domain.WrapError(domain.ErrStorage, "delete processed chunks", err)
	}
	chunksDeleted, err := res.RowsAffected()
	if err != nil {
		return 0, domain.WrapError(domain.ErrStorage, "delete processed chunks rows", err)
	}

	res, err = tx.ExecContext(ctx, `DELETE FROM upload_records WHERE id = $1`, sourceDocID)
	if err != nil {
		return 0, domain.WrapError(domain.ErrStorage, "delete upload record", err)
	}
	uploadsDeleted, err := res.RowsAffected()
	if err != nil {
		return 0, domain.WrapError(domain.ErrStorage, "delete upload record rows", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.WrapError(domain.ErrStorage, "commit delete tx", err)
	}

	total := chunksDeleted + uploadsDeleted
	if total == 0 {
		return 0, domain.WrapError(domain.ErrRecordNotFound, "delete document", sql.ErrNoRows)
	}
	return total, nil
}
