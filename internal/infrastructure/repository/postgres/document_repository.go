package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/dept-intake/internal/core/domain"
)

const uniqueViolation = "23505"

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
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

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2024031501)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	original_filename TEXT NOT NULL UNIQUE,
	mime_type TEXT NOT NULL,
	storage_key TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	processed_filename TEXT NOT NULL DEFAULT '',
	document_type TEXT NOT NULL DEFAULT '',
	department TEXT NOT NULL DEFAULT '',
	summary TEXT NOT NULL DEFAULT '',
	key_points JSONB NOT NULL DEFAULT '[]'::jsonb,
	action_items JSONB NOT NULL DEFAULT '[]'::jsonb,
	deadline TEXT,
	priority TEXT NOT NULL DEFAULT '',
	metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	processed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_department ON documents(department, processed_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (
	id, original_filename, mime_type, storage_key, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`,
		doc.ID, doc.OriginalFilename, doc.MimeType, doc.StorageKey, string(doc.Status), doc.Error, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.WrapError(domain.ErrConflict, "insert document",
				fmt.Errorf("a document named %q already exists", doc.OriginalFilename))
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

const selectDocumentColumns = `
SELECT id, original_filename, mime_type, storage_key, status, error_message,
	processed_filename, document_type, department, summary, key_points, action_items,
	deadline, priority, metadata, created_at, updated_at, processed_at
FROM documents
`

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, selectDocumentColumns+`WHERE id = $1`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return requireRow(res, "update document status", id)
}

// SaveResult stores a classification result and marks the document processed.
func (r *DocumentRepository) SaveResult(ctx context.Context, id string, result domain.ClassificationResult) error {
	keyPoints, err := json.Marshal(nonNil(result.KeyPoints))
	if err != nil {
		return fmt.Errorf("marshal key points: %w", err)
	}
	actionItems, err := json.Marshal(nonNil(result.ActionItems))
	if err != nil {
		return fmt.Errorf("marshal action items: %w", err)
	}
	metadata, err := json.Marshal(result.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	var deadline sql.NullString
	if result.Deadline != nil {
		deadline = sql.NullString{String: *result.Deadline, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = '', processed_filename = $3, document_type = $4, department = $5,
	summary = $6, key_points = $7, action_items = $8, deadline = $9, priority = $10, metadata = $11,
	processed_at = $12, updated_at = $13
WHERE id = $1
`,
		id, string(domain.StatusProcessed), result.ProcessedFilename, string(result.DocumentType), string(result.Department),
		result.Summary, keyPoints, actionItems, deadline, string(result.Priority), metadata,
		result.ProcessedAt.UTC(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return requireRow(res, "save result", id)
}

// ListByDepartment returns processed documents routed to dept, newest first.
func (r *DocumentRepository) ListByDepartment(ctx context.Context, dept domain.Department, limit int) ([]domain.Document, error) {
	return r.queryDocuments(ctx, "list documents", selectDocumentColumns+`
WHERE department = $1 AND status = $2
ORDER BY processed_at DESC
LIMIT $3`, string(dept), string(domain.StatusProcessed), limit)
}

// ListByStatus returns documents in status, least recently updated first.
func (r *DocumentRepository) ListByStatus(ctx context.Context, status domain.DocumentStatus, limit int) ([]domain.Document, error) {
	return r.queryDocuments(ctx, "list documents by status", selectDocumentColumns+`
WHERE status = $1
ORDER BY updated_at ASC
LIMIT $2`, string(status), limit)
}

// RequeueForProcessing returns an uploaded or failed document to uploaded and
// clears its error. Any other status yields ErrConflict.
func (r *DocumentRepository) RequeueForProcessing(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = '', updated_at = $3
WHERE id = $1 AND status IN ($2, $4)
`, id, string(domain.StatusUploaded), time.Now().UTC(), string(domain.StatusFailed))
	if err != nil {
		return fmt.Errorf("requeue document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("requeue document rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var status string
	err = r.db.QueryRowContext(ctx, `SELECT status FROM documents WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.WrapError(domain.ErrDocumentNotFound, "requeue document", fmt.Errorf("id %s", id))
	}
	if err != nil {
		return fmt.Errorf("read document status: %w", err)
	}
	return domain.WrapError(domain.ErrConflict, "requeue document", fmt.Errorf("document %s is %s", id, status))
}

func (r *DocumentRepository) queryDocuments(ctx context.Context, operation, query string, args ...any) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer rows.Close()

	out := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func (r *DocumentRepository) CountByDepartment(ctx context.Context) (map[domain.Department]int, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT department, COUNT(*)
FROM documents
WHERE status = $1
GROUP BY department
`, string(domain.StatusProcessed))
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.Department]int)
	for rows.Next() {
		var (
			dept  string
			count int
		)
		if err := rows.Scan(&dept, &count); err != nil {
			return nil, fmt.Errorf("scan department count: %w", err)
		}
		out[domain.Department(dept)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate department counts: %w", err)
	}
	return out, nil
}

type documentScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row documentScanner) (domain.Document, error) {
	var (
		doc                                       domain.Document
		status, docType, dept, priority           string
		keyPointsRaw, actionItemsRaw, metadataRaw []byte
		deadline                                  sql.NullString
		processedAt                               sql.NullTime
	)
	err := row.Scan(
		&doc.ID,
		&doc.OriginalFilename,
		&doc.MimeType,
		&doc.StorageKey,
		&status,
		&doc.Error,
		&doc.ProcessedFilename,
		&docType,
		&dept,
		&doc.Summary,
		&keyPointsRaw,
		&actionItemsRaw,
		&deadline,
		&priority,
		&metadataRaw,
		&doc.CreatedAt,
		&doc.UpdatedAt,
		&processedAt,
	)
	if err != nil {
		return domain.Document{}, err
	}

	if err := unmarshalJSONColumn(keyPointsRaw, &doc.KeyPoints); err != nil {
		return domain.Document{}, fmt.Errorf("unmarshal key points: %w", err)
	}
	if err := unmarshalJSONColumn(actionItemsRaw, &doc.ActionItems); err != nil {
		return domain.Document{}, fmt.Errorf("unmarshal action items: %w", err)
	}
	if err := unmarshalJSONColumn(metadataRaw, &doc.Metadata); err != nil {
		return domain.Document{}, fmt.Errorf("unmarshal metadata: %w", err)
	}
	doc.KeyPoints = nonNil(doc.KeyPoints)
	doc.ActionItems = nonNil(doc.ActionItems)

	doc.Status = domain.DocumentStatus(status)
	doc.DocumentType = domain.DocumentType(docType)
	doc.Department = domain.Department(dept)
	doc.Priority = domain.Priority(priority)
	if deadline.Valid {
		value := deadline.String
		doc.Deadline = &value
	}
	if processedAt.Valid {
		at := processedAt.Time
		doc.ProcessedAt = &at
	}
	return doc, nil
}

func unmarshalJSONColumn(raw []byte, out any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func requireRow(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, operation, fmt.Errorf("id %s", id))
	}
	return nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
