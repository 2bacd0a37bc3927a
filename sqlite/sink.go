package sqlite

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/fwojciec/pagewalk"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ pagewalk.Sink = (*Sink)(nil)

// Sink stores crawl batches in SQLite. Each Store call inserts one batch
// row plus its pages and records in a single transaction.
type Sink struct {
	db *DB
}

// NewSink creates a new Sink backed by db.
func NewSink(db *DB) *Sink {
	return &Sink{db: db}
}

// Store persists a batch under the given label.
func (s *Sink) Store(ctx context.Context, batch []*pagewalk.PageResult, label string) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	batchID := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO batches (id, label, stored_at)
		VALUES (?, ?, ?)
	`, batchID, label, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	for _, page := range batch {
		pageID := uuid.New().String()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pages (id, batch_id, page, url, raw_size, success, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, pageID, batchID, page.Page, page.URL, page.RawSize, page.Success,
			page.FetchedAt.UTC().Format(time.RFC3339)); err != nil {
			return err
		}

		for _, rec := range page.Records {
			fields, err := json.Marshal(rec.Fields)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO records (id, page_id, kind, hash, fields)
				VALUES (?, ?, ?, ?, ?)
			`, uuid.New().String(), pageID, rec.Kind, rec.Hash, string(fields)); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// RecordFilter narrows a FindRecords query. Nil fields match everything.
type RecordFilter struct {
	Kind *string
	Hash *string
	Page *int

	Limit  int
	Offset int
}

// StoredRecord is one persisted record together with its page context.
type StoredRecord struct {
	Kind   string
	Hash   string
	Fields map[string]string
	Page   int
	URL    string
}

// FindRecords returns stored records matching the filter, in insertion order.
func (s *Sink) FindRecords(ctx context.Context, filter RecordFilter) ([]*StoredRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT r.kind, r.hash, r.fields, p.page, p.url
		FROM records r
		JOIN pages p ON p.id = r.page_id
		WHERE 1=1`)

	if filter.Kind != nil {
		query.WriteString(" AND r.kind = ?")
		args = append(args, *filter.Kind)
	}
	if filter.Hash != nil {
		query.WriteString(" AND r.hash = ?")
		args = append(args, *filter.Hash)
	}
	if filter.Page != nil {
		query.WriteString(" AND p.page = ?")
		args = append(args, *filter.Page)
	}

	query.WriteString(" ORDER BY r.rowid")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*StoredRecord
	for rows.Next() {
		var rec StoredRecord
		var fields string
		if err := rows.Scan(&rec.Kind, &rec.Hash, &fields, &rec.Page, &rec.URL); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fields), &rec.Fields); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Batch summarizes one stored batch.
type Batch struct {
	ID       string
	Label    string
	StoredAt time.Time
	Pages    int
	Records  int
}

// ListBatches returns stored batches in insertion order.
func (s *Sink) ListBatches(ctx context.Context) ([]Batch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.label, b.stored_at,
		       COUNT(DISTINCT p.id),
		       COUNT(r.id)
		FROM batches b
		LEFT JOIN pages p ON p.batch_id = b.id
		LEFT JOIN records r ON r.page_id = p.id
		GROUP BY b.id, b.label, b.stored_at
		ORDER BY b.rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		var b Batch
		var storedAt string
		if err := rows.Scan(&b.ID, &b.Label, &storedAt, &b.Pages, &b.Records); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, storedAt); err == nil {
			b.StoredAt = t
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}
