package sqlite

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/casescrape"
)

// Compile-time interface verification.
var _ casescrape.RecordSink = (*RowStore)(nil)

// RowStore is a casescrape.RecordSink that inserts each row as its own
// autocommitted statement, tagged with a run ID.
type RowStore struct {
	db    *DB
	runID string

	mu     sync.Mutex
	closed bool
}

// NewRowStore creates a RowStore writing rows for runID.
func NewRowStore(db *DB, runID string) *RowStore {
	return &RowStore{db: db, runID: runID}
}

// Write inserts row.
func (s *RowStore) Write(ctx context.Context, row *casescrape.OutputRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return casescrape.Errorf(casescrape.EINVALID, "row store is closed")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO case_rows (run_id, category, subcategory, case_group, case_title, case_info,
			clinical_info, patient_sex, patient_age, body_part, image_path, image_caption, source_url, written_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.runID, row.Category, row.Subcategory, row.Group, row.CaseTitle, row.CaseInfo,
		row.ClinicalInfo, row.PatientSex, row.PatientAge, row.BodyPart, row.ImagePath, row.ImageCaption,
		row.SourceURL, formatRFC3339(time.Now()))
	if err != nil {
		return casescrape.Errorf(casescrape.EINTERNAL, "inserting row: %v", err)
	}
	return nil
}

// Close stops accepting rows. The database itself is owned by the caller.
// Close is idempotent.
func (s *RowStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// FindRows returns stored rows matching filter in write order.
func FindRows(ctx context.Context, db *DB, filter casescrape.RowFilter) ([]*casescrape.OutputRow, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT category, subcategory, case_group, case_title, case_info, clinical_info,
		patient_sex, patient_age, body_part, image_path, image_caption, source_url
		FROM case_rows WHERE 1=1`)

	if filter.RunID != "" {
		query.WriteString(" AND run_id = ?")
		args = append(args, filter.RunID)
	}
	query.WriteString(" ORDER BY id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*casescrape.OutputRow
	for rows.Next() {
		var r casescrape.OutputRow
		if err := rows.Scan(&r.Category, &r.Subcategory, &r.Group, &r.CaseTitle, &r.CaseInfo,
			&r.ClinicalInfo, &r.PatientSex, &r.PatientAge, &r.BodyPart, &r.ImagePath,
			&r.ImageCaption, &r.SourceURL); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
