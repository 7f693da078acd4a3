package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Simplici0/movequote/internal/pricing"
)

// SQLiteCharges keeps charge sets in the job_charges table as a JSON snapshot
// of the items plus the billable total.
type SQLiteCharges struct {
	db  *sql.DB
	now func() time.Time
}

var _ ChargeRepository = (*SQLiteCharges)(nil)

func NewSQLiteCharges(db *sql.DB) *SQLiteCharges {
	return &SQLiteCharges{db: db, now: time.Now}
}

func (r *SQLiteCharges) Save(ctx context.Context, data pricing.JobChargeData) error {
	if data.JobID == "" {
		return errors.New("save charges: empty job id")
	}
	itemsJSON, err := encodeItems(data.Items)
	if err != nil {
		return err
	}
	now := formatTime(r.now())

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO job_charges (job_id, items_json, total, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (job_id) DO UPDATE SET
			items_json = excluded.items_json,
			total = excluded.total,
			updated_at = excluded.updated_at
	`, data.JobID, itemsJSON, data.Total(), now, now)
	if err != nil {
		return fmt.Errorf("save charges %s: %w", data.JobID, err)
	}
	return nil
}

func (r *SQLiteCharges) Get(ctx context.Context, jobID string) (pricing.JobChargeData, error) {
	var itemsJSON string
	err := r.db.QueryRowContext(ctx, `SELECT items_json FROM job_charges WHERE job_id = ?`, jobID).Scan(&itemsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.JobChargeData{}, ErrNotFound
	}
	if err != nil {
		return pricing.JobChargeData{}, fmt.Errorf("query charges %s: %w", jobID, err)
	}

	items, err := decodeItems(itemsJSON)
	if err != nil {
		return pricing.JobChargeData{}, err
	}
	return pricing.JobChargeData{JobID: jobID, Items: items}, nil
}

func (r *SQLiteCharges) List(ctx context.Context) ([]ChargeSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT job_id, items_json, total, created_at, updated_at
		FROM job_charges
		ORDER BY updated_at DESC, job_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query charge list: %w", err)
	}
	defer rows.Close()

	out := []ChargeSummary{}
	for rows.Next() {
		var (
			s                    ChargeSummary
			itemsJSON            string
			createdAt, updatedAt string
		)
		if err := rows.Scan(&s.JobID, &itemsJSON, &s.Total, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan charge list: %w", err)
		}
		items, err := decodeItems(itemsJSON)
		if err != nil {
			return nil, err
		}
		s.Items = len(items)
		s.CreatedAt = parseTime(createdAt)
		s.UpdatedAt = parseTime(updatedAt)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate charge list: %w", err)
	}
	return out, nil
}
