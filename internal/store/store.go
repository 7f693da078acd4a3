// Package store persists job charge sets and reads the rate tables kept in the database.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Simplici0/movequote/internal/pricing"
)

// ErrNotFound is returned when no charge set exists for a job.
var ErrNotFound = errors.New("charges not found")

// ChargeSummary is a listing row for a persisted charge set.
type ChargeSummary struct {
	JobID     string    `json:"job_id"`
	Total     float64   `json:"total"`
	Items     int       `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChargeRepository stores one charge set per job. Save replaces the previous set.
type ChargeRepository interface {
	Save(ctx context.Context, data pricing.JobChargeData) error
	Get(ctx context.Context, jobID string) (pricing.JobChargeData, error)
	List(ctx context.Context) ([]ChargeSummary, error)
}

func encodeItems(items []pricing.JobChargeItem) (string, error) {
	if items == nil {
		items = []pricing.JobChargeItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode charge items: %w", err)
	}
	return string(b), nil
}

func decodeItems(raw string) ([]pricing.JobChargeItem, error) {
	var items []pricing.JobChargeItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode charge items: %w", err)
	}
	return items, nil
}

// Fixed-width so timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, raw)
	}
	return t
}
