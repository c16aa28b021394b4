package db

import (
	"context"
	"fmt"

	"github.com/minhvu/jobchat/internal/dict"
)

// Reference tables exposed to the dictionary cache.
const (
	TableLocations = "locations"
	TableFields    = "job_fields"
)

// FetchDictionary loads a full reference table as id/name pairs. It
// implements dict.Fetcher.
func (db *DB) FetchDictionary(ctx context.Context, table string) ([]dict.Entry, error) {
	var query string
	switch table {
	case TableLocations:
		query = `SELECT id, name FROM locations ORDER BY id`
	case TableFields:
		query = `SELECT id, name FROM job_fields ORDER BY id`
	default:
		return nil, fmt.Errorf("unknown reference table %q", table)
	}

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", table, err)
	}
	defer rows.Close()

	var entries []dict.Entry
	for rows.Next() {
		var e dict.Entry
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	return entries, nil
}
