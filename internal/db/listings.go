package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// GetListing retrieves one active listing by id, description included.
// A missing row yields (nil, nil), not an error.
func (db *DB) GetListing(ctx context.Context, id int64) (*Listing, error) {
	var l Listing
	var fieldIDsJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, title, company_name, COALESCE(location, ''), salary_min, salary_max,
		        deadline, COALESCE(job_type, ''), is_remote, COALESCE(description, ''),
		        field_ids, created_at
		 FROM jobs WHERE id = $1 AND status = 'active'`,
		id,
	).Scan(&l.ID, &l.Title, &l.CompanyName, &l.Location, &l.SalaryMin, &l.SalaryMax,
		&l.Deadline, &l.JobType, &l.Remote, &l.Description, &fieldIDsJSON, &l.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	if fieldIDsJSON != nil {
		_ = json.Unmarshal(fieldIDsJSON, &l.FieldIDs)
	}

	return &l, nil
}

// buildSearchConditions translates SearchOptions into a WHERE clause
// and its arguments. Split out so the query shape is testable without
// a database.
func buildSearchConditions(opts SearchOptions) (string, []any) {
	conditions := []string{"status = 'active'"}
	var args []any
	argIndex := 1

	if opts.Query != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR company_name ILIKE $%d)",
			argIndex, argIndex, argIndex))
		args = append(args, "%"+opts.Query+"%")
		argIndex++
	}

	if opts.Company != "" {
		conditions = append(conditions, fmt.Sprintf("company_name ILIKE $%d", argIndex))
		args = append(args, "%"+opts.Company+"%")
		argIndex++
	}

	if opts.LocationID != nil {
		conditions = append(conditions, fmt.Sprintf("location_id = $%d", argIndex))
		args = append(args, *opts.LocationID)
		argIndex++
	}

	// An empty resolved id set means no category filter; a non-empty
	// set requires overlap with the listing's field_ids array.
	if len(opts.FieldIDs) > 0 {
		overlaps := make([]string, 0, len(opts.FieldIDs))
		for _, id := range opts.FieldIDs {
			overlaps = append(overlaps, fmt.Sprintf("field_ids @> $%d::jsonb", argIndex))
			args = append(args, fmt.Sprintf("[%d]", id))
			argIndex++
		}
		conditions = append(conditions, "("+strings.Join(overlaps, " OR ")+")")
	}

	// Salary filters use overlap semantics: the listing's range must
	// touch the requested range.
	if opts.SalaryMin != nil {
		conditions = append(conditions, fmt.Sprintf("salary_max >= $%d", argIndex))
		args = append(args, *opts.SalaryMin)
		argIndex++
	}
	if opts.SalaryMax != nil {
		conditions = append(conditions, fmt.Sprintf("salary_min <= $%d", argIndex))
		args = append(args, *opts.SalaryMax)
		argIndex++
	}

	if opts.ExpMin != nil {
		conditions = append(conditions, fmt.Sprintf("experience_years >= $%d", argIndex))
		args = append(args, *opts.ExpMin)
		argIndex++
	}
	if opts.ExpMax != nil {
		conditions = append(conditions, fmt.Sprintf("experience_years <= $%d", argIndex))
		args = append(args, *opts.ExpMax)
		argIndex++
	}

	if opts.Remote != nil {
		conditions = append(conditions, fmt.Sprintf("is_remote = $%d", argIndex))
		args = append(args, *opts.Remote)
		argIndex++
	}

	if opts.JobType != "" {
		conditions = append(conditions, fmt.Sprintf("job_type = $%d", argIndex))
		args = append(args, opts.JobType)
		argIndex++
	}

	if opts.PostedWithinDays != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= NOW() - ($%d * INTERVAL '1 day')", argIndex))
		args = append(args, *opts.PostedWithinDays)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// SearchListings runs a filtered, paginated search over active
// listings, newest first. The total is counted with the same filters
// before the page is fetched.
func (db *DB) SearchListings(ctx context.Context, opts SearchOptions) (*SearchResult, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}

	whereClause, args := buildSearchConditions(opts)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM jobs %s", whereClause)
	var total int
	if err := db.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	argIndex := len(args) + 1
	query := fmt.Sprintf(
		`SELECT id, title, company_name, COALESCE(location, ''), salary_min, salary_max,
		        deadline, COALESCE(job_type, ''), is_remote, field_ids, created_at
		 FROM jobs %s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)
	args = append(args, PageSize, (page-1)*PageSize)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	defer rows.Close()

	var items []Listing
	for rows.Next() {
		var l Listing
		var fieldIDsJSON []byte
		if err := rows.Scan(&l.ID, &l.Title, &l.CompanyName, &l.Location, &l.SalaryMin,
			&l.SalaryMax, &l.Deadline, &l.JobType, &l.Remote, &fieldIDsJSON, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		if fieldIDsJSON != nil {
			_ = json.Unmarshal(fieldIDsJSON, &l.FieldIDs)
		}
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read listings: %w", err)
	}

	return &SearchResult{Items: items, Total: total, Page: page, PageSize: PageSize}, nil
}
