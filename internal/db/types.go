package db

import "time"

// PageSize is the fixed number of listings per search page.
const PageSize = 10

// Listing is the projection of an active job row used by the chat
// resolver. Description is only populated for detail lookups.
type Listing struct {
	ID          int64
	Title       string
	CompanyName string
	Location    string
	SalaryMin   *int64
	SalaryMax   *int64
	Deadline    *time.Time
	JobType     string
	Remote      bool
	Description string
	FieldIDs    []int64
	CreatedAt   time.Time
}

// SearchResult is one page of listings plus the unpaginated total.
type SearchResult struct {
	Items    []Listing
	Total    int
	Page     int
	PageSize int
}

// Pages reports the page count, at least 1 even for an empty result.
func (r *SearchResult) Pages() int {
	size := r.PageSize
	if size <= 0 {
		size = PageSize
	}
	pages := (r.Total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	return pages
}

// SearchOptions carries the resolved, typed filters for a listing
// search. Nil/zero fields are not applied.
type SearchOptions struct {
	Query            string
	Company          string
	LocationID       *int64
	FieldIDs         []int64
	SalaryMin        *int64
	SalaryMax        *int64
	ExpMin           *int
	ExpMax           *int
	Remote           *bool
	JobType          string
	PostedWithinDays *int
	Page             int
}
