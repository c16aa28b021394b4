package chat

import (
	"context"

	"github.com/minhvu/jobchat/internal/db"
	"github.com/minhvu/jobchat/internal/dict"
	"github.com/minhvu/jobchat/internal/format"
)

// fieldSynonyms maps a canonical category title to the normalized
// alias substrings that suggest it in free text. Resolution still
// goes through the reference table, so unknown categories drop out.
var fieldSynonyms = []struct {
	canonical string
	aliases   []string
}{
	{"Công nghệ thông tin", []string{"flutter", "react", "vue", "angular", "node", "golang", "java", "python", "php", "laravel", "dotnet", "android", "ios", "devops", "tester", "backend", "frontend", "fullstack", "lap trinh", "phan mem", "data", "it", "qa"}},
	{"Kế toán", []string{"ke toan", "kiem toan", "accounting"}},
	{"Marketing", []string{"marketing", "content", "seo", "quang cao"}},
	{"Kinh doanh", []string{"kinh doanh", "sales", "ban hang", "telesale"}},
	{"Nhân sự", []string{"nhan su", "hr"}},
	{"Thiết kế", []string{"thiet ke", "design", "ui ux", "do hoa"}},
	{"Xây dựng", []string{"xay dung", "ky su cong trinh"}},
	{"Giáo dục", []string{"giao vien", "gia su", "dao tao"}},
}

// resolve dispatches on the intent kind and returns the formatted
// context block plus the pagination result backing the metadata.
func (s *Service) resolve(ctx context.Context, intent Intent) (string, *db.SearchResult, error) {
	switch intent.Kind {
	case IntentJobDetail:
		listing, err := s.store.GetListing(ctx, intent.JobID)
		if err != nil {
			return "", nil, err
		}
		if listing == nil {
			// Absent row is an empty context, not an error.
			return "", &db.SearchResult{Page: 1, PageSize: db.PageSize}, nil
		}
		res := &db.SearchResult{Items: []db.Listing{*listing}, Total: 1, Page: 1, PageSize: db.PageSize}
		return format.Detail(listing), res, nil

	case IntentSearchJobs:
		opts := s.buildSearch(ctx, intent)
		res, err := s.store.SearchListings(ctx, opts)
		if err != nil {
			return "", nil, err
		}
		return format.List(res), res, nil

	default: // chitchat, no database access
		return "", &db.SearchResult{Page: 1, PageSize: db.PageSize}, nil
	}
}

// buildSearch turns a search intent into typed store options,
// resolving fuzzy names through the dictionary cache. Any term that
// cannot be mapped simply drops its filter.
func (s *Service) buildSearch(ctx context.Context, intent Intent) db.SearchOptions {
	f := intent.Search
	opts := db.SearchOptions{
		Query:            f.Query,
		Company:          f.Company,
		JobType:          f.JobType,
		SalaryMin:        f.SalaryMin,
		SalaryMax:        f.SalaryMax,
		ExpMin:           f.ExpMin,
		ExpMax:           f.ExpMax,
		Remote:           f.Remote,
		PostedWithinDays: f.PostedWithinDays,
		Page:             intent.Page,
	}

	if f.City != "" {
		city := f.City
		// Map spelling variants ("hcm", "sai gon") to the canonical
		// name before hitting the reference table.
		if canonical, ok := matchCity(dict.Normalize(city)); ok {
			city = canonical
		}
		if id, ok := s.dict.Resolve(ctx, db.TableLocations, city); ok {
			opts.LocationID = &id
		}
	}

	opts.FieldIDs = s.resolveFieldIDs(ctx, f.Fields, f.Query)
	return opts
}

// resolveFieldIDs merges ids resolved from classifier-provided
// category titles with ids suggested by the synonym table for the
// free-text query.
func (s *Service) resolveFieldIDs(ctx context.Context, titles []string, query string) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	add := func(id int64) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, title := range titles {
		if id, ok := s.dict.Resolve(ctx, db.TableFields, title); ok {
			add(id)
		}
	}

	if query != "" {
		normQuery := dict.Normalize(query)
		entries, err := s.dict.Entries(ctx, db.TableFields)
		if err == nil {
			for _, syn := range fieldSynonyms {
				if !containsAnyTerm(normQuery, syn.aliases) {
					continue
				}
				if id, ok := dict.Match(entries, syn.canonical); ok {
					add(id)
				}
			}
		}
	}

	return ids
}

func containsAnyTerm(normText string, terms []string) bool {
	for _, t := range terms {
		if containsTerm(normText, t) {
			return true
		}
	}
	return false
}
