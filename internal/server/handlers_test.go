package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/minhvu/jobchat/internal/chat"
	"github.com/minhvu/jobchat/internal/db"
	"github.com/minhvu/jobchat/internal/dict"
	"github.com/minhvu/jobchat/internal/format"
)

// stubStore implements chat.Store with canned data.
type stubStore struct {
	listing *db.Listing
	search  *db.SearchResult
}

func (s *stubStore) GetListing(_ context.Context, _ int64) (*db.Listing, error) {
	return s.listing, nil
}

func (s *stubStore) SearchListings(_ context.Context, opts db.SearchOptions) (*db.SearchResult, error) {
	if s.search != nil {
		return s.search, nil
	}
	return &db.SearchResult{Page: opts.Page, PageSize: db.PageSize}, nil
}

type stubFetcher struct{}

func (stubFetcher) FetchDictionary(_ context.Context, _ string) ([]dict.Entry, error) {
	return nil, nil
}

func newTestServer(store *stubStore) *Server {
	log := zap.NewNop()
	cache := dict.NewCache(stubFetcher{}, time.Minute)
	return &Server{
		chat: chat.NewService(store, cache, nil, log),
		log:  log,
	}
}

func postChat(t *testing.T, s *Server, body []byte) (*httptest.ResponseRecorder, ChatResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	w := httptest.NewRecorder()

	s.handleChat(w, req)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestHandleChat_MalformedBodyStillOK(t *testing.T) {
	s := newTestServer(&stubStore{})

	w, resp := postChat(t, s, []byte("{not json"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ApologyText, resp.Text)
	assert.Equal(t, "chitchat", resp.Metadata.Intent)
	assert.Equal(t, 1, resp.Metadata.Pages)
}

func TestHandleChat_EmptyMessages(t *testing.T) {
	s := newTestServer(&stubStore{})

	w, resp := postChat(t, s, []byte(`{"messages":[]}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, resp.Text)
	assert.Equal(t, "chitchat", resp.Metadata.Intent)
	assert.Equal(t, 0, resp.Metadata.Total)
	assert.Equal(t, 1, resp.Metadata.Page)
	assert.Equal(t, 1, resp.Metadata.Pages)
	assert.NotEmpty(t, resp.Debug["request_id"])
}

func TestHandleChat_DetailLookup(t *testing.T) {
	listing := &db.Listing{ID: 5, Title: "Backend Engineer", CompanyName: "ACME"}
	s := newTestServer(&stubStore{listing: listing})

	w, resp := postChat(t, s, []byte(`{"messages":[{"role":"user","content":"xem tin #5"}]}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, format.Detail(listing), resp.Text)
	assert.Equal(t, "job_detail", resp.Metadata.Intent)
	assert.Equal(t, 1, resp.Metadata.Total)
	assert.Equal(t, 1, resp.Metadata.Pages)
}

func TestHandleChat_SearchPagination(t *testing.T) {
	s := newTestServer(&stubStore{search: &db.SearchResult{
		Items:    []db.Listing{{ID: 1, Title: "Dev", CompanyName: "ACME"}},
		Total:    21,
		Page:     1,
		PageSize: db.PageSize,
	}})

	w, resp := postChat(t, s, []byte(`{"messages":[{"role":"user","content":"tìm việc dev"}]}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "search_jobs", resp.Metadata.Intent)
	assert.Equal(t, 21, resp.Metadata.Total)
	assert.Equal(t, 3, resp.Metadata.Pages)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	s.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
