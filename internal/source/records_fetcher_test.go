package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgvmax-weekends/internal/common/logger"
)

type fakeCatalog struct {
	mu       sync.Mutex
	total    int
	failAt   int // offset answering 500, -1 for never
	requests []*url.URL
}

func (c *fakeCatalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	c.requests = append(c.requests, r.URL)
	c.mu.Unlock()

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	if offset == c.failAt {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error_code": "ServerError", "message": "upstream unavailable"})
		return
	}

	results := []map[string]interface{}{}
	for i := offset; i < c.total && i < offset+limit; i++ {
		results = append(results, map[string]interface{}{
			"date":             "2026-10-23",
			"heure_depart":     fmt.Sprintf("%02d:%02d", (i/60)%24, i%60),
			"origine_iata":     "FRLPD",
			"destination_iata": "FRPLY",
			"od_happy_card":    "OUI",
			"train_no":         6600 + i,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"total_count": c.total,
		"results":     results,
	})
}

func newTestFetcher(t *testing.T, url string, pageSize int) *HTTPRecordFetcher {
	t.Helper()
	f, err := NewHTTPRecordFetcher(Config{
		BaseURL:  url,
		Dataset:  "tgvmax",
		PageSize: pageSize,
		Timeout:  5 * time.Second,
	}, logger.New(io.Discard))
	require.NoError(t, err)
	return f
}

func TestFetchRecordsPaginates(t *testing.T) {
	tests := []struct {
		name         string
		total        int
		pageSize     int
		wantRequests int
	}{
		{"short last page", 250, 100, 3},
		{"exact multiple needs an empty page", 200, 100, 3},
		{"single short page", 7, 100, 1},
		{"empty dataset", 0, 100, 1},
		{"small pages", 5, 2, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			catalog := &fakeCatalog{total: tc.total, failAt: -1}
			srv := httptest.NewServer(catalog)
			defer srv.Close()

			f := newTestFetcher(t, srv.URL, tc.pageSize)
			records, err := f.FetchRecords(context.Background(), "FRLPD", "FRPLY")
			require.NoError(t, err)

			assert.Len(t, records, tc.total)
			assert.Len(t, catalog.requests, tc.wantRequests)
		})
	}
}

func TestFetchRecordsQuery(t *testing.T) {
	catalog := &fakeCatalog{total: 1, failAt: -1}
	srv := httptest.NewServer(catalog)
	defer srv.Close()

	f := newTestFetcher(t, srv.URL, 100)
	_, err := f.FetchRecords(context.Background(), "FRLPD", "FRPLY")
	require.NoError(t, err)

	require.Len(t, catalog.requests, 1)
	req := catalog.requests[0]
	assert.Equal(t, "/catalog/datasets/tgvmax/records", req.Path)
	require.Len(t, req.Query()["refine"], 3)
	assert.ElementsMatch(t,
		[]string{"od_happy_card:OUI", "origine_iata:FRLPD", "destination_iata:FRPLY"},
		req.Query()["refine"])
	assert.Equal(t, "100", req.Query().Get("limit"))
	assert.Equal(t, "0", req.Query().Get("offset"))
}

func TestFetchRecordsFailsWholeFetchOnPageError(t *testing.T) {
	catalog := &fakeCatalog{total: 250, failAt: 100}
	srv := httptest.NewServer(catalog)
	defer srv.Close()

	f := newTestFetcher(t, srv.URL, 100)
	records, err := f.FetchRecords(context.Background(), "FRLPD", "FRPLY")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream unavailable")
	assert.Nil(t, records)
}

func TestFetchRecordsRejectsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [`))
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv.URL, 100)
	_, err := f.FetchRecords(context.Background(), "FRLPD", "FRPLY")
	assert.ErrorContains(t, err, "decoding response")
}

func TestFetchRecordsDropsOtherRoutes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_count": 2, "results": [
			{"date": "2026-10-24", "heure_depart": "09:00", "origine_iata": "FRLPD", "destination_iata": "FRPLY"},
			{"date": "2026-10-24", "heure_depart": "10:00", "origine_iata": "FRLPD", "destination_iata": "FRMRS"}
		]}`))
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv.URL, 100)
	records, err := f.FetchRecords(context.Background(), "FRLPD", "FRPLY")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "09:00", records[0].DepartureTime)
}

func TestFetchRecordsDropsSeatsWithoutHappyCard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_count": 3, "results": [
			{"date": "2026-10-24", "heure_depart": "09:00", "od_happy_card": "OUI"},
			{"date": "2026-10-24", "heure_depart": "10:00", "od_happy_card": "NON"},
			{"date": "2026-10-24", "heure_depart": "11:00"}
		]}`))
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv.URL, 100)
	records, err := f.FetchRecords(context.Background(), "FRLPD", "FRPLY")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "09:00", records[0].DepartureTime)
	assert.Equal(t, "11:00", records[1].DepartureTime)
}

func TestNewHTTPRecordFetcherPageSize(t *testing.T) {
	_, err := NewHTTPRecordFetcher(Config{BaseURL: "http://example.com", Dataset: "tgvmax", PageSize: 101}, logger.New(io.Discard))
	assert.ErrorIs(t, err, ErrInvalidPageSize)

	f, err := NewHTTPRecordFetcher(Config{BaseURL: "http://example.com", Dataset: "tgvmax"}, logger.New(io.Discard))
	require.NoError(t, err)
	assert.Equal(t, 100, f.config.PageSize)
}
