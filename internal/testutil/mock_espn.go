// Package testutil provides testing utilities for the ESPN statistics client.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// StatsPath is the path the mock serves, mirroring the real endpoint.
const StatsPath = "/apis/common/v3/sports/basketball/mens-college-basketball/statistics/byathlete"

// MockESPNResponse defines the behavior for one mocked page.
type MockESPNResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockESPN is a configurable mock of the statistics-by-athlete endpoint.
// A request without a page parameter is answered with page 1.
type MockESPN struct {
	server *httptest.Server
	mu     sync.RWMutex
	pages  map[int]MockESPNResponse

	// Tracking
	requestCount      int
	pageRequests      map[string]int
	lastRequestHeader http.Header
}

// NewMockESPN creates a new mock ESPN server.
func NewMockESPN() *MockESPN {
	mock := &MockESPN{
		pages:        make(map[int]MockESPNResponse),
		pageRequests: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))

	return mock
}

func (m *MockESPN) handle(w http.ResponseWriter, r *http.Request) {
	pageParam := r.URL.Query().Get("page")

	m.mu.Lock()
	m.requestCount++
	m.pageRequests[pageParam]++
	m.lastRequestHeader = r.Header.Clone()
	m.mu.Unlock()

	if r.URL.Path != StatsPath {
		http.NotFound(w, r)
		return
	}

	page := 1
	if pageParam != "" {
		n, err := strconv.Atoi(pageParam)
		if err != nil {
			http.Error(w, `{"error":"bad page"}`, http.StatusBadRequest)
			return
		}
		page = n
	}

	m.mu.RLock()
	resp, ok := m.pages[page]
	m.mu.RUnlock()

	if !ok {
		http.Error(w, `{"error":"page not found"}`, http.StatusNotFound)
		return
	}

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// URL returns the base statistics URL, including the limit parameter.
func (m *MockESPN) URL() string {
	return m.server.URL + StatsPath + "?limit=50"
}

// Close shuts down the mock server.
func (m *MockESPN) Close() {
	m.server.Close()
}

// SetPage configures the response for a 1-based page number.
func (m *MockESPN) SetPage(page int, resp MockESPNResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[page] = resp
}

// SetPages configures healthy responses for pages 1..len(bodies).
func (m *MockESPN) SetPages(bodies ...string) {
	for i, body := range bodies {
		m.SetPage(i+1, NewPageResponse(body))
	}
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockESPN) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// GetPageRequestCount returns how often a page parameter value was
// requested; "" counts requests without one.
func (m *MockESPN) GetPageRequestCount(page string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pageRequests[page]
}

// GetLastRequestHeader returns the headers of the most recent request.
func (m *MockESPN) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastRequestHeader
}

// NewPageResponse creates a 200 OK JSON response.
func NewPageResponse(body string) MockESPNResponse {
	return MockESPNResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type":  "application/json; charset=utf-8",
			"Cache-Control": "max-age=60",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockESPNResponse {
	return MockESPNResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// PageBody renders a statistics page with the given pagination.pages.
func PageBody(totalPages int, athletes ...string) string {
	return fmt.Sprintf(`{"pagination":{"count":%d,"limit":50,"pages":%d},"athletes":[%s]}`,
		len(athletes), totalPages, strings.Join(athletes, ","))
}

// AthleteJSON renders one athlete record.
func AthleteJSON(id, firstName, lastName string, categories ...string) string {
	return fmt.Sprintf(`{"athlete":{"id":%q,"firstName":%q,"lastName":%q,"displayName":%q,"links":[{"href":"https://www.espn.com/player/_/id/%s"}],"position":{"slug":"guard"},"status":{"name":"Active"}},"categories":[%s]}`,
		id, firstName, lastName, firstName+" "+lastName, id, strings.Join(categories, ","))
}

// CategoryJSON renders one statistics category.
func CategoryJSON(name string, values ...float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprintf(`{"name":%q,"values":[%s]}`, name, strings.Join(parts, ","))
}
