package espn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/courtside/espn-player-stats/internal/testutil"
	"github.com/courtside/espn-player-stats/pkg/athletes"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := New(DefaultConfig("TestApp/1.0.0 (test@example.com)"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid config",
			config:      DefaultConfig("TestApp/1.0.0"),
			expectError: false,
		},
		{
			name:        "empty user agent",
			config:      Config{Timeout: time.Second},
			expectError: true,
			errorMsg:    "user-agent is required",
		},
		{
			name:        "zero timeout",
			config:      Config{UserAgent: "TestApp/1.0.0"},
			expectError: true,
			errorMsg:    "timeout must be positive (got 0s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got nil")
					return
				}
				if tt.errorMsg != "" && err.Error() != tt.errorMsg {
					t.Errorf("Error message = %q, want %q", err.Error(), tt.errorMsg)
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
					return
				}
				if client == nil {
					t.Error("Client is nil")
				}
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("TestApp/1.0.0")

	if cfg.UserAgent != "TestApp/1.0.0" {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}
	if cfg.Cache != nil {
		t.Error("Cache should be off by default")
	}
}

func TestGet_Success(t *testing.T) {
	mock := testutil.NewMockESPN()
	defer mock.Close()
	mock.SetPages(testutil.PageBody(1))

	c := newTestClient(t)
	before := promtest.ToFloat64(espnRequestsTotal.WithLabelValues("200"))

	body, err := c.Get(context.Background(), mock.URL())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !strings.Contains(string(body), `"pages":1`) {
		t.Errorf("unexpected body %s", body)
	}

	header := mock.GetLastRequestHeader()
	if got := header.Get("User-Agent"); got != "TestApp/1.0.0 (test@example.com)" {
		t.Errorf("User-Agent = %q", got)
	}
	if got := header.Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %q", got)
	}

	if after := promtest.ToFloat64(espnRequestsTotal.WithLabelValues("200")); after != before+1 {
		t.Errorf("espn_requests_total{status=200} = %v, want %v", after, before+1)
	}
}

func TestGet_HTTPErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantClass ErrorClass
	}{
		{name: "server error", status: http.StatusInternalServerError, wantClass: ErrorClassServer},
		{name: "bad gateway", status: http.StatusBadGateway, wantClass: ErrorClassServer},
		{name: "not found", status: http.StatusNotFound, wantClass: ErrorClassClient},
		{name: "too many requests", status: http.StatusTooManyRequests, wantClass: ErrorClassClient},
		{name: "redirect not followed", status: http.StatusNotModified, wantClass: ErrorClassUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":"nope"}`))
			}))
			defer server.Close()

			c := newTestClient(t)
			before := promtest.ToFloat64(espnErrorsTotal.WithLabelValues(string(tt.wantClass)))

			_, err := c.Get(context.Background(), server.URL)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T: %v", err, err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.ErrorClass != tt.wantClass {
				t.Errorf("ErrorClass = %s, want %s", apiErr.ErrorClass, tt.wantClass)
			}
			if after := promtest.ToFloat64(espnErrorsTotal.WithLabelValues(string(tt.wantClass))); after != before+1 {
				t.Errorf("espn_errors_total{class=%s} = %v, want %v", tt.wantClass, after, before+1)
			}
		})
	}
}

func TestGet_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := newTestClient(t)
	_, err := c.Get(context.Background(), url)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.ErrorClass != ErrorClassNetwork {
		t.Errorf("ErrorClass = %s, want network", apiErr.ErrorClass)
	}
	if apiErr.Err == nil {
		t.Error("network error should wrap the transport error")
	}
}

func TestGet_Timeout(t *testing.T) {
	mock := testutil.NewMockESPN()
	defer mock.Close()
	resp := testutil.NewPageResponse(testutil.PageBody(1))
	resp.Delay = 500 * time.Millisecond
	mock.SetPage(1, resp)

	c, err := New(Config{UserAgent: "TestApp/1.0.0", Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.Get(context.Background(), mock.URL())

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.ErrorClass != ErrorClassNetwork {
		t.Fatalf("expected network APIError on timeout, got %v", err)
	}
}

func TestGet_ContextCancelled(t *testing.T) {
	mock := testutil.NewMockESPN()
	defer mock.Close()
	mock.SetPages(testutil.PageBody(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t).Get(ctx, mock.URL())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFetchPage(t *testing.T) {
	mock := testutil.NewMockESPN()
	defer mock.Close()
	mock.SetPages(
		testutil.PageBody(2, testutil.AthleteJSON("1", "A", "One")),
		testutil.PageBody(2, testutil.AthleteJSON("2", "B", "Two"), testutil.AthleteJSON("3", "C", "Three")),
	)

	c := newTestClient(t)
	ctx := context.Background()

	discovery, err := c.FetchPage(ctx, mock.URL(), 0)
	if err != nil {
		t.Fatalf("FetchPage(0): %v", err)
	}
	if discovery.Number != 1 || discovery.TotalPages != 2 || len(discovery.Athletes) != 1 {
		t.Errorf("discovery page = %+v", discovery)
	}
	if mock.GetPageRequestCount("") != 1 {
		t.Errorf("discovery should not send a page parameter")
	}

	second, err := c.FetchPage(ctx, mock.URL(), 2)
	if err != nil {
		t.Fatalf("FetchPage(2): %v", err)
	}
	if second.Number != 2 || len(second.Athletes) != 2 {
		t.Errorf("page 2 = %+v", second)
	}
	if mock.GetPageRequestCount("2") != 1 {
		t.Errorf("page=2 requests = %d, want 1", mock.GetPageRequestCount("2"))
	}
}

func TestFetchPage_NotAnObject(t *testing.T) {
	mock := testutil.NewMockESPN()
	defer mock.Close()
	mock.SetPages(`["not", "an", "object"]`)

	_, err := newTestClient(t).FetchPage(context.Background(), mock.URL(), 1)
	if !errors.Is(err, athletes.ErrUnexpectedPayload) {
		t.Errorf("expected ErrUnexpectedPayload, got %v", err)
	}
}

func TestPageURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		page int
		want string
	}{
		{
			name: "existing query",
			base: "https://site.web.api.espn.com/apis/stats/byathlete?limit=50",
			page: 3,
			want: "https://site.web.api.espn.com/apis/stats/byathlete?limit=50&page=3",
		},
		{
			name: "no query",
			base: "https://api.test/stats",
			page: 1,
			want: "https://api.test/stats?page=1",
		},
		{
			name: "page replaced",
			base: "https://api.test/stats?limit=50&page=9",
			page: 2,
			want: "https://api.test/stats?limit=50&page=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PageURL(tt.base, tt.page)
			if err != nil {
				t.Fatalf("PageURL: %v", err)
			}
			if got != tt.want {
				t.Errorf("PageURL() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := PageURL("://bad", 1); err == nil {
		t.Error("expected error for invalid base URL")
	}
}
