package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sternrassler/artic-selector/internal/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	if string(body) != "OK" {
		t.Errorf("Expected body 'OK', got %s", string(body))
	}
}

func TestReadyEndpoint(t *testing.T) {
	t.Run("ready_without_redis", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ready", nil)
		w := httptest.NewRecorder()

		readyHandler(nil)(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
	})

	t.Run("not_ready_redis_down", func(t *testing.T) {
		redisClient := redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 200 * time.Millisecond,
			MaxRetries:  -1,
		})
		defer redisClient.Close()

		req := httptest.NewRequest("GET", "/ready", nil)
		w := httptest.NewRecorder()

		readyHandler(redisClient)(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected status 503, got %d", w.Code)
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	server := httptest.NewServer(newMux(nil))
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "artic_selection_size") {
		t.Error("Expected artic_selection_size in metrics output")
	}
}

func TestPrintSelection(t *testing.T) {
	tests := []struct {
		name string
		ids  []int
		want string
	}{
		{"empty", nil, "No artworks selected\n"},
		{"some", []int{3, 17, 42}, "Selected 3 artworks: 3, 17, 42\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printSelection(&buf, tt.ids)
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestPageCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ARTIC_CONFIG", "")

	mock := testutil.NewMockCatalog(30)
	defer mock.Close()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"page", "2", "--first", "3", "--base-url", mock.URL(), "--log-level", "error"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{"Artwork 13", "Artwork 24", "Showing 13 to 24 of 30 entries", "Selected: 3", "N/A"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "[x]") != 3 {
		t.Errorf("expected 3 selected rows:\n%s", got)
	}
	if q := mock.GetLastQuery(); q["page"] != "2" || q["limit"] != "12" {
		t.Errorf("unexpected query %v", q)
	}
}

func TestPageCommandRejectsBadPage(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ARTIC_CONFIG", "")

	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"page", "two"})

	if err := root.Execute(); err == nil {
		t.Fatal("expected error for non-numeric page")
	}
}
