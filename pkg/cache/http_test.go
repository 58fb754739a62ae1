package cache

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFromResponse(t *testing.T) {
	lastMod := time.Now().Add(-1 * time.Hour).UTC().Truncate(time.Second)

	tests := []struct {
		name    string
		resp    *http.Response
		wantErr bool
	}{
		{
			name: "response with validators",
			resp: &http.Response{
				StatusCode: 200,
				Header: http.Header{
					"Last-Modified": []string{lastMod.Format(http.TimeFormat)},
					"Etag":          []string{`"abc123"`},
					"Content-Type":  []string{"application/json"},
				},
				Body: io.NopCloser(bytes.NewReader([]byte(`{"data": []}`))),
			},
		},
		{
			name: "response without validators",
			resp: &http.Response{
				StatusCode: 200,
				Header:     http.Header{},
				Body:       io.NopCloser(bytes.NewReader([]byte(`{"data": []}`))),
			},
		},
		{
			name:    "nil response",
			resp:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := FromResponse(tt.resp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			body, _ := io.ReadAll(tt.resp.Body)
			if string(body) != `{"data": []}` {
				t.Errorf("response body not restored, got %q", body)
			}
			if string(entry.Body) != `{"data": []}` {
				t.Errorf("entry body = %q", entry.Body)
			}
			if entry.ETag != tt.resp.Header.Get("ETag") {
				t.Errorf("ETag = %q, want %q", entry.ETag, tt.resp.Header.Get("ETag"))
			}
			if tt.resp.Header.Get("Last-Modified") != "" && !entry.LastModified.Equal(lastMod) {
				t.Errorf("LastModified = %v, want %v", entry.LastModified, lastMod)
			}
		})
	}
}

func TestApplyValidators(t *testing.T) {
	lastMod := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name            string
		entry           *Entry
		wantNoneMatch   string
		wantModifiedSin string
	}{
		{
			name:          "etag preferred",
			entry:         &Entry{ETag: `"v1"`, LastModified: lastMod},
			wantNoneMatch: `"v1"`,
		},
		{
			name:            "last-modified fallback",
			entry:           &Entry{LastModified: lastMod},
			wantModifiedSin: lastMod.Format(http.TimeFormat),
		},
		{
			name:  "nil entry",
			entry: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/artworks", nil)
			ApplyValidators(req, tt.entry)

			if got := req.Header.Get("If-None-Match"); got != tt.wantNoneMatch {
				t.Errorf("If-None-Match = %q, want %q", got, tt.wantNoneMatch)
			}
			if got := req.Header.Get("If-Modified-Since"); got != tt.wantModifiedSin {
				t.Errorf("If-Modified-Since = %q, want %q", got, tt.wantModifiedSin)
			}
		})
	}
}

func TestToResponse(t *testing.T) {
	entry := &Entry{
		Body:        []byte(`{"data": [], "pagination": {"total": 0}}`),
		ETag:        `"v2"`,
		ContentType: "application/json",
	}
	req := httptest.NewRequest(http.MethodGet, "/artworks?page=1", nil)

	resp := ToResponse(entry, req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("ETag") != `"v2"` {
		t.Errorf("ETag = %q", resp.Header.Get("ETag"))
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Equal(body, entry.Body) {
		t.Errorf("body = %q, want %q", body, entry.Body)
	}
	if resp.Request != req {
		t.Error("request not attached to response")
	}
}
