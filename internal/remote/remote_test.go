package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSubmitSuccess(t *testing.T) {
	var got AddRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)

		title := "Example"
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(AddResponse{
			Success:   true,
			ID:        "abc",
			URL:       got.URL,
			Title:     &title,
			Index:     4,
			Group:     got.Group,
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	if c.Endpoint() != srv.URL {
		t.Errorf("Endpoint() = %q, want %q", c.Endpoint(), srv.URL)
	}

	e, err := c.Submit(context.Background(), "https://example.com", "📺 Watch")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got.URL != "https://example.com" || got.Group != "📺 Watch" {
		t.Errorf("request body = %+v", got)
	}
	if e.ID != "abc" || e.Index != 4 || e.Title == nil || *e.Title != "Example" {
		t.Errorf("Submit() entry = %+v", e)
	}
	if e.Description != nil || e.Image != nil {
		t.Errorf("absent fields should stay nil, got %+v", e)
	}
}

func TestSubmitRejected(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"success false", http.StatusOK, `{"success":false,"error":"boom"}`},
		{"bad gateway", http.StatusBadGateway, `{"success":false,"error":"fetch failed"}`},
		{"non json error", http.StatusInternalServerError, `oops`},
		{"malformed ok", http.StatusOK, `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, nil).Submit(context.Background(), "https://example.com", "")
			if !errors.Is(err, ErrAddRejected) {
				t.Errorf("Submit() error = %v, want ErrAddRejected", err)
			}
		})
	}
}

func TestSubmitUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, nil).Submit(context.Background(), "https://example.com", "")
	if err == nil {
		t.Fatal("Submit() should fail when endpoint is down")
	}
	if errors.Is(err, ErrAddRejected) {
		t.Error("transport failure should not be reported as a rejection")
	}
}
