package domain

import (
	"errors"
	"testing"
	"time"
)

func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"https", "https://example.org", "https://example.org", false},
		{"http with path", "http://example.org/a?b=c", "http://example.org/a?b=c", false},
		{"trimmed", "  https://example.org/x \n", "https://example.org/x", false},
		{"empty", "", "", true},
		{"ftp", "ftp://example.org/file", "", true},
		{"no scheme", "example.org", "", true},
		{"mailto", "mailto:me@example.org", "", true},
		{"no host", "https://", "", true},
		{"garbage", "://bad", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateHTTPURL(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("ValidateHTTPURL(%q) error = %v, want ErrInvalidURL", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateHTTPURL(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ValidateHTTPURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEntryValidate(t *testing.T) {
	valid := Entry{
		URL:       "https://example.org",
		Index:     1,
		Group:     DefaultGroup,
		CreatedAt: time.Now(),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() on valid entry: %v", err)
	}

	broken := map[string]func(e *Entry){
		"missing url":     func(e *Entry) { e.URL = " " },
		"missing group":   func(e *Entry) { e.Group = "" },
		"negative index":  func(e *Entry) { e.Index = -1 },
		"zero created at": func(e *Entry) { e.CreatedAt = time.Time{} },
	}
	for name, mutate := range broken {
		t.Run(name, func(t *testing.T) {
			e := valid
			mutate(&e)
			if err := e.Validate(); !errors.Is(err, ErrInvalidEntry) {
				t.Errorf("Validate() = %v, want ErrInvalidEntry", err)
			}
		})
	}
}

func TestNewEntryCopiesRecord(t *testing.T) {
	title := "Example"
	rec := MetadataRecord{URL: "https://example.org", Title: &title}
	now := time.Now()

	e := NewEntry(rec, 4, "📺 Watch", now)

	if e.ID != "" {
		t.Errorf("NewEntry() should leave ID empty, got %q", e.ID)
	}
	if e.URL != rec.URL || StringOrEmpty(e.Title) != "Example" {
		t.Errorf("NewEntry() did not copy record fields: %+v", e)
	}
	if e.Description != nil || e.Image != nil {
		t.Errorf("NewEntry() should keep absent fields nil")
	}
	if e.Index != 4 || e.Group != "📺 Watch" || !e.CreatedAt.Equal(now) {
		t.Errorf("NewEntry() ordering fields wrong: %+v", e)
	}
}

func TestGroupOrDefault(t *testing.T) {
	if got := GroupOrDefault("📺 Watch", "x"); got != "📺 Watch" {
		t.Errorf("GroupOrDefault with filter = %q", got)
	}
	if got := GroupOrDefault("", "🧪 Learn"); got != "🧪 Learn" {
		t.Errorf("GroupOrDefault with default = %q", got)
	}
	if got := GroupOrDefault("", ""); got != DefaultGroup {
		t.Errorf("GroupOrDefault fallback = %q", got)
	}
}
