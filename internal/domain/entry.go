package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidEntry is returned when a document fails schema validation at the
// store boundary.
var ErrInvalidEntry = errors.New("invalid entry")

// MetadataRecord is the best-effort description of a page produced by the
// extractor. Absent fields are nil and serialize as JSON null.
type MetadataRecord struct {
	URL         string  `json:"url"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

// Entry represents one persisted link of the reading list.
type Entry struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned by the store on creation and used as the reorder key.
	ID string `json:"id"`

	// ─────────────────────────────
	// Page metadata
	// (copied from a MetadataRecord once, never recomputed)
	// ─────────────────────────────

	URL         string  `json:"url"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`

	// ─────────────────────────────
	// Ordering & grouping
	// ─────────────────────────────

	// Index is the explicit rank. Views sort by it descending, so the
	// highest index is shown first.
	Index int `json:"index"`

	// Group is the presentation category label.
	Group string `json:"group"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is set once at creation.
	CreatedAt time.Time `json:"createdAt"`
}

// NewEntry builds an entry from an extraction result. The ID is left empty
// for the store to assign.
func NewEntry(rec MetadataRecord, index int, group string, now time.Time) Entry {
	return Entry{
		URL:         rec.URL,
		Title:       rec.Title,
		Description: rec.Description,
		Image:       rec.Image,
		Index:       index,
		Group:       group,
		CreatedAt:   now,
	}
}

// Validate checks the fields every stored entry must carry. It runs before
// every insert and on every document read back from a store.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.URL) == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidEntry)
	}
	if err := ValidateGroup(e.Group); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if e.Index < 0 {
		return fmt.Errorf("%w: negative index %d", ErrInvalidEntry, e.Index)
	}
	if e.CreatedAt.IsZero() {
		return fmt.Errorf("%w: createdAt is required", ErrInvalidEntry)
	}
	return nil
}

// PendingEntry is a client-local placeholder shown while an add is in flight.
// It is never persisted.
type PendingEntry struct {
	LocalID   string    `json:"localId"`
	URL       string    `json:"url"`
	Group     string    `json:"group"`
	StartedAt time.Time `json:"startedAt"`
}

// StringOrEmpty dereferences an optional field for display.
func StringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to s, or nil when s is blank.
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
