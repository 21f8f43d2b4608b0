package redis

import (
	"fmt"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
	"github.com/MrSnakeDoc/letterplace/internal/store"
)

// Hash field names. Absent optional fields are not written at all.
const (
	fieldURL         = "url"
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldImage       = "image"
	fieldIndex       = "index"
	fieldGroup       = "group"
	fieldCreatedAt   = "createdAt"
)

func encodeEntry(e domain.Entry) []interface{} {
	values := []interface{}{
		fieldURL, e.URL,
		fieldIndex, strconv.Itoa(e.Index),
		fieldGroup, e.Group,
		fieldCreatedAt, e.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if e.Title != nil {
		values = append(values, fieldTitle, *e.Title)
	}
	if e.Description != nil {
		values = append(values, fieldDescription, *e.Description)
	}
	if e.Image != nil {
		values = append(values, fieldImage, *e.Image)
	}
	return values
}

func encodePatch(p store.Patch) []interface{} {
	values := make([]interface{}, 0, 4)
	if p.Index != nil {
		values = append(values, fieldIndex, strconv.Itoa(*p.Index))
	}
	if p.Group != nil {
		values = append(values, fieldGroup, *p.Group)
	}
	return values
}

func decodeEntry(id string, fields map[string]string) (domain.Entry, error) {
	e := domain.Entry{
		ID:    id,
		URL:   fields[fieldURL],
		Group: fields[fieldGroup],
	}

	if raw, ok := fields[fieldIndex]; ok {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Entry{}, fmt.Errorf("%w: bad index %q", domain.ErrInvalidEntry, raw)
		}
		e.Index = idx
	}

	if raw, ok := fields[fieldCreatedAt]; ok {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return domain.Entry{}, fmt.Errorf("%w: bad createdAt %q", domain.ErrInvalidEntry, raw)
		}
		e.CreatedAt = ts
	}

	e.Title = optional(fields, fieldTitle)
	e.Description = optional(fields, fieldDescription)
	e.Image = optional(fields, fieldImage)

	if err := e.Validate(); err != nil {
		return domain.Entry{}, err
	}
	return e, nil
}

func optional(fields map[string]string, key string) *string {
	v, ok := fields[key]
	if !ok || v == "" {
		return nil
	}
	return &v
}
