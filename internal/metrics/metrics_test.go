package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
)

func TestObserveRecord(t *testing.T) {
	beforeFound := testutil.ToFloat64(ExtractedFieldsTotal.WithLabelValues("title", "found"))
	beforeAbsent := testutil.ToFloat64(ExtractedFieldsTotal.WithLabelValues("image", "absent"))

	ObserveRecord(domain.MetadataRecord{URL: "https://example.com", Title: domain.StringPtr("x")})

	if got := testutil.ToFloat64(ExtractedFieldsTotal.WithLabelValues("title", "found")); got != beforeFound+1 {
		t.Errorf("title found = %v, want %v", got, beforeFound+1)
	}
	if got := testutil.ToFloat64(ExtractedFieldsTotal.WithLabelValues("image", "absent")); got != beforeAbsent+1 {
		t.Errorf("image absent = %v, want %v", got, beforeAbsent+1)
	}
}

func TestObserveWrite(t *testing.T) {
	ok := testutil.ToFloat64(StoreWritesTotal.WithLabelValues("merge", "ok"))
	failed := testutil.ToFloat64(StoreWritesTotal.WithLabelValues("merge", "error"))

	ObserveWrite("merge", nil)
	ObserveWrite("merge", errors.New("boom"))

	if got := testutil.ToFloat64(StoreWritesTotal.WithLabelValues("merge", "ok")); got != ok+1 {
		t.Errorf("ok = %v, want %v", got, ok+1)
	}
	if got := testutil.ToFloat64(StoreWritesTotal.WithLabelValues("merge", "error")); got != failed+1 {
		t.Errorf("error = %v, want %v", got, failed+1)
	}
}
