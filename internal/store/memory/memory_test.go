package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
	"github.com/MrSnakeDoc/letterplace/internal/store"
)

func newEntry(url string, index int, group string) domain.Entry {
	return domain.Entry{URL: url, Index: index, Group: group, CreatedAt: time.Now()}
}

func TestNew(t *testing.T) {
	s := New()
	if s == nil {
		t.Fatal("New() returned nil")
	}
	n, _ := s.Count(context.Background())
	if n != 0 {
		t.Errorf("New() should start empty, got %d entries", n)
	}
}

func TestInsertAssignsID(t *testing.T) {
	s := New()
	ctx := context.Background()

	a, err := s.Insert(ctx, newEntry("https://a.example", 1, domain.DefaultGroup))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	b, err := s.Insert(ctx, newEntry("https://b.example", 2, domain.DefaultGroup))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Errorf("Insert() IDs = %q, %q; want distinct non-empty", a.ID, b.ID)
	}
}

func TestInsertRejectsInvalid(t *testing.T) {
	s := New()
	_, err := s.Insert(context.Background(), domain.Entry{URL: "https://a.example"})
	if !errors.Is(err, domain.ErrInvalidEntry) {
		t.Errorf("Insert() error = %v, want ErrInvalidEntry", err)
	}
	if n, _ := s.Count(context.Background()); n != 0 {
		t.Errorf("invalid insert left %d entries behind", n)
	}
}

func TestQueryFilterAndOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i, g := range []string{"📺 Watch", "🌎 General", "📺 Watch", "🌎 General"} {
		if _, err := s.Insert(ctx, newEntry("https://example.com", i+1, g)); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	all, _ := s.Query(ctx, domain.Query{})
	if len(all) != 4 {
		t.Fatalf("Query() all = %d entries, want 4", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Index < all[i].Index {
			t.Errorf("Query() not in descending index order: %d before %d", all[i-1].Index, all[i].Index)
		}
	}

	watch, _ := s.Query(ctx, domain.Query{Group: "📺 Watch"})
	if len(watch) != 2 {
		t.Fatalf("Query(watch) = %d entries, want 2", len(watch))
	}
	if watch[0].Index != 3 || watch[1].Index != 1 {
		t.Errorf("Query(watch) indices = %d,%d want 3,1", watch[0].Index, watch[1].Index)
	}
}

func TestMergeTouchesOnlyPatchedFields(t *testing.T) {
	s := New()
	ctx := context.Background()

	e, _ := s.Insert(ctx, newEntry("https://a.example", 1, domain.DefaultGroup))

	if err := s.Merge(ctx, e.ID, store.IndexPatch(9)); err != nil {
		t.Fatalf("Merge(index) error = %v", err)
	}
	if err := s.Merge(ctx, e.ID, store.GroupPatch("🧪 Learn")); err != nil {
		t.Fatalf("Merge(group) error = %v", err)
	}

	got, _ := s.Get(ctx, e.ID)
	if got.Index != 9 || got.Group != "🧪 Learn" {
		t.Errorf("after merges got index=%d group=%q", got.Index, got.Group)
	}
	if got.URL != e.URL || !got.CreatedAt.Equal(e.CreatedAt) {
		t.Errorf("Merge() changed untouched fields: %+v", got)
	}
}

func TestMergeMissing(t *testing.T) {
	s := New()
	err := s.Merge(context.Background(), "nope", store.IndexPatch(1))
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Merge() on missing entry = %v, want ErrNotFound", err)
	}
}

func TestDeleteIsUnconditional(t *testing.T) {
	s := New()
	ctx := context.Background()

	e, _ := s.Insert(ctx, newEntry("https://a.example", 1, domain.DefaultGroup))
	if err := s.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, e.ID); err != nil {
		t.Errorf("second Delete() error = %v, want nil", err)
	}
	if _, err := s.Get(ctx, e.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() after delete = %v", err)
	}
}

func TestSubscribeNotifies(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := s.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if _, err := s.Insert(ctx, newEntry("https://a.example", 1, domain.DefaultGroup)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	select {
	case <-sub.C():
	case <-time.After(time.Second):
		t.Fatal("no notification after insert")
	}

	_ = sub.Close()
	_, _ = s.Insert(ctx, newEntry("https://b.example", 2, domain.DefaultGroup))

	select {
	case <-sub.C():
		t.Error("closed subscription still notified")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	ctx := context.Background()

	e, _ := s.Insert(ctx, newEntry("https://a.example", 1, domain.DefaultGroup))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Query(ctx, domain.Query{})
		}()
		go func(i int) {
			defer wg.Done()
			_ = s.Merge(ctx, e.ID, store.IndexPatch(i))
		}(i)
	}
	wg.Wait()

	if n, _ := s.Count(ctx); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}
