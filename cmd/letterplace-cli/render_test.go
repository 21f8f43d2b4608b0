package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
	"github.com/MrSnakeDoc/letterplace/internal/synchronizer"
)

func testView() synchronizer.View {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mk := func(id, title string, idx int) synchronizer.Item {
		return synchronizer.Persisted{Entry: domain.Entry{
			ID: id, URL: "https://example.org/" + id, Title: domain.StringPtr(title),
			Index: idx, Group: "default", CreatedAt: now,
		}}
	}
	return synchronizer.View{
		State: synchronizer.StatePopulated,
		Items: []synchronizer.Item{
			synchronizer.Pending{Entry: domain.PendingEntry{LocalID: "local", URL: "https://example.org/new", Group: "default"}},
			mk("abc123", "First", 3),
			mk("abd456", "Second", 2),
			mk("ffff00", "Third", 1),
		},
	}
}

func TestResolveRef(t *testing.T) {
	v := testView()

	tests := []struct {
		name    string
		ref     string
		wantID  string
		wantErr string
	}{
		{"position", "1", "abc123", ""},
		{"last position", "3", "ffff00", ""},
		{"position out of range", "4", "", "out of range"},
		{"zero position", "0", "", "out of range"},
		{"full id", "abd456", "abd456", ""},
		{"unique prefix", "ff", "ffff00", ""},
		{"ambiguous prefix", "ab", "", "ambiguous"},
		{"unknown", "zz", "", "unknown entry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := resolveRef(v, tt.ref)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, e.ID)
		})
	}
}

func TestPrintView(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printView(&buf, testView()))

	out := buf.String()
	assert.Contains(t, out, "(loading)")
	assert.Contains(t, out, "First")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[2], "1"))
	assert.True(t, strings.HasPrefix(lines[4], "3"))
}

func TestPrintViewEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printView(&buf, synchronizer.View{Filter: "work"}))
	assert.Equal(t, "Group: work\nNo entries.\n", buf.String())
}

func TestPrintViewJSON(t *testing.T) {
	flagJSON = true
	t.Cleanup(func() { flagJSON = false })

	var buf bytes.Buffer
	require.NoError(t, printView(&buf, testView()))
	out := buf.String()
	assert.Contains(t, out, `"state": "populated"`)
	assert.Contains(t, out, `"pending": true`)
	assert.Contains(t, out, `"id": "abc123"`)
}

func TestConfirmer(t *testing.T) {
	e := domain.Entry{ID: "x", URL: "https://example.org"}

	tests := []struct {
		in   string
		yes  bool
		want bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", false, false},
		{"\n", false, false},
		{"", false, false},
		{"", true, true},
	}
	for _, tt := range tests {
		flagYes = tt.yes
		cmd := rmCmd
		cmd.SetIn(strings.NewReader(tt.in))
		cmd.SetErr(&bytes.Buffer{})

		ok, err := confirmer(cmd).Confirm(context.Background(), e)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "input %q yes=%v", tt.in, tt.yes)
	}
	flagYes = false
}

func TestWatchHeader(t *testing.T) {
	assert.Equal(t, "Letterplace · all groups · client mode",
		watchHeader(synchronizer.View{}, synchronizer.ModeClient, ""))
	assert.Equal(t, "Letterplace · 📺 Watch · server mode (http://localhost:8080/api/crawl)",
		watchHeader(synchronizer.View{Filter: "📺 Watch"}, synchronizer.ModeServer, "http://localhost:8080/api/crawl"))
}
