package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
	"github.com/MrSnakeDoc/letterplace/internal/synchronizer"
)

const shortID = 8

// resolveRef finds the entry a user refers to by 1-based position, full ID
// or unique ID prefix.
func resolveRef(v synchronizer.View, ref string) (domain.Entry, error) {
	entries := v.Entries()

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(entries) {
			return domain.Entry{}, fmt.Errorf("position %d out of range (1-%d)", n, len(entries))
		}
		return entries[n-1], nil
	}

	var match []domain.Entry
	for _, e := range entries {
		if e.ID == ref {
			return e, nil
		}
		if strings.HasPrefix(e.ID, ref) {
			match = append(match, e)
		}
	}

	switch len(match) {
	case 0:
		return domain.Entry{}, fmt.Errorf("%w: %s", synchronizer.ErrUnknownEntry, ref)
	case 1:
		return match[0], nil
	default:
		return domain.Entry{}, fmt.Errorf("ambiguous id prefix %q matches %d entries", ref, len(match))
	}
}

func short(id string) string {
	if len(id) > shortID {
		return id[:shortID]
	}
	return id
}

func label(e domain.Entry) string {
	if e.Title != nil {
		return *e.Title
	}
	return e.URL
}

// printView writes the view as a table, placeholders first.
func printView(w io.Writer, v synchronizer.View) error {
	if flagJSON {
		return printJSON(w, viewJSON(v))
	}

	if v.Filter != "" {
		fmt.Fprintf(w, "Group: %s\n", v.Filter)
	}

	if len(v.Items) == 0 {
		fmt.Fprintln(w, "No entries.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tGROUP\tTITLE\tURL")

	pos := 0
	for _, it := range v.Items {
		switch it := it.(type) {
		case synchronizer.Pending:
			fmt.Fprintf(tw, "…\t-\t%s\t(loading)\t%s\n", it.Entry.Group, it.Entry.URL)
		case synchronizer.Persisted:
			pos++
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", pos, short(it.Entry.ID), it.Entry.Group, label(it.Entry), it.Entry.URL)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if v.Err != nil {
		fmt.Fprintf(w, "⚠️  %v\n", v.Err)
	}
	return nil
}

// printEntry writes one entry with all its fields.
func printEntry(w io.Writer, e domain.Entry) error {
	if flagJSON {
		return printJSON(w, e)
	}
	fmt.Fprintf(w, "ID:          %s\n", e.ID)
	fmt.Fprintf(w, "URL:         %s\n", e.URL)
	fmt.Fprintf(w, "Title:       %s\n", domain.StringOrEmpty(e.Title))
	fmt.Fprintf(w, "Description: %s\n", domain.StringOrEmpty(e.Description))
	fmt.Fprintf(w, "Image:       %s\n", domain.StringOrEmpty(e.Image))
	fmt.Fprintf(w, "Group:       %s\n", e.Group)
	fmt.Fprintf(w, "Index:       %d\n", e.Index)
	fmt.Fprintf(w, "Created:     %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"))
	return nil
}

type jsonItem struct {
	Pending bool `json:"pending"`
	*domain.Entry
	PendingEntry *domain.PendingEntry `json:"placeholder,omitempty"`
}

type jsonView struct {
	State  string     `json:"state"`
	Filter string     `json:"filter,omitempty"`
	Items  []jsonItem `json:"items"`
	Error  string     `json:"error,omitempty"`
}

func viewJSON(v synchronizer.View) jsonView {
	out := jsonView{State: v.State.String(), Filter: v.Filter, Items: make([]jsonItem, 0, len(v.Items))}
	for _, it := range v.Items {
		switch it := it.(type) {
		case synchronizer.Pending:
			p := it.Entry
			out.Items = append(out.Items, jsonItem{Pending: true, PendingEntry: &p})
		case synchronizer.Persisted:
			e := it.Entry
			out.Items = append(out.Items, jsonItem{Entry: &e})
		}
	}
	if v.Err != nil {
		out.Error = v.Err.Error()
	}
	return out
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
