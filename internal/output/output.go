package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vburojevic/pocket-importer/internal/pocket"
)

// Formats accepted by PrintItems.
const (
	FormatTable  = "table"
	FormatPlain  = "plain"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

func ValidateFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatTable, FormatPlain, FormatJSON, FormatNDJSON:
		return nil
	default:
		return fmt.Errorf("invalid --format %q (expected table, plain, json, or ndjson)", format)
	}
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type itemRow struct {
	ItemID    int64    `json:"item_id"`
	URL       string   `json:"url"`
	Title     string   `json:"title,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Favorite  bool     `json:"favorite"`
	Archived  bool     `json:"archived"`
	TimeAdded int64    `json:"time_added,omitempty"`
}

func rowFor(it pocket.Item) itemRow {
	r := itemRow{
		ItemID:    int64(it.ItemID),
		URL:       it.URL(),
		Title:     it.DisplayTitle(),
		Favorite:  bool(it.Favorite),
		Archived:  it.Status == 1,
		TimeAdded: int64(it.TimeAdded),
	}
	if tags := it.TagNames(); len(tags) > 0 {
		r.Tags = tags
	}
	return r
}

func PrintItems(w io.Writer, format string, items []pocket.Item) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		rows := make([]itemRow, 0, len(items))
		for _, it := range items {
			rows = append(rows, rowFor(it))
		}
		return WriteJSON(w, rows)
	case FormatNDJSON:
		enc := json.NewEncoder(w)
		for _, it := range items {
			if err := enc.Encode(rowFor(it)); err != nil {
				return err
			}
		}
		return nil
	case FormatPlain:
		for _, it := range items {
			r := rowFor(it)
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ItemID, oneLine(r.URL), oneLine(r.Title), strings.Join(r.Tags, ","))
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFAV\tTITLE\tURL\tTAGS")
	for _, it := range items {
		r := rowFor(it)
		fav := ""
		if r.Favorite {
			fav = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.ItemID, fav, truncateOneLine(r.Title, 50), truncateOneLine(r.URL, 60), strings.Join(r.Tags, ","))
	}
	return tw.Flush()
}

func truncateOneLine(s string, max int) string {
	s = oneLine(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "..."
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
