// Package importer reads the HTML list exported by Pocket and replays it
// against the API as batched actions.
package importer

import "regexp"

var (
	// The exporter writes attributes in this exact order and quoting.
	itemRE = regexp.MustCompile(`(?im)<a href="([^"]+)" time_added="(\d+)" tags="([^"]*)">`)
	listRE = regexp.MustCompile(`(?im)<ul>([\s\S]+?)</ul>`)
)

// Entry is one exported bookmark.
type Entry struct {
	URL string
	// TimeAdded is decimal epoch seconds, kept as text.
	TimeAdded string
	// Tags is comma separated and may be empty.
	Tags string
}

// ParseList returns the entries of an exported list fragment in document
// order. Anchors that do not match the export shape are skipped.
func ParseList(fragment string) []Entry {
	matches := itemRE.FindAllStringSubmatch(fragment, -1)
	out := make([]Entry, 0, len(matches))
	for _, m := range matches {
		out = append(out, Entry{URL: m[1], TimeAdded: m[2], Tags: m[3]})
	}
	return out
}

// FindLists returns the inner content of every <ul> block in doc.
func FindLists(doc string) []string {
	matches := listRE.FindAllStringSubmatch(doc, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}
