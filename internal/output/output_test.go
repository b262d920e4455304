package output

import (
	"bytes"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"gotest.tools/v3/golden"

	"github.com/vburojevic/pocket-importer/internal/pocket"
)

func sampleItems() []pocket.Item {
	return []pocket.Item{
		{
			ItemID:     1,
			GivenURL:   "https://a.example",
			GivenTitle: "A",
			TimeAdded:  1400000000,
			Tags:       map[string]pocket.Tag{"read": {Tag: "read"}, "go": {Tag: "go"}},
		},
		{
			ItemID:        2,
			GivenURL:      "https://b.example",
			ResolvedURL:   "https://b.example/x",
			ResolvedTitle: "B\nline",
			Favorite:      true,
			Status:        1,
		},
	}
}

func TestPrintItemsGolden(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatNDJSON, FormatPlain} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			assert.NilError(t, PrintItems(&buf, format, sampleItems()))
			golden.Assert(t, buf.String(), "items."+format+".golden")
		})
	}
}

func TestPrintItemsTable(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, PrintItems(&buf, FormatTable, sampleItems()))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Assert(t, is.Len(lines, 3))
	assert.Check(t, is.Contains(lines[0], "ID"))
	assert.Check(t, is.Contains(lines[0], "URL"))
	assert.Check(t, is.Contains(lines[2], "*"))
	assert.Check(t, is.Contains(lines[2], "B line"))
}

func TestPrintItemsEmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, PrintItems(&buf, FormatJSON, nil))
	assert.Check(t, is.Equal(buf.String(), "[]\n"))
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"table", "PLAIN", "json", "ndjson"} {
		assert.Check(t, ValidateFormat(f))
	}
	assert.Check(t, is.ErrorContains(ValidateFormat("xml"), "invalid --format"))
}

func TestTruncateOneLine(t *testing.T) {
	assert.Check(t, is.Equal(truncateOneLine("abcdef", 4), "abc..."))
	assert.Check(t, is.Equal(truncateOneLine(" a\nb ", 10), "a b"))
}
