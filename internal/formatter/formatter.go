// package formatter renders catalog listings in various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/desertthunder/musik/internal/shared"
	"github.com/desertthunder/musik/internal/webclient"
)

// Format names an output format for listings.
type Format string

const (
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
)

// Formats lists every supported [Format].
var Formats = []Format{JSON, CSV, Markdown, Text}

// ParseFormat maps a flag value onto a [Format]. "md" and "txt" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "text", "txt":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, name)
	}
}

// Columns are the CSV columns written for each collection, in order.
var Columns = map[string][]string{
	"artists": {"id", "name", "name_sort", "musicbrainz_artistid"},
	"albums":  {"id", "title", "title_sort", "artist_id", "releasecountry", "compilation", "musicbrainz_albumid"},
	"tracks":  {"id", "tracknumber", "title", "artist_id", "album_id", "disc_id", "date", "genre", "length", "playcount", "uri"},
	"discs":   {"id", "album_id", "discnumber", "disc_subtitle", "musicbrainz_discid"},
}

// DisplayFields are the fields shown for each collection in Markdown and plain text.
var DisplayFields = map[string]string{
	"artists": "name",
	"albums":  "title",
	"tracks":  "title",
	"discs":   "discnumber",
}

// ColumnsFor returns the [Columns] of kind, or every key present in records, sorted, for unknown kinds.
func ColumnsFor(kind string, records webclient.Records) []string {
	if cols, ok := Columns[kind]; ok {
		return cols
	}

	seen := map[string]bool{}
	cols := []string{}
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

// ExportToCSV converts records to CSV with a header row of columns. Missing and null fields are empty cells.
func ExportToCSV(records webclient.Records, columns []string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = rec.Field(col)
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts records to a numbered Markdown list under a title heading.
func ExportToMarkdown(title string, records webclient.Records, field string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Count**: %d\n\n", len(records))

	for i, rec := range records {
		fmt.Fprintf(&buf, "%d. %s (#%s)\n", i+1, rec.Field(field), rec.Field("id"))
	}

	return buf.Bytes(), nil
}

// ExportToText converts records to one numbered line per record.
func ExportToText(records webclient.Records, field string) ([]byte, error) {
	var buf bytes.Buffer

	for i, rec := range records {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, rec.Field(field))
	}

	return buf.Bytes(), nil
}

// ExportToJSON re-encodes records as a JSON array.
func ExportToJSON(records webclient.Records, pretty bool) ([]byte, error) {
	if records == nil {
		records = webclient.Records{}
	}

	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Export renders a listing of kind in format.
func Export(format Format, kind string, records webclient.Records) ([]byte, error) {
	field := DisplayFields[kind]
	if field == "" {
		field = "id"
	}

	switch format {
	case JSON:
		return ExportToJSON(records, true)
	case CSV:
		return ExportToCSV(records, ColumnsFor(kind, records))
	case Markdown:
		title := kind
		if title != "" {
			title = strings.ToUpper(title[:1]) + title[1:]
		}
		return ExportToMarkdown(title, records, field)
	case Text:
		return ExportToText(records, field)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport renders a listing and writes it to path.
func WriteExport(format Format, kind string, records webclient.Records, path string) error {
	data, err := Export(format, kind, records)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s export: %w", format, err)
	}
	return nil
}
