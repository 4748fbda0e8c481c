package formatter

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/desertthunder/musik/internal/shared"
	th "github.com/desertthunder/musik/internal/testing"
	"github.com/desertthunder/musik/internal/webclient"
)

func mustDecode(t *testing.T, body string) webclient.Records {
	t.Helper()
	records, err := webclient.DecodeRecords([]byte(body))
	if err != nil {
		t.Fatalf("failed to decode %s: %v", body, err)
	}
	return records
}

const artistsBody = `[
	{"id":1,"name":"Boards of Canada","name_sort":"Boards of Canada","musicbrainz_artistid":null},
	{"id":2,"name":"Broadcast, The","name_sort":"Broadcast","musicbrainz_artistid":"abc"}
]`

func TestExporters(t *testing.T) {
	records := mustDecode(t, artistsBody)

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(records, Columns["artists"])
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		want := "id,name,name_sort,musicbrainz_artistid\n" +
			"1,Boards of Canada,Boards of Canada,\n" +
			"2,\"Broadcast, The\",Broadcast,abc\n"
		if diff := cmp.Diff(want, string(data)); diff != "" {
			t.Errorf("CSV mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown("Artists", records, "name")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{"# Artists\n", "**Count**: 2", "1. Boards of Canada (#1)", "2. Broadcast, The (#2)"} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(records, "name")
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		if diff := cmp.Diff("1. Boards of Canada\n2. Broadcast, The\n", string(data)); diff != "" {
			t.Errorf("text mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		t.Run("round trips fields", func(t *testing.T) {
			data, err := ExportToJSON(records, false)
			if err != nil {
				t.Fatalf("ExportToJSON failed: %v", err)
			}

			again := mustDecode(t, string(data))
			if len(again) != 2 || again[1].Field("musicbrainz_artistid") != "abc" {
				t.Errorf("unexpected re-decoded records %v", again)
			}
		})

		t.Run("nil records encode as an empty array", func(t *testing.T) {
			data, err := ExportToJSON(nil, false)
			if err != nil {
				t.Fatalf("ExportToJSON failed: %v", err)
			}
			if string(data) != "[]\n" {
				t.Errorf("expected empty array, got %q", data)
			}
		})
	})
}

func TestExport(t *testing.T) {
	records := mustDecode(t, artistsBody)

	t.Run("Markdown title from kind", func(t *testing.T) {
		data, err := Export(Markdown, "artists", records)
		if err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		if !strings.HasPrefix(string(data), "# Artists\n") {
			t.Errorf("unexpected markdown %q", data)
		}
	})

	t.Run("Unknown kind uses every key", func(t *testing.T) {
		got := ColumnsFor("playlists", mustDecode(t, `[{"b":1,"a":2},{"c":3}]`))
		if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
			t.Errorf("columns mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Unknown format", func(t *testing.T) {
		if _, err := Export(Format("xml"), "artists", records); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", JSON},
		{"JSON", JSON},
		{"csv", CSV},
		{"md", Markdown},
		{"markdown", Markdown},
		{" txt ", Text},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.in, tt.want, got)
		}
	}

	if _, err := ParseFormat("yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestWriteExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artists.txt")

	if err := WriteExport(Text, "artists", mustDecode(t, artistsBody), path); err != nil {
		t.Fatalf("WriteExport failed: %v", err)
	}

	th.AssertFileExists(t, path)
	if got := th.MustReadFile(t, path); got != "1. Boards of Canada\n2. Broadcast, The\n" {
		t.Errorf("unexpected file content %q", got)
	}

	t.Run("unwritable path", func(t *testing.T) {
		err := WriteExport(Text, "artists", nil, filepath.Join(t.TempDir(), "missing", "out.txt"))
		if err == nil {
			t.Error("expected write error")
		}
	})
}
