package webclient

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func fields(records Records, name string) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Field(name)
	}
	return out
}

func TestDecodeRecords(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{name: "Array", body: `[{"name":"A"},{"name":"B"}]`, want: []string{"A", "B"}},
		{name: "Empty Array", body: `[]`, want: []string{}},
		{name: "Object Keeps Document Order", body: `{"z":{"name":"Z"},"a":{"name":"A"},"m":{"name":"M"}}`, want: []string{"Z", "A", "M"}},
		{name: "Null", body: `null`, want: []string{}},
		{name: "Missing Field", body: `[{"title":"x"},{"name":"B"}]`, want: []string{"", "B"}},
		{name: "Non-Object Element", body: `[1, "two", {"name":"three"}]`, want: []string{"", "", "three"}},
		{name: "Scalar Field Values", body: `[{"name":7},{"name":true},{"name":null},{"name":{"a": 1}}]`, want: []string{"7", "true", "", `{"a":1}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := DecodeRecords([]byte(tt.body))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if diff := cmp.Diff(tt.want, fields(records, "name")); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("Invalid Bodies", func(t *testing.T) {
		for _, body := range []string{``, `42`, `"artists"`, `[{"name":"A"}`, `[] []`, `<html>`} {
			if _, err := DecodeRecords([]byte(body)); err == nil {
				t.Errorf("expected error decoding %q", body)
			}
		}
	})
}
