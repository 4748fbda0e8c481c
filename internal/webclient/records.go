package webclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Record is one decoded JSON object from a listing endpoint.
type Record map[string]json.RawMessage

// Records is a collection in iteration order. Arrays keep their element order
// and objects keep their keys in document order.
type Records []Record

// Field returns the text of the named field.
//
// Strings are unquoted, null and missing fields are empty, and any other value
// is returned as its compact JSON text.
func (r Record) Field(name string) string {
	raw, ok := r[name]
	if !ok {
		return ""
	}

	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")):
		return ""
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return string(raw)
		}
		return s
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return string(raw)
		}
		return buf.String()
	}
}

// DecodeRecords decodes a listing body as an ordered (array) or keyed (object) collection.
//
// A JSON null decodes as an empty collection. Elements that are not objects decode
// as empty records. Any other top-level value is an error.
func DecodeRecords(body []byte) (Records, error) {
	dec := json.NewDecoder(bytes.NewReader(body))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to decode collection: %w", err)
	}

	records := Records{}
	switch tok {
	case json.Delim('['):
		for dec.More() {
			rec, err := decodeRecord(dec)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	case json.Delim('{'):
		for dec.More() {
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("failed to decode collection key: %w", err)
			}
			rec, err := decodeRecord(dec)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	case nil:
		return records, nil
	default:
		return nil, fmt.Errorf("failed to decode collection: unexpected %v", tok)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to decode collection: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("failed to decode collection: trailing data")
	}

	return records, nil
}

func decodeRecord(dec *json.Decoder) (Record, error) {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}

	if !strings.HasPrefix(string(bytes.TrimSpace(raw)), "{") {
		return Record{}, nil
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return rec, nil
}
