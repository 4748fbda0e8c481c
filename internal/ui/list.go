package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/musik/internal/webclient"
)

var _ list.Item = recordItem{}

// recordItem wraps a [webclient.Record] to implement [list.Item].
//
// field is the record's display field; detail, when set, is shown beneath it.
type recordItem struct {
	record webclient.Record
	field  string
	detail string
}

func (i recordItem) FilterValue() string { return i.record.Field(i.field) }
func (i recordItem) Title() string       { return i.record.Field(i.field) }
func (i recordItem) Description() string {
	desc := fmt.Sprintf("#%s", i.record.Field("id"))
	if i.detail == "" {
		return desc
	}
	if v := i.record.Field(i.detail); v != "" {
		desc = fmt.Sprintf("%s • %s", desc, v)
	}
	return desc
}

func recordItems(records webclient.Records, field, detail string) []list.Item {
	items := make([]list.Item, len(records))
	for i, rec := range records {
		items[i] = recordItem{record: rec, field: field, detail: detail}
	}
	return items
}
