package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/musik/internal/webclient"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgRecordsFetched MsgKind = iota
)

type recordsFetched struct {
	view    ViewState
	records webclient.Records
	err     error
}

// recordsFetchedMsg is the constructor for [MsgRecordsFetched]
func recordsFetchedMsg(view ViewState, records webclient.Records, err error) Msg {
	return Msg{kind: MsgRecordsFetched, data: recordsFetched{view: view, records: records, err: err}}
}
