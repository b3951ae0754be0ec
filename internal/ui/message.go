package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/waxlog/internal/tasks"
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
	MsgSearchResults MsgKind = iota
	MsgSearchClosed
	MsgStatusChanged
	MsgError
)

// searchResultsMsg is the constructor for [MsgSearchResults]
func searchResultsMsg(result tasks.SearchResult) Msg {
	return Msg{kind: MsgSearchResults, data: result}
}

// searchClosedMsg is the constructor for [MsgSearchClosed]
func searchClosedMsg() Msg {
	return Msg{kind: MsgSearchClosed}
}

// statusChangedMsg is the constructor for [MsgStatusChanged]
func statusChangedMsg(result tasks.Result) Msg {
	return Msg{kind: MsgStatusChanged, data: result}
}

// errorMsg is the constructor for [MsgError]
func errorMsg(err error) Msg {
	return Msg{kind: MsgError, data: err}
}
