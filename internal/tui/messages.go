package tui

import (
	"github.com/Veraticus/lifeos/internal/engine"
)

// viewMsg carries a new engine view.
type viewMsg struct {
	view engine.View
}

// viewsClosedMsg is sent when the engine stops publishing.
type viewsClosedMsg struct{}

// writeDoneMsg reports a storage write that ran outside the update loop.
type writeDoneMsg struct {
	err    error
	status status
}

// statusKind selects the style of the status line.
type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)

// status is the one-line feedback shown above the help footer.
type status struct {
	text string
	kind statusKind
}
