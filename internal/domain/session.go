package domain

import "strings"

// Handle is one of the eight resize attachment points of a selected box.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// Handles lists every resize handle.
var Handles = []Handle{HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW}

// Valid reports whether h names one of the eight handles.
func (h Handle) Valid() bool {
	for _, v := range Handles {
		if h == v {
			return true
		}
	}
	return false
}

func (h Handle) HasN() bool { return strings.Contains(string(h), "n") }
func (h Handle) HasS() bool { return strings.Contains(string(h), "s") }
func (h Handle) HasE() bool { return strings.Contains(string(h), "e") }
func (h Handle) HasW() bool { return strings.Contains(string(h), "w") }

// InteractionSession is the state of the pointer gesture in progress.
// The only implementations are Idle, Dragging and Resizing.
type InteractionSession interface {
	sessionKind() string
}

// Idle means no gesture is active.
type Idle struct{}

// Dragging moves BoxID. PointerOffset is the pointer's view-space offset
// from the box's top-left corner at pointer-down.
type Dragging struct {
	BoxID         string
	PointerOffset Point
}

// Resizing resizes BoxID from Handle. StartPointer is view-space;
// StartSize and StartPosition are page-space.
type Resizing struct {
	BoxID         string
	Handle        Handle
	StartPointer  Point
	StartSize     Size
	StartPosition Point
}

func (Idle) sessionKind() string     { return "idle" }
func (Dragging) sessionKind() string { return "dragging" }
func (Resizing) sessionKind() string { return "resizing" }

// SessionKind returns "idle", "dragging" or "resizing".
func SessionKind(s InteractionSession) string {
	if s == nil {
		return "idle"
	}
	return s.sessionKind()
}
