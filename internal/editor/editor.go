// Package editor is the poster canvas editor core: the text-box store, the
// pointer interaction engine, the zoom controller and the format controller.
//
// An Editor is a plain state container. It has no locks and must be driven
// from one goroutine at a time; hosts that receive events concurrently
// serialize access themselves (see service.EditorService).
package editor

import (
	"github.com/google/uuid"

	"posterdesk/internal/domain"
)

// Op names the operation that produced a Change.
type Op string

const (
	OpAdd        Op = "add"
	OpContent    Op = "content"
	OpStyle      Op = "style"
	OpLineBreaks Op = "line-breaks"
	OpDelete     Op = "delete"
	OpSelect     Op = "select"
	OpReset      Op = "reset"
	OpPage       Op = "page"
	OpRestore    Op = "restore"
	OpMove       Op = "move"
	OpResize     Op = "resize"
	OpGestureEnd Op = "gesture-end"
	OpZoom       Op = "zoom"
)

// Change describes one mutation. Commit is true when the mutation changed
// persisted data (the snapshot) and is a complete step worth recording in
// history; in-flight drag and resize moves are not committed until the
// gesture ends.
type Change struct {
	Op     Op
	BoxID  string
	Commit bool
}

// Editor owns the text boxes of one page, the selection, the zoom level
// and the pointer session.
type Editor struct {
	page     domain.PageSize
	boxes    []domain.TextBox
	selected string
	zoom     int
	origin   domain.Point
	session  domain.InteractionSession
	moved    bool // geometry changed during the current gesture

	newID    func() string
	onChange func(Change)
}

type Option func(*Editor)

// WithIDGenerator replaces the UUID generator used for new boxes.
func WithIDGenerator(gen func() string) Option {
	return func(e *Editor) { e.newID = gen }
}

// WithOnChange registers a hook called after every mutation.
func WithOnChange(fn func(Change)) Option {
	return func(e *Editor) { e.onChange = fn }
}

// WithZoom sets the initial zoom percentage (clamped).
func WithZoom(percent int) Option {
	return func(e *Editor) { e.zoom = clampZoom(percent) }
}

// NewEditor creates an empty editor on page.
func NewEditor(page domain.PageSize, opts ...Option) *Editor {
	e := &Editor{
		page:    page,
		zoom:    DefaultZoomPercent,
		session: domain.Idle{},
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetOnChange replaces the change hook.
func (e *Editor) SetOnChange(fn func(Change)) { e.onChange = fn }

func (e *Editor) changed(op Op, boxID string, commit bool) {
	if e.onChange != nil {
		e.onChange(Change{Op: op, BoxID: boxID, Commit: commit})
	}
}

// Page returns the active page size.
func (e *Editor) Page() domain.PageSize { return e.page }

// SelectedID returns the selected box id, or "".
func (e *Editor) SelectedID() string { return e.selected }

// Session returns the active interaction session.
func (e *Editor) Session() domain.InteractionSession { return e.session }

// State returns a copy of the editor state.
func (e *Editor) State() domain.EditorState {
	boxes := make([]domain.TextBox, len(e.boxes))
	copy(boxes, e.boxes)
	return domain.EditorState{
		ActivePageKey: e.page.Key,
		TextBoxes:     boxes,
		SelectedID:    e.selected,
		ZoomPercent:   e.zoom,
	}
}

// Snapshot returns an immutable copy of the page and boxes.
func (e *Editor) Snapshot() domain.Snapshot {
	boxes := make([]domain.TextBox, len(e.boxes))
	copy(boxes, e.boxes)
	return domain.Snapshot{Page: e.page, TextBoxes: boxes}
}

// Reset removes every box and ends any gesture.
func (e *Editor) Reset() {
	e.boxes = nil
	e.selected = ""
	e.endSession()
	e.changed(OpReset, "", true)
}

// SetPageSize switches the active page and re-fits every box into it.
// A page that cannot hold a minimum-size box is ignored.
func (e *Editor) SetPageSize(p domain.PageSize) {
	if !p.FitsTextBox() {
		return
	}
	e.page = p
	for i := range e.boxes {
		e.boxes[i] = fitBox(e.boxes[i], p)
	}
	e.endSession()
	e.changed(OpPage, "", true)
}

// Restore replaces the scene with s. Boxes are re-fitted into the page,
// boxes without an id get one, and duplicate ids are dropped. A snapshot
// page too small for a minimum-size box keeps the current page.
func (e *Editor) Restore(s domain.Snapshot) {
	if s.Page.FitsTextBox() {
		e.page = s.Page
	}
	e.boxes = make([]domain.TextBox, 0, len(s.TextBoxes))
	seen := make(map[string]bool, len(s.TextBoxes))
	for _, b := range s.TextBoxes {
		if b.ID == "" {
			b.ID = e.newID()
		}
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		e.boxes = append(e.boxes, fitBox(b, e.page))
	}
	e.selected = ""
	e.endSession()
	e.changed(OpRestore, "", true)
}

func (e *Editor) endSession() {
	e.session = domain.Idle{}
	e.moved = false
}
