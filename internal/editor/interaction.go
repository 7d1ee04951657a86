package editor

import "posterdesk/internal/domain"

// HitTarget is what a pointer-down landed on. An empty BoxID means the
// empty canvas; a non-empty Handle means a resize handle of BoxID.
type HitTarget struct {
	BoxID  string        `json:"boxId"`
	Handle domain.Handle `json:"handle,omitempty"`
}

// PointerDown starts a gesture. It is ignored while another gesture is
// active, which only happens when the host drops a pointer-up.
func (e *Editor) PointerDown(target HitTarget, pointer domain.Point) {
	if domain.SessionKind(e.session) != "idle" {
		return
	}
	i := e.index(target.BoxID)
	if i < 0 {
		e.Select("")
		return
	}
	b := e.boxes[i]

	if target.Handle != "" {
		if !target.Handle.Valid() {
			return
		}
		// Handles are only rendered on the selected box.
		if e.selected != b.ID {
			e.Select(b.ID)
			return
		}
		e.session = domain.Resizing{
			BoxID:         b.ID,
			Handle:        target.Handle,
			StartPointer:  pointer,
			StartSize:     b.Size,
			StartPosition: b.Position,
		}
		e.moved = false
		return
	}

	e.Select(b.ID)
	e.session = domain.Dragging{
		BoxID:         b.ID,
		PointerOffset: pointer.Sub(e.ModelToView(b.Position)),
	}
	e.moved = false
}

// PointerMove advances the active gesture. Without one it does nothing.
func (e *Editor) PointerMove(pointer domain.Point) {
	switch s := e.session.(type) {
	case domain.Dragging:
		e.drag(s, pointer)
	case domain.Resizing:
		e.resize(s, pointer)
	}
}

func (e *Editor) drag(s domain.Dragging, pointer domain.Point) {
	i := e.index(s.BoxID)
	if i < 0 {
		e.endSession()
		return
	}
	b := &e.boxes[i]
	candidate := pointer.Sub(e.origin).Sub(s.PointerOffset).Div(e.Scale())
	pos := domain.Point{
		X: clamp(candidate.X, 0, e.page.WidthPx-b.Size.Width),
		Y: clamp(candidate.Y, 0, e.page.HeightPx-b.Size.Height),
	}
	if pos == b.Position {
		return
	}
	b.Position = pos
	e.moved = true
	e.changed(OpMove, b.ID, false)
}

func (e *Editor) resize(s domain.Resizing, pointer domain.Point) {
	i := e.index(s.BoxID)
	if i < 0 {
		e.endSession()
		return
	}
	b := &e.boxes[i]
	delta := pointer.Sub(s.StartPointer).Div(e.Scale())
	pos, size := resized(s.StartPosition, s.StartSize, s.Handle, delta, e.page)

	if pos == b.Position && size == b.Size {
		return
	}
	b.Position, b.Size = pos, size
	e.moved = true
	e.changed(OpResize, b.ID, false)
}

// resized applies a model-space handle delta to a box that started at
// pos/size. The edge opposite the handle stays fixed.
func resized(pos domain.Point, size domain.Size, h domain.Handle, delta domain.Point, page domain.PageSize) (domain.Point, domain.Size) {
	start, startPos := size, pos
	if h.HasE() {
		size.Width = clamp(start.Width+delta.X, domain.MinTextBoxWidth, page.WidthPx-pos.X)
	}
	if h.HasW() {
		applied := clamp(delta.X, 0, start.Width-domain.MinTextBoxWidth)
		size.Width = start.Width - applied
		pos.X = startPos.X + applied
	}
	if h.HasS() {
		size.Height = clamp(start.Height+delta.Y, domain.MinTextBoxHeight, page.HeightPx-pos.Y)
	}
	if h.HasN() {
		applied := clamp(delta.Y, 0, start.Height-domain.MinTextBoxHeight)
		size.Height = start.Height - applied
		pos.Y = startPos.Y + applied
	}
	return pos, size
}

// ResizeBy resizes box id as if handle h were dragged by delta model
// pixels, with the same clamping as a pointer gesture. It leaves the
// selection and any active gesture alone.
func (e *Editor) ResizeBy(id string, h domain.Handle, delta domain.Point) bool {
	i := e.index(id)
	if i < 0 || !h.Valid() {
		return false
	}
	b := &e.boxes[i]
	pos, size := resized(b.Position, b.Size, h, delta, e.page)
	if pos == b.Position && size == b.Size {
		return false
	}
	b.Position, b.Size = pos, size
	e.changed(OpResize, id, true)
	return true
}

// PointerUp ends the active gesture, keeping the geometry reached.
func (e *Editor) PointerUp() { e.finishGesture() }

// PointerLeave abandons the active gesture. The box keeps the geometry of
// the last processed move; nothing is rolled back.
func (e *Editor) PointerLeave() { e.finishGesture() }

func (e *Editor) finishGesture() {
	id := sessionBox(e.session)
	if id == "" {
		return
	}
	moved := e.moved
	e.endSession()
	if moved {
		e.changed(OpGestureEnd, id, true)
	}
}
