package editor

import "posterdesk/internal/domain"

// ─────────────────────────────────────────────────────────────
// TextBox store: CRUD and style mutation of boxes
// ─────────────────────────────────────────────────────────────

func (e *Editor) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range e.boxes {
		if e.boxes[i].ID == id {
			return i
		}
	}
	return -1
}

// TextBox returns a copy of the box with id.
func (e *Editor) TextBox(id string) (domain.TextBox, bool) {
	i := e.index(id)
	if i < 0 {
		return domain.TextBox{}, false
	}
	return e.boxes[i], true
}

// TextBoxes returns a copy of all boxes in paint order.
func (e *Editor) TextBoxes() []domain.TextBox {
	out := make([]domain.TextBox, len(e.boxes))
	copy(out, e.boxes)
	return out
}

// AddTextBox creates a box with default content, size and style whose
// top-left corner is at anchor (page-space), clamped into the page.
// The new box becomes the selection.
func (e *Editor) AddTextBox(anchor domain.Point) string {
	b := domain.TextBox{
		ID:       e.newID(),
		Content:  domain.DefaultTextBoxText,
		Position: anchor,
		Size:     domain.Size{Width: domain.DefaultTextBoxWidth, Height: domain.DefaultTextBoxHeight},
		Style:    domain.DefaultStyle(),
	}
	b = fitBox(b, e.page)
	e.boxes = append(e.boxes, b)
	e.selected = b.ID
	e.changed(OpAdd, b.ID, true)
	return b.ID
}

// AddTextBoxAtView adds a box anchored at a view-space point, as delivered
// by a context-menu click on the canvas.
func (e *Editor) AddTextBoxAtView(view domain.Point) string {
	return e.AddTextBox(e.ViewToModel(view))
}

// UpdateContent replaces the content of a box verbatim.
func (e *Editor) UpdateContent(id, text string) bool {
	i := e.index(id)
	if i < 0 {
		return false
	}
	e.boxes[i].Content = text
	e.changed(OpContent, id, true)
	return true
}

// UpdateStyle replaces one style field. Values of the wrong type or
// outside a field's enumeration are ignored. No cross-field rules apply.
func (e *Editor) UpdateStyle(id string, field domain.StyleField, value any) bool {
	i := e.index(id)
	if i < 0 {
		return false
	}
	st, ok := applyStyle(e.boxes[i].Style, field, value)
	if !ok {
		return false
	}
	e.boxes[i].Style = st
	e.changed(OpStyle, id, true)
	return true
}

func applyStyle(st domain.Style, field domain.StyleField, value any) (domain.Style, bool) {
	switch field {
	case domain.StyleFontSize:
		v, ok := toFloat(value)
		if !ok {
			return st, false
		}
		if v < 1 {
			v = 1
		}
		st.FontSize = v
	case domain.StyleBorderWidth:
		v, ok := toFloat(value)
		if !ok {
			return st, false
		}
		if v < 0 {
			v = 0
		}
		st.BorderWidth = v
	case domain.StyleFontFamily:
		v, ok := value.(string)
		if !ok || v == "" {
			return st, false
		}
		st.FontFamily = v
	case domain.StyleFontWeight:
		switch v := domain.FontWeight(toString(value)); v {
		case domain.FontWeightNormal, domain.FontWeightBold:
			st.FontWeight = v
		default:
			return st, false
		}
	case domain.StyleFontStyle:
		switch v := domain.FontStyle(toString(value)); v {
		case domain.FontStyleNormal, domain.FontStyleItalic:
			st.FontStyle = v
		default:
			return st, false
		}
	case domain.StyleTextDecoration:
		switch v := domain.TextDecoration(toString(value)); v {
		case domain.TextDecorationNone, domain.TextDecorationUnderline:
			st.TextDecoration = v
		default:
			return st, false
		}
	case domain.StyleTextAlign:
		v := domain.TextAlign(toString(value))
		if !v.Valid() {
			return st, false
		}
		st.TextAlign = v
	case domain.StyleBorderStyle:
		switch v := domain.BorderStyle(toString(value)); v {
		case domain.BorderStyleNone, domain.BorderStyleSolid:
			st.BorderStyle = v
		default:
			return st, false
		}
	default:
		return st, false
	}
	return st, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

// toString accepts plain strings and the typed style enums.
func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case domain.FontWeight:
		return string(s)
	case domain.FontStyle:
		return string(s)
	case domain.TextDecoration:
		return string(s)
	case domain.TextAlign:
		return string(s)
	case domain.BorderStyle:
		return string(s)
	}
	return ""
}

func isLineBreak(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}

// RemoveLineBreaksInSelection replaces every line-break rune inside the
// rune range [start, end) of the box content with a single space. The
// content length does not change, so the caller's selection stays valid.
func (e *Editor) RemoveLineBreaksInSelection(id string, start, end int) bool {
	i := e.index(id)
	if i < 0 {
		return false
	}
	runes := []rune(e.boxes[i].Content)
	if start > end {
		start, end = end, start
	}
	start = max(0, min(start, len(runes)))
	end = max(0, min(end, len(runes)))

	changed := false
	for j := start; j < end; j++ {
		if isLineBreak(runes[j]) {
			runes[j] = ' '
			changed = true
		}
	}
	if !changed {
		return false
	}
	e.boxes[i].Content = string(runes)
	e.changed(OpLineBreaks, id, true)
	return true
}

// DeleteTextBox removes a box. A selection or gesture on it ends.
func (e *Editor) DeleteTextBox(id string) bool {
	i := e.index(id)
	if i < 0 {
		return false
	}
	e.boxes = append(e.boxes[:i], e.boxes[i+1:]...)
	if e.selected == id {
		e.selected = ""
	}
	if sessionBox(e.session) == id {
		e.endSession()
	}
	e.changed(OpDelete, id, true)
	return true
}

// Select makes id the selection. An empty or unknown id clears it.
func (e *Editor) Select(id string) {
	if e.index(id) < 0 {
		id = ""
	}
	if e.selected == id {
		return
	}
	e.selected = id
	e.changed(OpSelect, id, false)
}

// MoveTo places a box at a page-space position, clamped into the page.
// This is the programmatic equivalent of a completed drag.
func (e *Editor) MoveTo(id string, pos domain.Point) bool {
	i := e.index(id)
	if i < 0 {
		return false
	}
	b := e.boxes[i]
	b.Position = pos
	e.boxes[i] = fitBox(b, e.page)
	e.changed(OpMove, id, true)
	return true
}

func sessionBox(s domain.InteractionSession) string {
	switch v := s.(type) {
	case domain.Dragging:
		return v.BoxID
	case domain.Resizing:
		return v.BoxID
	}
	return ""
}
