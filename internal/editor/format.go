package editor

import "posterdesk/internal/domain"

// SelectionSource exposes the text selection of the active editing surface
// as rune offsets. ok is false when no surface has focus.
type SelectionSource interface {
	Selection() (start, end int, ok bool)
}

// SelectionRange is a fixed selection, for hosts that receive the range
// with the command.
type SelectionRange struct {
	Start, End int
}

func (r SelectionRange) Selection() (int, int, bool) { return r.Start, r.End, true }

// Formatter is the toolbar command layer over UpdateStyle. Every command
// acts on the selected box and is a no-op without a selection.
type Formatter struct {
	e *Editor
}

// Format returns the formatter bound to e.
func (e *Editor) Format() Formatter { return Formatter{e: e} }

func (f Formatter) selected() (domain.TextBox, bool) {
	return f.e.TextBox(f.e.selected)
}

func (f Formatter) set(field domain.StyleField, value any) bool {
	if f.e.selected == "" {
		return false
	}
	return f.e.UpdateStyle(f.e.selected, field, value)
}

func (f Formatter) ToggleBold() bool {
	b, ok := f.selected()
	if !ok {
		return false
	}
	next := domain.FontWeightBold
	if b.Style.FontWeight == domain.FontWeightBold {
		next = domain.FontWeightNormal
	}
	return f.set(domain.StyleFontWeight, next)
}

func (f Formatter) ToggleItalic() bool {
	b, ok := f.selected()
	if !ok {
		return false
	}
	next := domain.FontStyleItalic
	if b.Style.FontStyle == domain.FontStyleItalic {
		next = domain.FontStyleNormal
	}
	return f.set(domain.StyleFontStyle, next)
}

func (f Formatter) ToggleUnderline() bool {
	b, ok := f.selected()
	if !ok {
		return false
	}
	next := domain.TextDecorationUnderline
	if b.Style.TextDecoration == domain.TextDecorationUnderline {
		next = domain.TextDecorationNone
	}
	return f.set(domain.StyleTextDecoration, next)
}

// ToggleBorder flips the border style between none and solid. The border
// width is left alone.
func (f Formatter) ToggleBorder() bool {
	b, ok := f.selected()
	if !ok {
		return false
	}
	next := domain.BorderStyleSolid
	if b.Style.BorderStyle == domain.BorderStyleSolid {
		next = domain.BorderStyleNone
	}
	return f.set(domain.StyleBorderStyle, next)
}

func (f Formatter) SetAlign(a domain.TextAlign) bool {
	return f.set(domain.StyleTextAlign, a)
}

func (f Formatter) SetFontFamily(family string) bool {
	return f.set(domain.StyleFontFamily, family)
}

func (f Formatter) SetFontSize(px float64) bool {
	return f.set(domain.StyleFontSize, px)
}

func (f Formatter) SetBorderWidth(px float64) bool {
	return f.set(domain.StyleBorderWidth, px)
}

// RemoveLineBreaks replaces line breaks in the selected text of the
// selected box. An empty or missing selection does nothing.
func (f Formatter) RemoveLineBreaks(src SelectionSource) bool {
	if f.e.selected == "" || src == nil {
		return false
	}
	start, end, ok := src.Selection()
	if !ok || start == end {
		return false
	}
	return f.e.RemoveLineBreaksInSelection(f.e.selected, start, end)
}
