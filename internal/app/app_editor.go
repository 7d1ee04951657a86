package app

import (
	"posterdesk/internal/domain"
	"posterdesk/internal/editor"
	"posterdesk/internal/service"
)

// ============================================================
// Sessions & page sizes
// ============================================================

func (a *App) ListPageSizes() []domain.PageSize {
	return a.core.PageSizes()
}

// OpenPoster starts an empty poster. An empty pageKey uses the last page
// size picked by the user.
func (a *App) OpenPoster(pageKey string) (service.SessionView, error) {
	if pageKey == "" {
		pageKey = a.core.Window.LastPageKey()
	}
	return a.core.Editors.Open(a.ctx, pageKey)
}

func (a *App) OpenTemplate(templateID string) (service.SessionView, error) {
	return a.core.Editors.OpenTemplate(a.ctx, templateID)
}

func (a *App) CloseSession(sessionID string) error {
	return a.core.Editors.Close(a.ctx, sessionID)
}

func (a *App) ListSessions() []service.SessionView {
	return a.core.Editors.Sessions()
}

func (a *App) SetActiveSession(sessionID string) error {
	return a.core.Editors.SetActive(sessionID)
}

func (a *App) GetSession(sessionID string) (service.SessionView, error) {
	return a.core.Editors.View(sessionID)
}

func (a *App) SetPageSize(sessionID, pageKey string) (service.SessionView, error) {
	page := a.core.Presets.Resolve(pageKey)
	view, err := a.do(sessionID, func(ed *editor.Editor) { ed.SetPageSize(page) })
	if err == nil {
		a.core.Window.SetLastPageKey(page.Key)
	}
	return view, err
}

func (a *App) do(sessionID string, fn func(*editor.Editor)) (service.SessionView, error) {
	return a.core.Editors.Do(a.ctx, sessionID, fn)
}

// ============================================================
// Text boxes
// ============================================================

// AddTextBox adds a box at a view-space point, as delivered by the
// canvas context menu.
func (a *App) AddTextBox(sessionID string, viewX, viewY float64) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) {
		ed.AddTextBoxAtView(domain.Point{X: viewX, Y: viewY})
	})
}

func (a *App) UpdateTextContent(sessionID, boxID, content string) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) { ed.UpdateContent(boxID, content) })
}

// UpdateTextStyle sets one style field. Values of the wrong type are ignored.
func (a *App) UpdateTextStyle(sessionID, boxID, field string, value any) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) {
		ed.UpdateStyle(boxID, domain.StyleField(field), value)
	})
}

// RemoveLineBreaks replaces the line breaks of a box's selected text
// range with spaces. start and end are character offsets.
func (a *App) RemoveLineBreaks(sessionID, boxID string, start, end int) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) {
		ed.RemoveLineBreaksInSelection(boxID, start, end)
	})
}

func (a *App) DeleteTextBox(sessionID, boxID string) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) { ed.DeleteTextBox(boxID) })
}

func (a *App) SelectTextBox(sessionID, boxID string) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) { ed.Select(boxID) })
}

func (a *App) ResetCanvas(sessionID string) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) { ed.Reset() })
}

// ============================================================
// Pointer & wheel input
// ============================================================

// PointerDown starts a drag (boxID set, handle empty), a resize (handle
// set) or clears the selection (boxID empty). Coordinates are view-space.
func (a *App) PointerDown(sessionID, boxID, handle string, x, y float64) (service.SessionView, error) {
	return a.dispatch(sessionID, editor.PointerEvent{
		Kind:   editor.PointerDownKind,
		Pos:    domain.Point{X: x, Y: y},
		Target: editor.HitTarget{BoxID: boxID, Handle: domain.Handle(handle)},
	})
}

func (a *App) PointerMove(sessionID string, x, y float64) (service.SessionView, error) {
	return a.dispatch(sessionID, editor.PointerEvent{Kind: editor.PointerMoveKind, Pos: domain.Point{X: x, Y: y}})
}

func (a *App) PointerUp(sessionID string) (service.SessionView, error) {
	return a.dispatch(sessionID, editor.PointerEvent{Kind: editor.PointerUpKind})
}

func (a *App) PointerLeave(sessionID string) (service.SessionView, error) {
	return a.dispatch(sessionID, editor.PointerEvent{Kind: editor.PointerLeaveKind})
}

func (a *App) dispatch(sessionID string, ev editor.Event) (service.SessionView, error) {
	_, view, err := a.core.Editors.Dispatch(a.ctx, sessionID, ev)
	return view, err
}

// Wheel handles a wheel tick over the canvas. It reports whether the
// event zoomed, in which case the frontend calls preventDefault.
func (a *App) Wheel(sessionID string, deltaY float64, modifier bool) (bool, error) {
	consumed, _, err := a.core.Editors.Dispatch(a.ctx, sessionID, editor.WheelEvent{DeltaY: deltaY, Modifier: modifier})
	return consumed, err
}

// ============================================================
// Zoom
// ============================================================

func (a *App) SetZoom(sessionID string, percent int) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) { ed.SetZoom(percent) })
}

func (a *App) ZoomIn(sessionID string) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) { ed.ZoomIn() })
}

func (a *App) ZoomOut(sessionID string) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) { ed.ZoomOut() })
}

// SetCanvasOrigin tells the editor where the page's top-left corner sits
// in view space, e.g. after the canvas scrolls.
func (a *App) SetCanvasOrigin(sessionID string, x, y float64) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) { ed.SetCanvasOrigin(domain.Point{X: x, Y: y}) })
}

// ============================================================
// Toolbar (acts on the selected box)
// ============================================================

func (a *App) ToggleBold(sessionID string) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) { ed.Format().ToggleBold() })
}

func (a *App) ToggleItalic(sessionID string) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) { ed.Format().ToggleItalic() })
}

func (a *App) ToggleUnderline(sessionID string) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) { ed.Format().ToggleUnderline() })
}

func (a *App) ToggleBorder(sessionID string) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) { ed.Format().ToggleBorder() })
}

func (a *App) SetTextAlign(sessionID, align string) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) { ed.Format().SetAlign(domain.TextAlign(align)) })
}

func (a *App) SetFontFamily(sessionID, family string) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) { ed.Format().SetFontFamily(family) })
}

func (a *App) SetFontSize(sessionID string, px float64) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) { ed.Format().SetFontSize(px) })
}

func (a *App) SetBorderWidth(sessionID string, px float64) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) { ed.Format().SetBorderWidth(px) })
}

// RemoveSelectedLineBreaks is the toolbar button: it acts on the text
// range the user has selected inside the selected box.
func (a *App) RemoveSelectedLineBreaks(sessionID string, start, end int) (service.SessionView, error) {
	return a.do(sessionID, func(ed *editor.Editor) {
		ed.Format().RemoveLineBreaks(editor.SelectionRange{Start: start, End: end})
	})
}
