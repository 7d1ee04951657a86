package app

// ============================================================
// Undo / redo
// ============================================================

// Undo steps the session back one history entry. Changed is false when
// there is nothing to undo.
func (a *App) Undo(sessionID string) (HistoryStep, error) {
	changed, view, err := a.core.Editors.Undo(a.ctx, sessionID)
	return HistoryStep{Changed: changed, Session: view}, err
}

// Redo replays the newest undone entry.
func (a *App) Redo(sessionID string) (HistoryStep, error) {
	changed, view, err := a.core.Editors.Redo(a.ctx, sessionID)
	return HistoryStep{Changed: changed, Session: view}, err
}
