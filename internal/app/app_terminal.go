package app

import (
	"fmt"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"posterdesk/internal/editor"
	"posterdesk/internal/neovim"
)

// ============================================================
// Embedded Terminal (Neovim)
// ============================================================

// TerminalWrite sends input from xterm.js to the PTY.
func (a *App) TerminalWrite(data string) error {
	return a.term.Write(data)
}

// TerminalResize resizes the PTY.
func (a *App) TerminalResize(cols, rows int) error {
	return a.term.Resize(uint16(cols), uint16(rows))
}

// OpenBoxInEditor opens a text box's content in the embedded Neovim
// terminal. Every save is pushed back into the box.
func (a *App) OpenBoxInEditor(sessionID, boxID string, lineNumber int) error {
	if a.nvim == nil {
		return fmt.Errorf("external editor unavailable")
	}
	view, err := a.core.Editors.View(sessionID)
	if err != nil {
		return err
	}
	var content string
	found := false
	for _, b := range view.State.TextBoxes {
		if b.ID == boxID {
			content, found = b.Content, true
			break
		}
	}
	if !found {
		return fmt.Errorf("text box %s not found", boxID)
	}

	target := neovim.Target{SessionID: sessionID, BoxID: boxID}
	path, err := a.nvim.Open(target, content)
	if err != nil {
		return err
	}

	a.editMu.Lock()
	prev := a.editing
	a.editing = &target
	a.editMu.Unlock()
	if prev != nil && *prev != target {
		a.nvim.Finish(*prev)
	}

	if err := a.term.OpenFile(path, lineNumber); err != nil {
		a.editMu.Lock()
		a.editing = nil
		a.editMu.Unlock()
		a.nvim.Finish(target)
		return err
	}
	wailsRuntime.EventsEmit(a.ctx, "editor:opened", EditorSession{
		SessionID: sessionID,
		BoxID:     boxID,
		Path:      path,
		Editor:    a.term.Editor(),
	})
	return nil
}

// CloseEditor closes the embedded terminal session, keeping what was
// last saved.
func (a *App) CloseEditor() {
	a.term.Close()
	a.onEditorExit()
}

// onScratchSaved applies a save made in Neovim to the box.
func (a *App) onScratchSaved(target neovim.Target, content string) {
	a.applyContent(target, content)
}

// onEditorExit reads the final file content and applies it.
func (a *App) onEditorExit() {
	a.editMu.Lock()
	target := a.editing
	a.editing = nil
	a.editMu.Unlock()
	if target == nil || a.nvim == nil {
		return
	}
	content, err := a.nvim.Finish(*target)
	if err != nil {
		wailsRuntime.LogErrorf(a.ctx, "neovim bridge: %v", err)
		return
	}
	a.applyContent(*target, content)
}

func (a *App) applyContent(target neovim.Target, content string) {
	_, err := a.core.Editors.Do(a.ctx, target.SessionID, func(ed *editor.Editor) {
		if b, ok := ed.TextBox(target.BoxID); ok && b.Content != content {
			ed.UpdateContent(target.BoxID, content)
		}
	})
	if err != nil {
		wailsRuntime.LogErrorf(a.ctx, "apply editor content to %s: %v", target.BoxID, err)
		return
	}
	wailsRuntime.EventsEmit(a.ctx, "box:content-updated", map[string]string{
		"sessionId": target.SessionID,
		"boxId":     target.BoxID,
		"content":   content,
	})
}
