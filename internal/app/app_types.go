package app

import "posterdesk/internal/service"

// HistoryStep is the result of Undo and Redo. Wails bindings return at
// most one value besides the error.
type HistoryStep struct {
	Changed bool                `json:"changed"`
	Session service.SessionView `json:"session"`
}

// EditorSession is emitted with editor:opened when the external editor
// starts on a box.
type EditorSession struct {
	SessionID string `json:"sessionId"`
	BoxID     string `json:"boxId"`
	Path      string `json:"path"`
	Editor    string `json:"editor"`
}

// PendingApproval mirrors an mcp_approvals row for the frontend.
type PendingApproval struct {
	ID          string `json:"id"`
	Tool        string `json:"tool"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	Metadata    string `json:"metadata"`
}
