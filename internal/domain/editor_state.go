package domain

// Snapshot is an immutable copy of the page and its text boxes taken at a
// point in time. It is the input to export and the persisted editor data.
// Zoom is deliberately absent.
type Snapshot struct {
	Page      PageSize  `json:"page"`
	TextBoxes []TextBox `json:"textBoxes"`
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	boxes := make([]TextBox, len(s.TextBoxes))
	copy(boxes, s.TextBoxes)
	return Snapshot{Page: s.Page, TextBoxes: boxes}
}

// EditorState is the transient state of one editor.
// SelectedID is empty or names a box in TextBoxes.
type EditorState struct {
	ActivePageKey string    `json:"activePageKey"`
	TextBoxes     []TextBox `json:"textBoxes"`
	SelectedID    string    `json:"selectedId"`
	ZoomPercent   int       `json:"zoomPercent"`
}
