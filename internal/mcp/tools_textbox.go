package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"

	"posterdesk/internal/domain"
	"posterdesk/internal/editor"
)

var styleFields = []string{
	string(domain.StyleFontSize),
	string(domain.StyleFontFamily),
	string(domain.StyleFontWeight),
	string(domain.StyleFontStyle),
	string(domain.StyleTextDecoration),
	string(domain.StyleTextAlign),
	string(domain.StyleBorderWidth),
	string(domain.StyleBorderStyle),
}

func (s *Server) registerTextBoxTools() {
	sessionArg := mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)"))

	// ── add_text_box ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_text_box",
		mcp.WithDescription("Add a text box. Without x/y it is placed in the first free spot on the page. Positions are page pixels at 100% zoom."),
		sessionArg,
		mcp.WithString("content", mcp.Description("Initial text (optional, defaults to \"Text\")")),
		mcp.WithNumber("x", mcp.Description("Left edge (optional)")),
		mcp.WithNumber("y", mcp.Description("Top edge (optional)")),
	), s.handleAddTextBox)

	// ── update_text_content ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_text_content",
		mcp.WithDescription("Replace the text of a box"),
		sessionArg,
		mcp.WithString("boxId", mcp.Description("Text box ID"), mcp.Required()),
		mcp.WithString("content", mcp.Description("New text"), mcp.Required()),
	), s.handleUpdateTextContent)

	// ── set_text_style ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_text_style",
		mcp.WithDescription("Set one style field of a box. fontSize and borderWidth take numbers; the rest take strings: fontWeight normal|bold, fontStyle normal|italic, textDecoration none|underline, textAlign left|center|right, borderStyle none|solid."),
		sessionArg,
		mcp.WithString("boxId", mcp.Description("Text box ID"), mcp.Required()),
		mcp.WithString("field", mcp.Description("Style field"), mcp.Required(), mcp.Enum(styleFields...)),
		mcp.WithString("value", mcp.Description("New value; numbers may be given as strings"), mcp.Required()),
	), s.handleSetTextStyle)

	// ── remove_line_breaks ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("remove_line_breaks",
		mcp.WithDescription("Replace line breaks with spaces inside a character range of a box. Without start/end the whole text is used."),
		sessionArg,
		mcp.WithString("boxId", mcp.Description("Text box ID"), mcp.Required()),
		mcp.WithNumber("start", mcp.Description("First character (optional)")),
		mcp.WithNumber("end", mcp.Description("One past the last character (optional)")),
	), s.handleRemoveLineBreaks)

	// ── move_text_box ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_text_box",
		mcp.WithDescription("Move a box. The position is clamped so the box stays on the page."),
		sessionArg,
		mcp.WithString("boxId", mcp.Description("Text box ID"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New left edge"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New top edge"), mcp.Required()),
	), s.handleMoveTextBox)

	// ── resize_text_box ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("resize_text_box",
		mcp.WithDescription("Resize a box by dragging its bottom-right handle. The size is clamped to the 100x50 minimum and the page bounds."),
		sessionArg,
		mcp.WithString("boxId", mcp.Description("Text box ID"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("New width"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("New height"), mcp.Required()),
	), s.handleResizeTextBox)

	// ── select_text_box ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("select_text_box",
		mcp.WithDescription("Select a box. An empty boxId clears the selection."),
		sessionArg,
		mcp.WithString("boxId", mcp.Description("Text box ID")),
	), s.handleSelectTextBox)

	// ── list_text_boxes ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_text_boxes",
		mcp.WithDescription("List the text boxes of a session in paint order"),
		sessionArg,
	), s.handleListTextBoxes)

	// ── arrange_text_boxes ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("arrange_text_boxes",
		mcp.WithDescription("Lay out all boxes in rows, in paint order, inside the page margins"),
		sessionArg,
	), s.handleArrangeTextBoxes)

	// ── delete_text_box (destructive) ──────────────────
	s.mcp.AddTool(mcp.NewTool("delete_text_box",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a text box. Requires user approval."),
		sessionArg,
		mcp.WithString("boxId", mcp.Description("Text box ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteTextBox)

	// ── reset_canvas (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("reset_canvas",
		mcp.WithDescription("🛑 DESTRUCTIVE: Remove every text box from the page. Requires user approval."),
		sessionArg,
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleResetCanvas)
}

// box resolves the session and box named in args.
func (s *Server) box(ctx context.Context, args map[string]any) (string, domain.TextBox, error) {
	boxID, err := requireString(args, "boxId")
	if err != nil {
		return "", domain.TextBox{}, err
	}
	id, err := s.resolveSession(ctx, args)
	if err != nil {
		return "", domain.TextBox{}, err
	}
	view, err := s.editors.View(id)
	if err != nil {
		return "", domain.TextBox{}, err
	}
	b, ok := findBox(view.State.TextBoxes, boxID)
	if !ok {
		return "", domain.TextBox{}, fmt.Errorf("text box %s not found", boxID)
	}
	return id, b, nil
}

func findBox(boxes []domain.TextBox, id string) (domain.TextBox, bool) {
	for _, b := range boxes {
		if b.ID == id {
			return b, true
		}
	}
	return domain.TextBox{}, false
}

func (s *Server) handleAddTextBox(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.resolveSession(ctx, args)
	if err != nil {
		return nil, err
	}

	var boxID string
	view, err := s.editors.Do(ctx, id, func(ed *editor.Editor) {
		size := domain.Size{Width: domain.DefaultTextBoxWidth, Height: domain.DefaultTextBoxHeight}
		anchor := s.layout.NextPosition(ed.Page(), ed.TextBoxes(), size)
		if _, ok := args["x"].(float64); ok {
			anchor.X = getFloat(args, "x", anchor.X)
		}
		if _, ok := args["y"].(float64); ok {
			anchor.Y = getFloat(args, "y", anchor.Y)
		}
		boxID = ed.AddTextBox(anchor)
		if content, ok := args["content"].(string); ok && content != "" {
			ed.UpdateContent(boxID, content)
		}
	})
	if err != nil {
		return nil, err
	}
	b, _ := findBox(view.State.TextBoxes, boxID)
	return jsonResult(b)
}

func (s *Server) handleUpdateTextContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, b, err := s.box(ctx, args)
	if err != nil {
		return nil, err
	}
	content, _ := args["content"].(string)
	if _, err := s.editors.Do(ctx, id, func(ed *editor.Editor) { ed.UpdateContent(b.ID, content) }); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Text box %s content updated", b.ID)), nil
}

// styleValue converts a tool argument to the type UpdateStyle expects for
// field. Numeric fields accept numbers or numeric strings.
func styleValue(field domain.StyleField, raw any) any {
	if field != domain.StyleFontSize && field != domain.StyleBorderWidth {
		return raw
	}
	if str, ok := raw.(string); ok {
		var v float64
		if _, err := fmt.Sscanf(strings.TrimSuffix(strings.TrimSpace(str), "px"), "%g", &v); err == nil {
			return v
		}
	}
	return raw
}

func (s *Server) handleSetTextStyle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, b, err := s.box(ctx, args)
	if err != nil {
		return nil, err
	}
	field := domain.StyleField(getString(args, "field"))
	value := styleValue(field, args["value"])

	var applied bool
	view, err := s.editors.Do(ctx, id, func(ed *editor.Editor) { applied = ed.UpdateStyle(b.ID, field, value) })
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("invalid value %v for style field %q", args["value"], field)
	}
	updated, _ := findBox(view.State.TextBoxes, b.ID)
	return jsonResult(updated.Style)
}

func (s *Server) handleRemoveLineBreaks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, b, err := s.box(ctx, args)
	if err != nil {
		return nil, err
	}
	start := int(getFloat(args, "start", 0))
	end := int(getFloat(args, "end", float64(utf8.RuneCountInString(b.Content))))

	var changed bool
	if _, err := s.editors.Do(ctx, id, func(ed *editor.Editor) {
		changed = ed.RemoveLineBreaksInSelection(b.ID, start, end)
	}); err != nil {
		return nil, err
	}
	if !changed {
		return textResult("No line breaks in range"), nil
	}
	return textResult(fmt.Sprintf("Line breaks removed from text box %s", b.ID)), nil
}

func (s *Server) handleMoveTextBox(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, b, err := s.box(ctx, args)
	if err != nil {
		return nil, err
	}
	view, err := s.editors.Do(ctx, id, func(ed *editor.Editor) {
		cur, ok := ed.TextBox(b.ID)
		if !ok {
			return
		}
		ed.MoveTo(cur.ID, domain.Point{
			X: getFloat(args, "x", cur.Position.X),
			Y: getFloat(args, "y", cur.Position.Y),
		})
	})
	if err != nil {
		return nil, err
	}
	moved, ok := findBox(view.State.TextBoxes, b.ID)
	if !ok {
		return nil, fmt.Errorf("text box %s not found", b.ID)
	}
	return jsonResult(moved)
}

// handleResizeTextBox drags the south-east corner by the size difference,
// so the result is clamped exactly like a user resize. A gesture the user
// has in progress is left untouched.
func (s *Server) handleResizeTextBox(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, b, err := s.box(ctx, args)
	if err != nil {
		return nil, err
	}
	view, err := s.editors.Do(ctx, id, func(ed *editor.Editor) {
		cur, ok := ed.TextBox(b.ID)
		if !ok {
			return
		}
		delta := domain.Point{
			X: getFloat(args, "width", cur.Size.Width) - cur.Size.Width,
			Y: getFloat(args, "height", cur.Size.Height) - cur.Size.Height,
		}
		ed.ResizeBy(cur.ID, domain.HandleSE, delta)
	})
	if err != nil {
		return nil, err
	}
	resized, ok := findBox(view.State.TextBoxes, b.ID)
	if !ok {
		return nil, fmt.Errorf("text box %s not found", b.ID)
	}
	return jsonResult(resized)
}

func (s *Server) handleSelectTextBox(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.resolveSession(ctx, args)
	if err != nil {
		return nil, err
	}
	boxID := getString(args, "boxId")
	view, err := s.editors.Do(ctx, id, func(ed *editor.Editor) { ed.Select(boxID) })
	if err != nil {
		return nil, err
	}
	if view.State.SelectedID == "" {
		return textResult("Selection cleared"), nil
	}
	return textResult(fmt.Sprintf("Text box %s selected", view.State.SelectedID)), nil
}

type boxSummary struct {
	ID       string       `json:"id"`
	Preview  string       `json:"preview"`
	Position domain.Point `json:"position"`
	Size     domain.Size  `json:"size"`
	FontSize float64      `json:"fontSize"`
	Selected bool         `json:"selected,omitempty"`
}

func summarizeBox(b domain.TextBox, selected string) boxSummary {
	preview := b.Content
	if utf8.RuneCountInString(preview) > 60 {
		preview = string([]rune(preview)[:60]) + "..."
	}
	return boxSummary{
		ID:       b.ID,
		Preview:  preview,
		Position: b.Position,
		Size:     b.Size,
		FontSize: b.Style.FontSize,
		Selected: b.ID == selected,
	}
}

func (s *Server) handleListTextBoxes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSession(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	view, err := s.editors.View(id)
	if err != nil {
		return nil, err
	}
	out := make([]boxSummary, len(view.State.TextBoxes))
	for i, b := range view.State.TextBoxes {
		out[i] = summarizeBox(b, view.State.SelectedID)
	}
	return jsonResult(out)
}

func (s *Server) handleArrangeTextBoxes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSession(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	view, err := s.editors.Do(ctx, id, func(ed *editor.Editor) {
		boxes := ed.TextBoxes()
		for i, pos := range s.layout.Arrange(ed.Page(), boxes) {
			ed.MoveTo(boxes[i].ID, pos)
		}
	})
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Arranged %d text boxes", len(view.State.TextBoxes))), nil
}

func (s *Server) handleDeleteTextBox(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, b, err := s.box(ctx, args)
	if err != nil {
		return nil, err
	}

	meta := fmt.Sprintf(`{"sessionId":%q,"boxIds":[%q]}`, id, b.ID)
	approved, err := s.approval.Request(ctx, "delete_text_box",
		fmt.Sprintf("Delete text box %q", summarizeBox(b, "").Preview), meta)
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}

	if _, err := s.editors.Do(ctx, id, func(ed *editor.Editor) { ed.DeleteTextBox(b.ID) }); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Text box %s deleted", b.ID)), nil
}

func (s *Server) handleResetCanvas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSession(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	view, err := s.editors.View(id)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(view.State.TextBoxes))
	for i, b := range view.State.TextBoxes {
		ids[i] = fmt.Sprintf("%q", b.ID)
	}

	meta := fmt.Sprintf(`{"sessionId":%q,"boxIds":[%s]}`, id, strings.Join(ids, ","))
	approved, err := s.approval.Request(ctx, "reset_canvas",
		fmt.Sprintf("Remove all %d text boxes", len(ids)), meta)
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}

	if _, err := s.editors.Do(ctx, id, func(ed *editor.Editor) { ed.Reset() }); err != nil {
		return nil, err
	}
	return textResult("Canvas reset"), nil
}
