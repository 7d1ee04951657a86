package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"posterdesk/internal/editor"
)

func (s *Server) registerPageTools() {
	// ── list_page_sizes ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_page_sizes",
		mcp.WithDescription("List the page size presets (pixel dimensions at 100% zoom)"),
	), s.handleListPageSizes)

	// ── open_poster ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_poster",
		mcp.WithDescription("Open an empty poster canvas and make it the active session"),
		mcp.WithString("pageSize", mcp.Description("Page size preset key, e.g. A0 (optional, defaults to configured default)")),
	), s.handleOpenPoster)

	// ── open_template ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_template",
		mcp.WithDescription("Open a saved template in a new editor session"),
		mcp.WithString("templateId", mcp.Description("Template ID"), mcp.Required()),
	), s.handleOpenTemplate)

	// ── list_sessions ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List open editor sessions"),
	), s.handleListSessions)

	// ── set_page_size ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_page_size",
		mcp.WithDescription("Change the page size. Boxes that no longer fit are moved and shrunk to stay on the page."),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithString("pageSize", mcp.Description("Page size preset key"), mcp.Required()),
	), s.handleSetPageSize)

	// ── get_editor_state ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_editor_state",
		mcp.WithDescription("Get page, text boxes, selection and zoom of a session"),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
	), s.handleGetEditorState)

	// ── set_zoom ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_zoom",
		mcp.WithDescription("Set the view zoom in percent. Values are clamped to 50..200. Zoom never changes exported output."),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithNumber("percent", mcp.Description("Zoom percent"), mcp.Required()),
	), s.handleSetZoom)

	// ── zoom_in / zoom_out ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("zoom_in",
		mcp.WithDescription("Zoom in by one step (10%)"),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
	), s.handleZoomStep(true))
	s.mcp.AddTool(mcp.NewTool("zoom_out",
		mcp.WithDescription("Zoom out by one step (10%)"),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
	), s.handleZoomStep(false))
}

func (s *Server) handleListPageSizes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.presets.List())
}

func (s *Server) handleOpenPoster(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := req.GetString("pageSize", "")
	if key != "" {
		if _, ok := s.presets.Get().Lookup(key); !ok {
			return nil, fmt.Errorf("unknown page size %q", key)
		}
	}
	view, err := s.editors.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open poster: %w", err)
	}
	return jsonResult(view)
}

func (s *Server) handleOpenTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "templateId")
	if err != nil {
		return nil, err
	}
	view, err := s.editors.OpenTemplate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	return jsonResult(view)
}

func (s *Server) handleListSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type sessionSummary struct {
		ID         string `json:"id"`
		TemplateID string `json:"templateId,omitempty"`
		Title      string `json:"title,omitempty"`
		PageSize   string `json:"pageSize"`
		Boxes      int    `json:"boxes"`
		Dirty      bool   `json:"dirty"`
	}
	views := s.editors.Sessions()
	out := make([]sessionSummary, len(views))
	for i, v := range views {
		out[i] = sessionSummary{
			ID:         v.ID,
			TemplateID: v.TemplateID,
			Title:      v.Title,
			PageSize:   v.State.ActivePageKey,
			Boxes:      len(v.State.TextBoxes),
			Dirty:      v.Dirty,
		}
	}
	return jsonResult(out)
}

func (s *Server) handleSetPageSize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	key, err := requireString(args, "pageSize")
	if err != nil {
		return nil, err
	}
	page, ok := s.presets.Get().Lookup(key)
	if !ok {
		return nil, fmt.Errorf("unknown page size %q", key)
	}
	id, err := s.resolveSession(ctx, args)
	if err != nil {
		return nil, err
	}
	view, err := s.editors.Do(ctx, id, func(ed *editor.Editor) { ed.SetPageSize(page) })
	if err != nil {
		return nil, err
	}
	return jsonResult(view.State)
}

func (s *Server) handleGetEditorState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.resolveSession(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	view, err := s.editors.View(id)
	if err != nil {
		return nil, err
	}
	return jsonResult(view)
}

func (s *Server) handleSetZoom(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	percent, ok := args["percent"].(float64)
	if !ok {
		return nil, fmt.Errorf("percent is required")
	}
	id, err := s.resolveSession(ctx, args)
	if err != nil {
		return nil, err
	}
	view, err := s.editors.Do(ctx, id, func(ed *editor.Editor) { ed.SetZoom(int(percent)) })
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Zoom set to %d%%", view.State.ZoomPercent)), nil
}

func (s *Server) handleZoomStep(in bool) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := s.resolveSession(ctx, req.GetArguments())
		if err != nil {
			return nil, err
		}
		view, err := s.editors.Do(ctx, id, func(ed *editor.Editor) {
			if in {
				ed.ZoomIn()
			} else {
				ed.ZoomOut()
			}
		})
		if err != nil {
			return nil, err
		}
		return textResult(fmt.Sprintf("Zoom is %d%%", view.State.ZoomPercent)), nil
	}
}
