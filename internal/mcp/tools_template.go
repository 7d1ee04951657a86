package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"posterdesk/internal/domain"
)

func (s *Server) registerTemplateTools() {
	// ── save_template ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_template",
		mcp.WithDescription("Save the session as a template. A session opened from a template updates it; otherwise a new template is created."),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithString("title", mcp.Description("Template title (required for new templates)")),
		mcp.WithString("description", mcp.Description("Short description")),
		mcp.WithString("category", mcp.Description("Category, e.g. science or education")),
	), s.handleSaveTemplate)

	// ── list_templates ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List saved templates, newest first"),
		mcp.WithString("category", mcp.Description("Filter by category (optional)")),
	), s.handleListTemplates)

	// ── delete_template (destructive) ──────────────────
	s.mcp.AddTool(mcp.NewTool("delete_template",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a saved template. Requires user approval."),
		mcp.WithString("templateId", mcp.Description("Template ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteTemplate)

	// ── publish_template ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("publish_template",
		mcp.WithDescription("Publish a saved template to the shared catalog"),
		mcp.WithString("templateId", mcp.Description("Template ID"), mcp.Required()),
	), s.handlePublishTemplate)

	// ── list_catalog ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_catalog",
		mcp.WithDescription("List templates in the shared catalog"),
		mcp.WithString("category", mcp.Description("Filter by category (optional)")),
	), s.handleListCatalog)

	// ── import_catalog_entry ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("import_catalog_entry",
		mcp.WithDescription("Copy a catalog entry into the local templates"),
		mcp.WithString("entryId", mcp.Description("Catalog entry ID"), mcp.Required()),
	), s.handleImportCatalogEntry)
}

type templateSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	PageKey     string `json:"pageKey"`
	UpdatedAt   string `json:"updatedAt"`
}

func summarizeTemplate(t domain.Template) templateSummary {
	return templateSummary{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		PageKey:     t.PageKey,
		UpdatedAt:   t.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func (s *Server) handleSaveTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := s.resolveSession(ctx, args)
	if err != nil {
		return nil, err
	}
	t, err := s.editors.Save(ctx, id, domain.TemplateMeta{
		Title:       getString(args, "title"),
		Description: getString(args, "description"),
		Category:    getString(args, "category"),
	})
	if err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}
	return jsonResult(summarizeTemplate(*t))
}

func (s *Server) handleListTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.templates.List(req.GetString("category", ""))
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	out := make([]templateSummary, len(list))
	for i, t := range list {
		out[i] = summarizeTemplate(t)
	}
	return jsonResult(out)
}

func (s *Server) handleDeleteTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "templateId")
	if err != nil {
		return nil, err
	}
	t, _, err := s.templates.Load(id)
	if err != nil {
		return nil, err
	}

	meta := fmt.Sprintf(`{"templateIds":[%q]}`, t.ID)
	approved, err := s.approval.Request(ctx, "delete_template",
		fmt.Sprintf("Delete template %q", t.Title), meta)
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}

	if err := s.templates.Delete(ctx, t.ID); err != nil {
		return nil, fmt.Errorf("delete template: %w", err)
	}
	return textResult(fmt.Sprintf("Template %s deleted", t.ID)), nil
}

func (s *Server) requireCatalog() error {
	if s.catalog == nil || !s.catalog.Enabled() {
		return fmt.Errorf("no template catalog configured")
	}
	return nil
}

func (s *Server) handlePublishTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.requireCatalog(); err != nil {
		return nil, err
	}
	id, err := requireString(req.GetArguments(), "templateId")
	if err != nil {
		return nil, err
	}
	entry, err := s.catalog.Publish(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("publish template: %w", err)
	}
	return textResult(fmt.Sprintf("Published %q as catalog entry %s", entry.Title, entry.ID)), nil
}

func (s *Server) handleListCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.requireCatalog(); err != nil {
		return nil, err
	}
	list, err := s.catalog.List(ctx, req.GetString("category", ""))
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	if list == nil {
		list = []domain.CatalogSummary{}
	}
	return jsonResult(list)
}

func (s *Server) handleImportCatalogEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.requireCatalog(); err != nil {
		return nil, err
	}
	id, err := requireString(req.GetArguments(), "entryId")
	if err != nil {
		return nil, err
	}
	t, err := s.catalog.Import(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("import catalog entry: %w", err)
	}
	return jsonResult(summarizeTemplate(*t))
}
