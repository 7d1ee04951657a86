package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"posterdesk/internal/export"
)

func (s *Server) registerExportTools() {
	formats := mcp.Enum(string(export.FormatSVG), string(export.FormatPDF), string(export.FormatPNG))

	// ── export_poster ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_poster",
		mcp.WithDescription("Export the session's poster at 100% scale into the export directory. Selection and zoom are not rendered."),
		mcp.WithString("sessionId", mcp.Description("Session ID (optional, defaults to active session)")),
		mcp.WithString("format", mcp.Description("Output format"), mcp.Required(), formats),
	), s.handleExportPoster)

	// ── export_template ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_template",
		mcp.WithDescription("Export a saved template into the export directory without opening it"),
		mcp.WithString("templateId", mcp.Description("Template ID"), mcp.Required()),
		mcp.WithString("format", mcp.Description("Output format"), mcp.Required(), formats),
	), s.handleExportTemplate)
}

func (s *Server) deliverer() (export.DirDeliverer, error) {
	if s.exportDir == "" {
		return export.DirDeliverer{}, fmt.Errorf("no export directory configured")
	}
	return export.DirDeliverer{Dir: s.exportDir}, nil
}

func (s *Server) handleExportPoster(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	format, err := export.ParseFormat(getString(args, "format"))
	if err != nil {
		return nil, err
	}
	d, err := s.deliverer()
	if err != nil {
		return nil, err
	}
	id, err := s.resolveSession(ctx, args)
	if err != nil {
		return nil, err
	}
	res, err := s.exports.Export(ctx, id, format, d)
	if err != nil {
		return nil, fmt.Errorf("export poster: %w", err)
	}
	return textResult(fmt.Sprintf("Exported to %s", d.Path(res.Filename))), nil
}

func (s *Server) handleExportTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	templateID, err := requireString(args, "templateId")
	if err != nil {
		return nil, err
	}
	format, err := export.ParseFormat(getString(args, "format"))
	if err != nil {
		return nil, err
	}
	d, err := s.deliverer()
	if err != nil {
		return nil, err
	}
	res, err := s.exports.ExportTemplate(ctx, templateID, format, d)
	if err != nil {
		return nil, fmt.Errorf("export template: %w", err)
	}
	return textResult(fmt.Sprintf("Exported to %s", d.Path(res.Filename))), nil
}
