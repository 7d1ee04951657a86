package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const templateURIPrefix = "poster://templates/"

func (s *Server) registerResources() {
	// ── poster://page-sizes ────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"poster://page-sizes",
		"Page Size Presets",
		mcp.WithMIMEType("application/json"),
	), s.handlePageSizesResource)

	// ── poster://editor/state ──────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"poster://editor/state",
		"Active Editor State",
		mcp.WithResourceDescription("Page, text boxes, selection and zoom of the active session"),
		mcp.WithMIMEType("application/json"),
	), s.handleEditorStateResource)

	// ── poster://templates/{templateId} ────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			templateURIPrefix+"{templateId}",
			"Saved Template",
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleTemplateResource,
	)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handlePageSizesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, s.presets.List())
}

func (s *Server) handleEditorStateResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id, ok := s.editors.ActiveID()
	if !ok {
		return nil, fmt.Errorf("no active editor session")
	}
	view, err := s.editors.View(id)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, view)
}

func (s *Server) handleTemplateResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	id := templateIDFromURI(uri)
	if id == "" {
		return nil, fmt.Errorf("could not extract templateId from URI: %s", uri)
	}
	t, snap, err := s.templates.Load(id)
	if err != nil {
		return nil, err
	}
	return jsonContents(uri, map[string]any{
		"template": summarizeTemplate(*t),
		"snapshot": snap,
	})
}

// templateIDFromURI extracts the id from "poster://templates/{id}".
func templateIDFromURI(uri string) string {
	id, ok := strings.CutPrefix(uri, templateURIPrefix)
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}
