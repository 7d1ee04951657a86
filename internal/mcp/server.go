package mcpserver

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"posterdesk/internal/service"
)

// Server is the MCP server for PosterDesk. It exposes tools, resources and
// prompts so AI agents can lay out posters on the open canvas.
type Server struct {
	mcp      *server.MCPServer
	emitter  EventEmitter
	approval *ApprovalQueue
	layout   *LayoutEngine

	editors   *service.EditorService
	templates *service.TemplateService
	exports   *service.ExportService
	presets   *service.Presets
	catalog   *service.CatalogService // nil when no catalog is configured

	exportDir string
}

// Deps holds everything the app or CLI layer passes to the MCP server.
type Deps struct {
	Emitter    EventEmitter
	Editors    *service.EditorService
	Templates  *service.TemplateService
	Exports    *service.ExportService
	Presets    *service.Presets
	Catalog    *service.CatalogService
	ExportDir  string
	ApprovalDB *sql.DB // When set, use SQLite-based approval (standalone mode)
}

// New creates and configures a new MCP server with all tools and resources.
func New(ctx context.Context, deps Deps) *Server {
	emitter := deps.Emitter
	if emitter == nil {
		emitter = service.NopEmitter{}
	}
	approval := NewApprovalQueue(ctx, emitter)
	if deps.ApprovalDB != nil {
		approval.SetDB(deps.ApprovalDB)
	}
	s := &Server{
		emitter:   emitter,
		approval:  approval,
		layout:    NewLayoutEngine(),
		editors:   deps.Editors,
		templates: deps.Templates,
		exports:   deps.Exports,
		presets:   deps.Presets,
		catalog:   deps.Catalog,
		exportDir: deps.ExportDir,
	}

	s.mcp = server.NewMCPServer(
		"posterdesk-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerPageTools()
	s.registerTextBoxTools()
	s.registerExportTools()
	s.registerTemplateTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// MCP returns the underlying mcp-go server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// Approve forwards a user approval to the approval queue.
func (s *Server) Approve(actionID string) {
	s.approval.Approve(actionID)
}

// Reject forwards a user rejection to the approval queue.
func (s *Server) Reject(actionID string) {
	s.approval.Reject(actionID)
}

// resolveSession returns the session named by sessionId, falling back to
// the active session and finally to a fresh one on the default page.
func (s *Server) resolveSession(ctx context.Context, args map[string]any) (string, error) {
	if id := getString(args, "sessionId"); id != "" {
		if _, err := s.editors.View(id); err != nil {
			return "", err
		}
		return id, nil
	}
	if id, ok := s.editors.ActiveID(); ok {
		return id, nil
	}
	view, err := s.editors.Open(ctx, "")
	if err != nil {
		return "", fmt.Errorf("open default session: %w", err)
	}
	return view.ID, nil
}
