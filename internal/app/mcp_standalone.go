package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"posterdesk/internal/config"
	mcpserver "posterdesk/internal/mcp"
	"posterdesk/internal/service"
)

// ServeMCP runs PosterDesk as a standalone MCP server on stdin/stdout with
// no GUI, until interrupted. Destructive tools wait for approval from a
// running desktop app through the shared database.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := RunMCP(ctx); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}

// RunMCP serves MCP over stdio with the services of the default data
// directory. It returns when stdin closes or ctx is cancelled.
func RunMCP(ctx context.Context) error {
	dataDir, err := config.DataDir()
	if err != nil {
		return fmt.Errorf("data directory: %w", err)
	}
	core, err := service.OpenCore(dataDir, nil, service.NopEmitter{})
	if err != nil {
		return err
	}
	defer core.Close()

	if err := core.Editors.StartAutosave(core.Config.AutosaveSchedule); err != nil {
		log.Printf("[AUTOSAVE] disabled: %v", err)
	}

	srv := mcpserver.New(ctx, mcpserver.Deps{
		Emitter:    service.NopEmitter{},
		Editors:    core.Editors,
		Templates:  core.Templates,
		Exports:    core.Exports,
		Presets:    core.Presets,
		Catalog:    core.Catalog,
		ExportDir:  core.ExportDir(),
		ApprovalDB: core.DB.Conn(), // Enable SQLite-based approval IPC
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ServeStdio() }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}
