package app

import (
	"context"
	"encoding/base64"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"posterdesk/internal/config"
	mcpserver "posterdesk/internal/mcp"
	"posterdesk/internal/neovim"
	"posterdesk/internal/service"
	"posterdesk/internal/terminal"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx  context.Context
	core *service.Core

	mcp     *mcpserver.Server
	mcpHTTP *server.StreamableHTTPServer
	watcher *templateWatcher

	nvim *neovim.Bridge
	term *terminal.Manager

	// Box currently open in the external editor
	editMu  sync.Mutex
	editing *neovim.Target

	stop context.CancelFunc
}

// New creates a new App.
func New() *App {
	return &App{}
}

// wailsEmitter forwards service events to the frontend.
type wailsEmitter struct {
	app *App
}

func (e wailsEmitter) Emit(_ context.Context, event string, data any) {
	if e.app.ctx == nil {
		return
	}
	wailsRuntime.EventsEmit(e.app.ctx, event, data)
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	ctx, a.stop = context.WithCancel(ctx)

	// macOS: disable "Press and Hold" so key repeat works in the embedded Neovim.
	if runtime.GOOS == "darwin" {
		exec.Command("defaults", "write", "com.wails.posterdesk", "ApplePressAndHoldEnabled", "-bool", "false").Run()
	}

	dataDir, err := config.DataDir()
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to resolve data directory: %v", err)
		return
	}
	emitter := wailsEmitter{app: a}
	core, err := service.OpenCore(dataDir, nil, emitter)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open database: %v", err)
		return
	}
	a.core = core

	if err := core.Editors.StartAutosave(core.Config.AutosaveSchedule); err != nil {
		wailsRuntime.LogErrorf(ctx, "Autosave disabled: %v", err)
	}
	if err := config.Watch(ctx, config.Path(dataDir), a.onConfigChanged); err != nil {
		wailsRuntime.LogErrorf(ctx, "Config watcher disabled: %v", err)
	}

	// Embedded terminal: PTY output → base64 → frontend event
	a.term = terminal.New(core.Config.EditorCommand,
		func(data []byte) {
			wailsRuntime.EventsEmit(ctx, "terminal:data", base64.StdEncoding.EncodeToString(data))
		},
		func(exitLine int) {
			a.onEditorExit()
			wailsRuntime.EventsEmit(ctx, "terminal:exit", map[string]int{"cursorLine": exitLine})
		},
	)

	// Live updates while the box text is edited in Neovim
	nvim, err := neovim.New(filepath.Join(dataDir, "scratch"), a.onScratchSaved)
	if err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to create neovim bridge: %v", err)
	}
	a.nvim = nvim

	a.mcp = mcpserver.New(ctx, mcpserver.Deps{
		Emitter:   emitter,
		Editors:   core.Editors,
		Templates: core.Templates,
		Exports:   core.Exports,
		Presets:   core.Presets,
		Catalog:   core.Catalog,
		ExportDir: core.ExportDir(),
	})
	if addr := core.Config.MCPAddr; addr != "" {
		a.mcpHTTP = server.NewStreamableHTTPServer(a.mcp.MCP())
		go func() {
			wailsRuntime.LogInfof(ctx, "[MCP] serving on http://%s/mcp", addr)
			if err := a.mcpHTTP.Start(addr); err != nil {
				wailsRuntime.LogErrorf(ctx, "[MCP] http server stopped: %v", err)
			}
		}()
	}

	a.watcher = newTemplateWatcher(ctx, a)
	a.watcher.Start()
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.stop != nil {
		a.stop()
	}
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.mcpHTTP != nil {
		a.mcpHTTP.Shutdown(ctx)
	}
	if a.term != nil {
		a.term.Close()
	}
	if a.nvim != nil {
		a.nvim.Close()
	}
	if a.core != nil {
		a.core.Exports.Wait(ctx)
		a.core.Close()
	}
}

func (a *App) onConfigChanged(cfg *config.Config) {
	wailsRuntime.LogInfof(a.ctx, "[CONFIG] reloaded")
	a.core.ApplyConfig(cfg)
	wailsRuntime.EventsEmit(a.ctx, "config:changed", a.core.PageSizes())
}

// ============================================================
// Window settings
// ============================================================

func (a *App) GetWindowSize() service.WindowSize {
	return a.core.Window.LoadWindowSize()
}

func (a *App) SaveWindowSize(width, height int) error {
	return a.core.Window.SaveWindowSize(width, height)
}
