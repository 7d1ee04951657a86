package app

import (
	"context"
	"sync"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"posterdesk/internal/storage"
)

// templateWatcher polls the database for writes made outside this process
// (the standalone MCP server or posterctl) and for approvals those
// processes are waiting on, and tells the frontend.
type templateWatcher struct {
	ctx   context.Context
	app   *App
	store *storage.TemplateStore
	mu    sync.Mutex

	lastUpdate time.Time
	stopCh     chan struct{}
	// Track emitted approval IDs to avoid infinite re-emission
	emittedApprovals map[string]bool
}

func newTemplateWatcher(ctx context.Context, app *App) *templateWatcher {
	return &templateWatcher{
		ctx:              ctx,
		app:              app,
		store:            storage.NewTemplateStore(app.core.DB),
		emittedApprovals: map[string]bool{},
	}
}

// Start begins the polling loop. Should be called once on app startup.
func (w *templateWatcher) Start() {
	w.stopCh = make(chan struct{})
	if ts, err := w.store.LatestUpdate(); err == nil {
		w.lastUpdate = ts
	}
	go w.pollLoop()
}

// Stop terminates the polling loop.
func (w *templateWatcher) Stop() {
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
}

func (w *templateWatcher) pollLoop() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	stop := w.stopCh
	for {
		select {
		case <-ticker.C:
			w.check()
		case <-stop:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *templateWatcher) check() {
	// ── Template list changes ──────────────────────────
	if ts, err := w.store.LatestUpdate(); err == nil {
		w.mu.Lock()
		changed := ts.After(w.lastUpdate)
		if changed {
			w.lastUpdate = ts
		}
		w.mu.Unlock()
		if changed {
			wailsRuntime.EventsEmit(w.ctx, "templates:changed", nil)
		}
	}

	// ── Pending MCP approvals (cross-process IPC) ──────
	pending, err := w.app.pendingApprovals()
	if err != nil {
		return
	}
	live := make(map[string]bool, len(pending))
	for _, p := range pending {
		live[p.ID] = true
		w.mu.Lock()
		alreadySent := w.emittedApprovals[p.ID]
		w.emittedApprovals[p.ID] = true
		w.mu.Unlock()
		if !alreadySent {
			wailsRuntime.EventsEmit(w.ctx, "mcp:approval-required", p)
		}
	}

	// Forget approvals the standalone process resolved or gave up on
	w.mu.Lock()
	for id := range w.emittedApprovals {
		if !live[id] {
			delete(w.emittedApprovals, id)
			wailsRuntime.EventsEmit(w.ctx, "mcp:approval-dismissed", map[string]string{"id": id})
		}
	}
	w.mu.Unlock()
}
