package service_test

import (
	"context"
	"testing"
	"time"

	"posterdesk/internal/service"
)

// ─────────────────────────────────────────────────────────────
// RunningJobsGuard tests
// ─────────────────────────────────────────────────────────────

func TestRunningGuard_TryLock(t *testing.T) {
	var g service.ExportedRunningGuard

	if !g.TryLock("tpl-1") {
		t.Fatal("expected first TryLock to succeed")
	}
	if g.TryLock("tpl-1") {
		t.Fatal("expected second TryLock for same key to fail")
	}
	if !g.TryLock("tpl-2") {
		t.Fatal("expected TryLock for different key to succeed")
	}
	if !g.Running("tpl-1") {
		t.Fatal("expected tpl-1 to be running")
	}
	g.Unlock("tpl-1")
	g.Unlock("tpl-2")

	if g.Running("tpl-1") {
		t.Fatal("expected tpl-1 to be released")
	}
	if !g.TryLock("tpl-1") {
		t.Fatal("expected TryLock to succeed after unlock")
	}
	g.Unlock("tpl-1")
}

func TestRunningGuard_WaitAll(t *testing.T) {
	var g service.ExportedRunningGuard

	if !g.TryLock("tpl-a") {
		t.Fatal("expected lock to succeed")
	}

	done := make(chan struct{})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		g.WaitAll(ctx)
		close(done)
	}()

	go func() {
		time.Sleep(20 * time.Millisecond)
		g.Unlock("tpl-a")
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("WaitAll timed out")
	}
}

// ─────────────────────────────────────────────────────────────
// MockEmitter tests
// ─────────────────────────────────────────────────────────────

func TestMockEmitter_RecordsEvents(t *testing.T) {
	m := &service.MockEmitter{}
	ctx := context.Background()

	m.Emit(ctx, "test:event", map[string]string{"foo": "bar"})
	m.Emit(ctx, "test:event2", nil)
	m.Emit(ctx, "test:event", 3)

	if len(m.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(m.Events))
	}
	if m.Events[0].Event != "test:event" {
		t.Errorf("expected 'test:event', got %q", m.Events[0].Event)
	}
	if got := m.Named("test:event"); len(got) != 2 || got[1].Data != 3 {
		t.Errorf("Named returned %+v", got)
	}
}

func TestNopEmitter(t *testing.T) {
	var e service.EventEmitter = service.NopEmitter{}
	e.Emit(context.Background(), "anything", nil)
}
