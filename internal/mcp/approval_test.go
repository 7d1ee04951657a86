package mcpserver

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posterdesk/internal/service"
	"posterdesk/internal/storage"
)

// pendingID waits for the approval-required event and returns its id.
func pendingID(em *service.MockEmitter) string {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if evs := em.Named("mcp:approval-required"); len(evs) > 0 {
			return evs[len(evs)-1].Data.(PendingAction).ID
		}
		time.Sleep(5 * time.Millisecond)
	}
	return ""
}

func TestApproval_ChannelApprove(t *testing.T) {
	em := &service.MockEmitter{}
	q := NewApprovalQueue(context.Background(), em)

	go func() { q.Approve(pendingID(em)) }()

	ok, err := q.Request(context.Background(), "delete_text_box", "Delete box", "")
	require.NoError(t, err)
	assert.True(t, ok)

	evs := em.Named("mcp:approval-required")
	require.Len(t, evs, 1)
	action := evs[0].Data.(PendingAction)
	assert.Equal(t, "delete_text_box", action.Tool)
	assert.Equal(t, "{}", action.Metadata)
}

func TestApproval_ChannelReject(t *testing.T) {
	em := &service.MockEmitter{}
	q := NewApprovalQueue(context.Background(), em)

	go func() { q.Reject(pendingID(em)) }()

	ok, err := q.Request(context.Background(), "reset_canvas", "Reset", `{"boxIds":[]}`)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestApproval_Timeout(t *testing.T) {
	em := &service.MockEmitter{}
	q := NewApprovalQueue(context.Background(), em)
	q.SetTimeout(30 * time.Millisecond)

	ok, err := q.Request(context.Background(), "delete_template", "Delete", "")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Len(t, em.Named("mcp:approval-dismissed"), 1)
}

func TestApproval_ContextCancelled(t *testing.T) {
	em := &service.MockEmitter{}
	q := NewApprovalQueue(context.Background(), em)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		pendingID(em)
		cancel()
	}()

	ok, err := q.Request(ctx, "delete_text_box", "Delete", "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}

func TestApproval_UnknownIDIsIgnored(t *testing.T) {
	q := NewApprovalQueue(context.Background(), &service.MockEmitter{})
	q.Approve("missing")
	q.Reject("missing")
}

func TestApproval_StoredResolution(t *testing.T) {
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "posterdesk.db"), dir)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, approve := range []bool{true, false} {
		q := NewApprovalQueue(context.Background(), service.NopEmitter{})
		q.SetDB(db.Conn())
		q.poll = 5 * time.Millisecond

		go func() {
			deadline := time.Now().Add(2 * time.Second)
			for time.Now().Before(deadline) {
				var id string
				if err := db.Conn().QueryRow(`SELECT id FROM mcp_approvals WHERE status = 'pending'`).Scan(&id); err == nil {
					_ = ResolveStored(db.Conn(), id, approve)
					return
				}
				time.Sleep(5 * time.Millisecond)
			}
		}()

		ok, err := q.Request(context.Background(), "delete_template", "Delete", "")
		assert.Equal(t, approve, ok)
		assert.Equal(t, approve, err == nil)
	}

	var n int
	require.NoError(t, db.Conn().QueryRow(`SELECT COUNT(*) FROM mcp_approvals`).Scan(&n))
	assert.Zero(t, n, "resolved approvals are removed")

	assert.Error(t, ResolveStored(db.Conn(), "missing", true))
}
