package app

import (
	mcpserver "posterdesk/internal/mcp"
)

// ============================================================
// MCP approvals
// ============================================================

// ApproveMCPAction lets a pending destructive MCP tool call proceed.
// The action may belong to the in-app server or to a standalone one.
func (a *App) ApproveMCPAction(actionID string) error {
	return a.resolveMCPAction(actionID, true)
}

// RejectMCPAction cancels a pending destructive MCP tool call.
func (a *App) RejectMCPAction(actionID string) error {
	return a.resolveMCPAction(actionID, false)
}

func (a *App) resolveMCPAction(actionID string, approved bool) error {
	if a.mcp != nil {
		if approved {
			a.mcp.Approve(actionID)
		} else {
			a.mcp.Reject(actionID)
		}
	}
	// Standalone requests live in SQLite; in-process ones are not there.
	if err := mcpserver.ResolveStored(a.core.DB.Conn(), actionID, approved); err != nil && a.mcp == nil {
		return err
	}
	return nil
}

// ListPendingMCPActions returns approvals waiting in the database.
func (a *App) ListPendingMCPActions() ([]PendingApproval, error) {
	return a.pendingApprovals()
}

func (a *App) pendingApprovals() ([]PendingApproval, error) {
	rows, err := a.core.DB.Conn().Query(
		`SELECT id, tool, description, created_at, metadata FROM mcp_approvals WHERE status = 'pending' ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PendingApproval{}
	for rows.Next() {
		var p PendingApproval
		if err := rows.Scan(&p.ID, &p.Tool, &p.Description, &p.CreatedAt, &p.Metadata); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
