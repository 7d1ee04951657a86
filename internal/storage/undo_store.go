package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// MaxUndoNodes is the history depth kept per template.
const MaxUndoNodes = 40

// UndoNode is one entry of a template's undo history.
type UndoNode struct {
	ID           string    `json:"id"`
	TemplateID   string    `json:"templateId"`
	ParentID     *string   `json:"parentId"`
	Label        string    `json:"label"`
	SnapshotJSON string    `json:"snapshotJson"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UndoTree is the full history of one template.
type UndoTree struct {
	Nodes     []UndoNode `json:"nodes"`
	CurrentID string     `json:"currentId"`
	RootID    string     `json:"rootId"`
}

// Node returns the node with id.
func (t *UndoTree) Node(id string) (UndoNode, bool) {
	for _, n := range t.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return UndoNode{}, false
}

// NewestChild returns the most recently created child of id.
func (t *UndoTree) NewestChild(id string) (UndoNode, bool) {
	var best UndoNode
	found := false
	for _, n := range t.Nodes {
		if n.ParentID != nil && *n.ParentID == id {
			if !found || !n.CreatedAt.Before(best.CreatedAt) {
				best, found = n, true
			}
		}
	}
	return best, found
}

// UndoStore persists undo history in SQLite.
type UndoStore struct {
	db *DB
}

func NewUndoStore(db *DB) *UndoStore {
	return &UndoStore{db: db}
}

// LoadTree returns the undo tree of a template, or nil when it has none.
func (s *UndoStore) LoadTree(templateID string) (*UndoTree, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, template_id, parent_id, label, snapshot_json, created_at
		 FROM undo_nodes WHERE template_id = ? ORDER BY created_at ASC`, templateID,
	)
	if err != nil {
		return nil, fmt.Errorf("load undo nodes: %w", err)
	}
	defer rows.Close()

	var nodes []UndoNode
	var rootID string
	for rows.Next() {
		var n UndoNode
		if err := rows.Scan(&n.ID, &n.TemplateID, &n.ParentID, &n.Label, &n.SnapshotJSON, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan undo node: %w", err)
		}
		if n.ParentID == nil {
			rootID = n.ID
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}

	var currentID string
	err = s.db.Conn().QueryRow(
		`SELECT current_node_id FROM undo_state WHERE template_id = ?`, templateID,
	).Scan(&currentID)
	if err != nil {
		currentID = rootID
	}

	return &UndoTree{Nodes: nodes, CurrentID: currentID, RootID: rootID}, nil
}

// PushNode records a new node under parentID (empty for a root) and makes
// it current. The oldest nodes beyond MaxUndoNodes are pruned.
func (s *UndoStore) PushNode(templateID, nodeID, parentID, label, snapshotJSON string) (*UndoNode, error) {
	now := time.Now()

	var pID *string
	if parentID != "" {
		pID = &parentID
	}

	_, err := s.db.Conn().Exec(
		`INSERT INTO undo_nodes (id, template_id, parent_id, label, snapshot_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		nodeID, templateID, pID, label, snapshotJSON, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert undo node: %w", err)
	}
	if err := s.GoTo(templateID, nodeID); err != nil {
		return nil, fmt.Errorf("update undo state: %w", err)
	}

	s.pruneIfNeeded(templateID, MaxUndoNodes)

	return &UndoNode{
		ID:           nodeID,
		TemplateID:   templateID,
		ParentID:     pID,
		Label:        label,
		SnapshotJSON: snapshotJSON,
		CreatedAt:    now,
	}, nil
}

// GoTo moves the current position pointer.
func (s *UndoStore) GoTo(templateID, nodeID string) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO undo_state (template_id, current_node_id) VALUES (?, ?)
		 ON CONFLICT(template_id) DO UPDATE SET current_node_id = excluded.current_node_id`,
		templateID, nodeID,
	)
	return err
}

// Clear removes all undo data of a template.
func (s *UndoStore) Clear(templateID string) error {
	_, _ = s.db.Conn().Exec(`DELETE FROM undo_state WHERE template_id = ?`, templateID)
	_, err := s.db.Conn().Exec(`DELETE FROM undo_nodes WHERE template_id = ?`, templateID)
	return err
}

// pruneIfNeeded removes the oldest nodes when count exceeds maxNodes,
// re-parenting their children. The current node is never removed.
func (s *UndoStore) pruneIfNeeded(templateID string, maxNodes int) {
	var count int
	s.db.Conn().QueryRow(`SELECT COUNT(*) FROM undo_nodes WHERE template_id = ?`, templateID).Scan(&count)
	if count <= maxNodes {
		return
	}
	toDelete := count - maxNodes

	// Read the current node before opening the cursor; one connection only.
	var currentID string
	s.db.Conn().QueryRow(`SELECT current_node_id FROM undo_state WHERE template_id = ?`, templateID).Scan(&currentID)

	rows, err := s.db.Conn().Query(
		`SELECT id FROM undo_nodes WHERE template_id = ?
		 ORDER BY created_at ASC LIMIT ?`, templateID, toDelete,
	)
	if err != nil {
		return
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		if id != currentID {
			ids = append(ids, id)
		}
	}
	rows.Close()

	for _, id := range ids {
		var parentID sql.NullString
		err := s.db.Conn().QueryRow(`SELECT parent_id FROM undo_nodes WHERE id = ?`, id).Scan(&parentID)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if parentID.Valid {
			s.db.Conn().Exec(`UPDATE undo_nodes SET parent_id = ? WHERE parent_id = ?`, parentID.String, id)
		} else {
			s.db.Conn().Exec(`UPDATE undo_nodes SET parent_id = NULL WHERE parent_id = ?`, id)
		}
		s.db.Conn().Exec(`DELETE FROM undo_nodes WHERE id = ?`, id)
	}
}
