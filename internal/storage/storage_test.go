package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posterdesk/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	db, err := New(filepath.Join(dir, "test.db"), dir)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := New(path, dir)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path, dir)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestTemplateStore_CRUD(t *testing.T) {
	store := NewTemplateStore(newTestDB(t))

	tpl := &domain.Template{
		ID:         "t1",
		Title:      "Conference",
		Category:   "science",
		PageKey:    "A0",
		EditorData: `{"page":{"key":"A0"},"textBoxes":[]}`,
	}
	require.NoError(t, store.CreateTemplate(tpl))

	got, err := store.GetTemplate("t1")
	require.NoError(t, err)
	assert.Equal(t, "Conference", got.Title)
	assert.Equal(t, "A0", got.PageKey)
	assert.Equal(t, tpl.EditorData, got.EditorData)

	got.Title = "Conference 2026"
	require.NoError(t, store.UpdateTemplate(got))
	again, err := store.GetTemplate("t1")
	require.NoError(t, err)
	assert.Equal(t, "Conference 2026", again.Title)

	require.NoError(t, store.DeleteTemplate("t1"))
	_, err = store.GetTemplate("t1")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.ErrorIs(t, store.DeleteTemplate("t1"), ErrTemplateNotFound)
	assert.ErrorIs(t, store.UpdateTemplate(&domain.Template{ID: "t1"}), ErrTemplateNotFound)
}

func TestTemplateStore_ListByCategory(t *testing.T) {
	store := NewTemplateStore(newTestDB(t))
	for i, cat := range []string{"science", "science", "education"} {
		require.NoError(t, store.CreateTemplate(&domain.Template{
			ID: fmt.Sprintf("t%d", i), Title: fmt.Sprintf("T%d", i), Category: cat,
		}))
	}

	all, err := store.ListTemplates("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	sci, err := store.ListTemplates("science")
	require.NoError(t, err)
	assert.Len(t, sci, 2)
	for _, tpl := range sci {
		assert.Equal(t, "science", tpl.Category)
	}
}

func TestTemplateStore_LatestUpdate(t *testing.T) {
	store := NewTemplateStore(newTestDB(t))

	ts, err := store.LatestUpdate()
	require.NoError(t, err)
	assert.True(t, ts.IsZero())

	require.NoError(t, store.CreateTemplate(&domain.Template{ID: "a", Title: "A"}))
	first, err := store.LatestUpdate()
	require.NoError(t, err)
	assert.False(t, first.IsZero())

	time.Sleep(5 * time.Millisecond)
	tpl, _ := store.GetTemplate("a")
	require.NoError(t, store.UpdateTemplate(tpl))
	second, err := store.LatestUpdate()
	require.NoError(t, err)
	assert.True(t, second.After(first))
}

func TestUndoStore_PushAndLoad(t *testing.T) {
	undo := NewUndoStore(newTestDB(t))

	tree, err := undo.LoadTree("tpl")
	require.NoError(t, err)
	assert.Nil(t, tree)

	_, err = undo.PushNode("tpl", "n1", "", "initial", `{"v":1}`)
	require.NoError(t, err)
	_, err = undo.PushNode("tpl", "n2", "n1", "add", `{"v":2}`)
	require.NoError(t, err)

	tree, err = undo.LoadTree("tpl")
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, "n1", tree.RootID)
	assert.Equal(t, "n2", tree.CurrentID)
	child, ok := tree.NewestChild("n1")
	require.True(t, ok)
	assert.Equal(t, "n2", child.ID)

	require.NoError(t, undo.GoTo("tpl", "n1"))
	tree, _ = undo.LoadTree("tpl")
	assert.Equal(t, "n1", tree.CurrentID)

	require.NoError(t, undo.Clear("tpl"))
	tree, _ = undo.LoadTree("tpl")
	assert.Nil(t, tree)
}

func TestUndoStore_Prunes(t *testing.T) {
	undo := NewUndoStore(newTestDB(t))
	parent := ""
	for i := range MaxUndoNodes + 10 {
		id := fmt.Sprintf("n%02d", i)
		_, err := undo.PushNode("tpl", id, parent, "step", "{}")
		require.NoError(t, err)
		parent = id
	}

	tree, err := undo.LoadTree("tpl")
	require.NoError(t, err)
	assert.Len(t, tree.Nodes, MaxUndoNodes)
	assert.Equal(t, parent, tree.CurrentID)
	assert.NotEmpty(t, tree.RootID)
}
