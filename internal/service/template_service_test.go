package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posterdesk/internal/domain"
	"posterdesk/internal/service"
	"posterdesk/internal/storage"
)

func TestTemplateService_SaveLoadRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a0, _ := f.presets.Get().Lookup("A0")
	snap := domain.Snapshot{
		Page: a0,
		TextBoxes: []domain.TextBox{{
			ID: "b1", Content: "Results", Position: domain.Point{X: 40, Y: 80},
			Size: domain.Size{Width: 300, Height: 120}, Style: domain.DefaultStyle(),
		}},
	}

	tpl, err := f.templates.Save(ctx, domain.TemplateMeta{Title: "  Lab poster ", Category: "science"}, snap)
	require.NoError(t, err)
	assert.NotEmpty(t, tpl.ID)
	assert.Equal(t, "Lab poster", tpl.Title)
	assert.Equal(t, "A0", tpl.PageKey)

	got, loaded, err := f.templates.Load(tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, tpl.ID, got.ID)
	assert.Equal(t, snap, loaded)

	saved := f.emitter.Named(service.EventTemplateSaved)
	assert.Len(t, saved, 1)

	// Update keeps the id.
	snap.TextBoxes[0].Content = "Results (revised)"
	again, err := f.templates.Save(ctx, domain.TemplateMeta{ID: tpl.ID, Title: "Lab poster"}, snap)
	require.NoError(t, err)
	assert.Equal(t, tpl.ID, again.ID)
	_, loaded, _ = f.templates.Load(tpl.ID)
	assert.Equal(t, "Results (revised)", loaded.TextBoxes[0].Content)
}

func TestTemplateService_SaveRequiresTitle(t *testing.T) {
	f := newFixture(t)
	_, err := f.templates.Save(context.Background(), domain.TemplateMeta{Title: "   "}, domain.Snapshot{})
	assert.Error(t, err)
	assert.Empty(t, f.emitter.Events)
}

func TestTemplateService_LoadFillsMissingPage(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.CreateTemplate(&domain.Template{
		ID: "legacy", Title: "Legacy", PageKey: "Letter", EditorData: `{"textBoxes":[]}`,
	}))

	_, snap, err := f.templates.Load("legacy")
	require.NoError(t, err)
	assert.Equal(t, "Letter", snap.Page.Key)
	assert.Equal(t, 816.0, snap.Page.WidthPx)
}

func TestTemplateService_LoadReplacesDegeneratePage(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.CreateTemplate(&domain.Template{
		ID: "tiny", Title: "Imported", PageKey: "A5",
		EditorData: `{"page":{"key":"A5","widthPx":40,"heightPx":30},"textBoxes":[]}`,
	}))

	_, snap, err := f.templates.Load("tiny")
	require.NoError(t, err)
	assert.Equal(t, "A5", snap.Page.Key)
	assert.Equal(t, 559.0, snap.Page.WidthPx)
	assert.True(t, snap.Page.FitsTextBox())
}

func TestTemplateService_ListAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.templates.List("")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	tpl, err := f.templates.Save(ctx, domain.TemplateMeta{Title: "One"}, domain.Snapshot{Page: f.presets.Get().Default()})
	require.NoError(t, err)

	require.NoError(t, f.templates.Delete(ctx, tpl.ID))
	assert.Len(t, f.emitter.Named(service.EventTemplateDeleted), 1)
	assert.ErrorIs(t, f.templates.Delete(ctx, tpl.ID), storage.ErrTemplateNotFound)
}
