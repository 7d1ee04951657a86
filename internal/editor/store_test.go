package editor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posterdesk/internal/domain"
)

var a4 = domain.PageSize{Key: "A4", WidthPx: 794, HeightPx: 1123}
var letter = domain.PageSize{Key: "Letter", WidthPx: 816, HeightPx: 1056}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("box-%d", n)
	}
}

func newTestEditor(t *testing.T, page domain.PageSize, opts ...Option) (*Editor, *[]Change) {
	t.Helper()
	var changes []Change
	opts = append([]Option{
		WithIDGenerator(seqIDs()),
		WithOnChange(func(c Change) { changes = append(changes, c) }),
	}, opts...)
	return NewEditor(page, opts...), &changes
}

func TestAddTextBox_Defaults(t *testing.T) {
	e, changes := newTestEditor(t, a4)

	id := e.AddTextBox(domain.Point{X: 50, Y: 50})

	b, ok := e.TextBox(id)
	require.True(t, ok)
	assert.Equal(t, domain.Point{X: 50, Y: 50}, b.Position)
	assert.Equal(t, domain.Size{Width: 200, Height: 100}, b.Size)
	assert.Equal(t, "Text", b.Content)
	assert.Equal(t, domain.DefaultStyle(), b.Style)
	assert.Equal(t, id, e.SelectedID())
	require.Len(t, *changes, 1)
	assert.Equal(t, Change{Op: OpAdd, BoxID: id, Commit: true}, (*changes)[0])
}

func TestAddTextBox_ClampsAnchorIntoPage(t *testing.T) {
	e, _ := newTestEditor(t, a4)

	tests := []struct {
		name   string
		anchor domain.Point
		want   domain.Point
	}{
		{"negative", domain.Point{X: -40, Y: -10}, domain.Point{X: 0, Y: 0}},
		{"past bottom right", domain.Point{X: 2000, Y: 2000}, domain.Point{X: 594, Y: 1023}},
		{"inside", domain.Point{X: 10, Y: 20}, domain.Point{X: 10, Y: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := e.TextBox(e.AddTextBox(tt.anchor))
			assert.Equal(t, tt.want, b.Position)
			assert.True(t, b.Within(a4))
		})
	}
}

func TestAddTextBoxAtView_UsesZoomTransform(t *testing.T) {
	e, _ := newTestEditor(t, a4, WithZoom(200))
	e.SetCanvasOrigin(domain.Point{X: 100, Y: 20})

	b, _ := e.TextBox(e.AddTextBoxAtView(domain.Point{X: 300, Y: 220}))

	assert.Equal(t, domain.Point{X: 100, Y: 100}, b.Position)
}

func TestIDsAreUnique(t *testing.T) {
	e := NewEditor(a4)
	seen := map[string]bool{}
	for range 50 {
		id := e.AddTextBox(domain.Point{})
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestUpdateContent(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	id := e.AddTextBox(domain.Point{})

	assert.True(t, e.UpdateContent(id, "  Results\n\n<b>raw</b>"))
	b, _ := e.TextBox(id)
	assert.Equal(t, "  Results\n\n<b>raw</b>", b.Content)

	assert.False(t, e.UpdateContent("missing", "x"))
}

func TestUpdateStyle(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	id := e.AddTextBox(domain.Point{})

	tests := []struct {
		name  string
		field domain.StyleField
		value any
		ok    bool
		check func(t *testing.T, s domain.Style)
	}{
		{"font size", domain.StyleFontSize, 24.0, true, func(t *testing.T, s domain.Style) { assert.Equal(t, 24.0, s.FontSize) }},
		{"font size int", domain.StyleFontSize, 18, true, func(t *testing.T, s domain.Style) { assert.Equal(t, 18.0, s.FontSize) }},
		{"font size floor", domain.StyleFontSize, -3.0, true, func(t *testing.T, s domain.Style) { assert.Equal(t, 1.0, s.FontSize) }},
		{"font size wrong type", domain.StyleFontSize, "big", false, nil},
		{"family", domain.StyleFontFamily, "Georgia", true, func(t *testing.T, s domain.Style) { assert.Equal(t, "Georgia", s.FontFamily) }},
		{"weight", domain.StyleFontWeight, "bold", true, func(t *testing.T, s domain.Style) { assert.Equal(t, domain.FontWeightBold, s.FontWeight) }},
		{"weight unknown", domain.StyleFontWeight, "heavy", false, nil},
		{"italic", domain.StyleFontStyle, domain.FontStyleItalic, true, func(t *testing.T, s domain.Style) { assert.Equal(t, domain.FontStyleItalic, s.FontStyle) }},
		{"underline", domain.StyleTextDecoration, "underline", true, func(t *testing.T, s domain.Style) { assert.Equal(t, domain.TextDecorationUnderline, s.TextDecoration) }},
		{"align", domain.StyleTextAlign, "right", true, func(t *testing.T, s domain.Style) { assert.Equal(t, domain.TextAlignRight, s.TextAlign) }},
		{"align unknown", domain.StyleTextAlign, "justify", false, nil},
		{"border width floor", domain.StyleBorderWidth, -1.0, true, func(t *testing.T, s domain.Style) { assert.Equal(t, 0.0, s.BorderWidth) }},
		{"unknown field", domain.StyleField("color"), "red", false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, _ := e.TextBox(id)
			ok := e.UpdateStyle(id, tt.field, tt.value)
			assert.Equal(t, tt.ok, ok)
			after, _ := e.TextBox(id)
			if !tt.ok {
				assert.Equal(t, before.Style, after.Style)
				return
			}
			tt.check(t, after.Style)
		})
	}
}

func TestUpdateStyle_BorderNoneKeepsWidth(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	id := e.AddTextBox(domain.Point{})
	e.UpdateStyle(id, domain.StyleBorderWidth, 4.0)
	e.UpdateStyle(id, domain.StyleBorderStyle, "solid")
	e.UpdateStyle(id, domain.StyleBorderStyle, "none")

	b, _ := e.TextBox(id)
	assert.Equal(t, domain.BorderStyleNone, b.Style.BorderStyle)
	assert.Equal(t, 4.0, b.Style.BorderWidth)
}

func TestRemoveLineBreaksInSelection(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		start, end int
		want       string
		changed    bool
	}{
		{"inside range", "a\nb\nc", 0, 3, "a b\nc", true},
		{"whole", "a\r\nb", 0, 4, "a  b", true},
		{"reversed", "a\nb", 3, 0, "a b", true},
		{"clamped", "a\nb", -5, 99, "a b", true},
		{"unicode separators", "x\u2028y\u2029z", 0, 5, "x y z", true},
		{"multibyte offsets", "é\nü\n", 1, 2, "é ü\n", true},
		{"no breaks", "abc", 0, 3, "abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEditor(t, a4)
			id := e.AddTextBox(domain.Point{})
			e.UpdateContent(id, tt.content)

			assert.Equal(t, tt.changed, e.RemoveLineBreaksInSelection(id, tt.start, tt.end))
			b, _ := e.TextBox(id)
			assert.Equal(t, tt.want, b.Content)
			assert.Equal(t, len([]rune(tt.content)), len([]rune(b.Content)))
		})
	}
}

func TestRemoveLineBreaksInSelection_Idempotent(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	id := e.AddTextBox(domain.Point{})
	e.UpdateContent(id, "Line one\nLine two\r\nLine three\n")

	e.RemoveLineBreaksInSelection(id, 2, 20)
	once, _ := e.TextBox(id)
	assert.False(t, e.RemoveLineBreaksInSelection(id, 2, 20))
	twice, _ := e.TextBox(id)

	assert.Equal(t, once.Content, twice.Content)
}

func TestDeleteTextBox(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	a := e.AddTextBox(domain.Point{})
	b := e.AddTextBox(domain.Point{X: 300})

	assert.True(t, e.DeleteTextBox(b))
	assert.Empty(t, e.SelectedID())
	_, ok := e.TextBox(b)
	assert.False(t, ok)
	assert.Len(t, e.TextBoxes(), 1)

	e.Select(a)
	e.PointerDown(HitTarget{BoxID: a}, domain.Point{X: 10, Y: 10})
	assert.True(t, e.DeleteTextBox(a))
	assert.Equal(t, "idle", domain.SessionKind(e.Session()))
	assert.False(t, e.DeleteTextBox(a))
}

func TestSelect(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	id := e.AddTextBox(domain.Point{})

	e.Select("")
	assert.Empty(t, e.SelectedID())
	e.Select(id)
	assert.Equal(t, id, e.SelectedID())
	e.Select("nope")
	assert.Empty(t, e.SelectedID())
}

func TestSetPageSize_RefitsBoxes(t *testing.T) {
	e, _ := newTestEditor(t, domain.PageSize{Key: "A0", WidthPx: 3179, HeightPx: 4494})
	id := e.AddTextBox(domain.Point{X: 3000, Y: 4000})
	e.UpdateStyle(id, domain.StyleFontSize, 40.0)

	e.SetPageSize(a4)

	b, _ := e.TextBox(id)
	assert.True(t, b.Within(a4))
	assert.Equal(t, "A4", e.State().ActivePageKey)
}

func TestRestore_RefitsAndDedupes(t *testing.T) {
	e, changes := newTestEditor(t, a4)
	snap := domain.Snapshot{
		Page: letter,
		TextBoxes: []domain.TextBox{
			{ID: "a", Position: domain.Point{X: -10, Y: 5}, Size: domain.Size{Width: 50, Height: 10}},
			{ID: "a", Position: domain.Point{X: 1, Y: 1}, Size: domain.Size{Width: 200, Height: 100}},
			{Position: domain.Point{X: 900, Y: 2000}, Size: domain.Size{Width: 200, Height: 100}},
		},
	}

	e.Restore(snap)

	got := e.Snapshot()
	assert.Equal(t, letter, got.Page)
	require.Len(t, got.TextBoxes, 2)
	assert.Equal(t, "a", got.TextBoxes[0].ID)
	assert.NotEmpty(t, got.TextBoxes[1].ID)
	for _, b := range got.TextBoxes {
		assert.True(t, b.Within(letter), "box %+v", b)
	}
	assert.Equal(t, OpRestore, (*changes)[len(*changes)-1].Op)
}

func TestRestore_KeepsPageWhenSnapshotPageTooSmall(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	e.Restore(domain.Snapshot{
		Page:      domain.PageSize{Key: "x", WidthPx: 40, HeightPx: 30},
		TextBoxes: []domain.TextBox{{ID: "a", Size: domain.Size{Width: 200, Height: 100}}},
	})

	assert.Equal(t, a4, e.Page())
	b, ok := e.TextBox("a")
	require.True(t, ok)
	assert.True(t, b.Within(a4))
	assert.Equal(t, domain.Size{Width: 200, Height: 100}, b.Size)
}

func TestSetPageSize_IgnoresPageTooSmall(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	id := e.AddTextBox(pt(10, 10))

	e.SetPageSize(domain.PageSize{Key: "stamp", WidthPx: 99, HeightPx: 500})

	assert.Equal(t, a4, e.Page())
	b, _ := e.TextBox(id)
	assert.Equal(t, pt(10, 10), b.Position)
}

func TestSnapshot_IsACopy(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	id := e.AddTextBox(domain.Point{})
	snap := e.Snapshot()

	e.UpdateContent(id, "changed")

	assert.Equal(t, "Text", snap.TextBoxes[0].Content)
}

func TestReset(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	e.AddTextBox(domain.Point{})
	e.AddTextBox(domain.Point{})

	e.Reset()

	assert.Empty(t, e.TextBoxes())
	assert.Empty(t, e.SelectedID())
}
