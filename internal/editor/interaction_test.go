package editor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posterdesk/internal/domain"
)

func pt(x, y float64) domain.Point { return domain.Point{X: x, Y: y} }

// Scenario A: a new box lands at its anchor with the default footprint.
func TestScenario_AddAtAnchor(t *testing.T) {
	e, _ := newTestEditor(t, a4)

	id := e.AddTextBox(pt(50, 50))

	b, _ := e.TextBox(id)
	assert.Equal(t, pt(50, 50), b.Position)
	assert.Equal(t, domain.Size{Width: 200, Height: 100}, b.Size)
	assert.Equal(t, id, e.SelectedID())
}

// Scenario B: a drag whose target is (-30, 40) stops at the left edge.
func TestScenario_DragClampsToLeftEdge(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	id := e.AddTextBox(pt(50, 50))

	e.PointerDown(HitTarget{BoxID: id}, pt(60, 60))
	e.PointerMove(pt(-20, 50))
	e.PointerUp()

	b, _ := e.TextBox(id)
	assert.Equal(t, pt(0, 40), b.Position)
}

// Scenario C: an oversized se resize is bounded by the page.
func TestScenario_ResizeSEClampsToPage(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	id := e.AddTextBox(pt(50, 50))

	e.PointerDown(HitTarget{BoxID: id, Handle: domain.HandleSE}, pt(250, 150))
	e.PointerMove(pt(1250, 1150))
	e.PointerUp()

	b, _ := e.TextBox(id)
	assert.Equal(t, domain.Size{Width: 744, Height: 1073}, b.Size)
	assert.Equal(t, pt(50, 50), b.Position)
}

// Scenario D: dragging the w handle inward past the minimum keeps the
// right edge fixed.
func TestScenario_ResizeWInwardPastMinimum(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	id := e.AddTextBox(pt(50, 50))

	e.PointerDown(HitTarget{BoxID: id, Handle: domain.HandleW}, pt(50, 100))
	e.PointerMove(pt(550, 100))
	e.PointerUp()

	b, _ := e.TextBox(id)
	assert.Equal(t, 100.0, b.Size.Width)
	assert.Equal(t, 150.0, b.Position.X)
	assert.Equal(t, 250.0, b.Right())
}

func TestDrag_RespectsZoomAndOrigin(t *testing.T) {
	e, changes := newTestEditor(t, a4, WithZoom(50))
	e.SetCanvasOrigin(pt(200, 10))
	id := e.AddTextBox(pt(100, 100))
	// box top-left in view-space: (200+50, 10+50)
	e.PointerDown(HitTarget{BoxID: id}, pt(260, 70))
	*changes = nil

	e.PointerMove(pt(310, 120))

	b, _ := e.TextBox(id)
	assert.Equal(t, pt(200, 200), b.Position)
	require.Len(t, *changes, 1)
	assert.Equal(t, Change{Op: OpMove, BoxID: id, Commit: false}, (*changes)[0])

	e.PointerUp()
	assert.Equal(t, Change{Op: OpGestureEnd, BoxID: id, Commit: true}, (*changes)[1])
}

func TestResize_FixedEdges(t *testing.T) {
	tests := []struct {
		handle domain.Handle
		delta  domain.Point
		check  func(t *testing.T, before, after domain.TextBox)
	}{
		{domain.HandleE, pt(80, 0), func(t *testing.T, before, after domain.TextBox) {
			assert.Equal(t, before.Position, after.Position)
			assert.Equal(t, 280.0, after.Size.Width)
		}},
		{domain.HandleW, pt(30, 0), func(t *testing.T, before, after domain.TextBox) {
			assert.Equal(t, before.Right(), after.Right())
			assert.Equal(t, 170.0, after.Size.Width)
		}},
		{domain.HandleS, pt(0, 40), func(t *testing.T, before, after domain.TextBox) {
			assert.Equal(t, before.Position, after.Position)
			assert.Equal(t, 140.0, after.Size.Height)
		}},
		{domain.HandleN, pt(0, 20), func(t *testing.T, before, after domain.TextBox) {
			assert.Equal(t, before.Bottom(), after.Bottom())
			assert.Equal(t, 80.0, after.Size.Height)
		}},
		{domain.HandleNW, pt(20, 20), func(t *testing.T, before, after domain.TextBox) {
			assert.Equal(t, before.Right(), after.Right())
			assert.Equal(t, before.Bottom(), after.Bottom())
		}},
		{domain.HandleNE, pt(20, 20), func(t *testing.T, before, after domain.TextBox) {
			assert.Equal(t, before.Position.X, after.Position.X)
			assert.Equal(t, before.Bottom(), after.Bottom())
			assert.Equal(t, 220.0, after.Size.Width)
		}},
		{domain.HandleSW, pt(20, 20), func(t *testing.T, before, after domain.TextBox) {
			assert.Equal(t, before.Right(), after.Right())
			assert.Equal(t, before.Position.Y, after.Position.Y)
			assert.Equal(t, 120.0, after.Size.Height)
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.handle), func(t *testing.T) {
			e, _ := newTestEditor(t, a4)
			id := e.AddTextBox(pt(100, 100))
			before, _ := e.TextBox(id)

			start := pt(400, 400)
			e.PointerDown(HitTarget{BoxID: id, Handle: tt.handle}, start)
			e.PointerMove(start.Add(tt.delta))
			e.PointerUp()

			after, _ := e.TextBox(id)
			tt.check(t, before, after)
		})
	}
}

func TestResize_WAndNDoNotGrowOutward(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	id := e.AddTextBox(pt(100, 100))

	e.PointerDown(HitTarget{BoxID: id, Handle: domain.HandleNW}, pt(100, 100))
	e.PointerMove(pt(20, 20))

	b, _ := e.TextBox(id)
	assert.Equal(t, pt(100, 100), b.Position)
	assert.Equal(t, domain.Size{Width: 200, Height: 100}, b.Size)
}

func TestResize_ScaledByZoom(t *testing.T) {
	e, _ := newTestEditor(t, a4, WithZoom(200))
	id := e.AddTextBox(pt(0, 0))

	e.PointerDown(HitTarget{BoxID: id, Handle: domain.HandleE}, pt(400, 10))
	e.PointerMove(pt(500, 10))

	b, _ := e.TextBox(id)
	assert.Equal(t, 250.0, b.Size.Width)
}

func TestPointerDown_HandleOnUnselectedBoxOnlySelects(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	a := e.AddTextBox(pt(0, 0))
	b := e.AddTextBox(pt(300, 300))
	require.Equal(t, b, e.SelectedID())

	e.PointerDown(HitTarget{BoxID: a, Handle: domain.HandleSE}, pt(200, 100))

	assert.Equal(t, a, e.SelectedID())
	assert.Equal(t, "idle", domain.SessionKind(e.Session()))
}

func TestPointerDown_EmptyCanvasClearsSelection(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	e.AddTextBox(pt(0, 0))

	e.PointerDown(HitTarget{}, pt(700, 700))

	assert.Empty(t, e.SelectedID())
	assert.Equal(t, "idle", domain.SessionKind(e.Session()))
}

func TestPointerDown_IgnoredDuringGesture(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	a := e.AddTextBox(pt(0, 0))
	b := e.AddTextBox(pt(300, 300))

	e.PointerDown(HitTarget{BoxID: a}, pt(10, 10))
	e.PointerDown(HitTarget{BoxID: b}, pt(310, 310))

	s, ok := e.Session().(domain.Dragging)
	require.True(t, ok)
	assert.Equal(t, a, s.BoxID)
	assert.Equal(t, a, e.SelectedID())
}

func TestResizeBy_MatchesGestureClamping(t *testing.T) {
	e, changes := newTestEditor(t, a4)
	id := e.AddTextBox(pt(600, 100))

	require.True(t, e.ResizeBy(id, domain.HandleSE, pt(500, -80)))
	b, _ := e.TextBox(id)
	assert.Equal(t, domain.Size{Width: 194, Height: 50}, b.Size)
	assert.Equal(t, pt(600, 100), b.Position)
	last := (*changes)[len(*changes)-1]
	assert.Equal(t, OpResize, last.Op)
	assert.True(t, last.Commit)

	assert.False(t, e.ResizeBy(id, domain.HandleNW, pt(-50, -50)), "nw only shrinks inward")
	assert.False(t, e.ResizeBy("missing", domain.HandleSE, pt(10, 10)))
	assert.False(t, e.ResizeBy(id, domain.Handle("x"), pt(10, 10)))
}

func TestResizeBy_LeavesGestureAndSelection(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	a := e.AddTextBox(pt(50, 50))
	b := e.AddTextBox(pt(400, 400))

	e.PointerDown(HitTarget{BoxID: a}, pt(60, 60))
	require.True(t, e.ResizeBy(b, domain.HandleSE, pt(100, 100)))

	s, ok := e.Session().(domain.Dragging)
	require.True(t, ok)
	assert.Equal(t, a, s.BoxID)
	assert.Equal(t, a, e.SelectedID())

	e.PointerMove(pt(70, 80))
	e.PointerUp()
	boxA, _ := e.TextBox(a)
	boxB, _ := e.TextBox(b)
	assert.Equal(t, pt(60, 70), boxA.Position)
	assert.Equal(t, domain.Size{Width: 300, Height: 200}, boxB.Size)
}

func TestPointerLeave_AbandonsWithoutRollback(t *testing.T) {
	e, changes := newTestEditor(t, a4)
	id := e.AddTextBox(pt(50, 50))

	e.PointerDown(HitTarget{BoxID: id}, pt(60, 60))
	e.PointerMove(pt(110, 160))
	e.PointerLeave()
	e.PointerMove(pt(400, 400))

	b, _ := e.TextBox(id)
	assert.Equal(t, pt(100, 150), b.Position)
	assert.Equal(t, "idle", domain.SessionKind(e.Session()))
	assert.Equal(t, OpGestureEnd, (*changes)[len(*changes)-1].Op)
}

func TestPointerUp_WithoutMoveCommitsNothing(t *testing.T) {
	e, changes := newTestEditor(t, a4)
	id := e.AddTextBox(pt(50, 50))
	e.PointerDown(HitTarget{BoxID: id}, pt(60, 60))
	n := len(*changes)

	e.PointerUp()

	assert.Len(t, *changes, n)
}

func requireInvariants(t *testing.T, e *Editor) {
	t.Helper()
	for _, b := range e.TextBoxes() {
		require.True(t, b.Within(e.Page()), "box out of bounds: %+v", b)
	}
}

func TestProperty_BoundsUnderRandomDrags(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	e, _ := newTestEditor(t, a4)
	ids := []string{
		e.AddTextBox(pt(0, 0)),
		e.AddTextBox(pt(300, 300)),
		e.AddTextBox(pt(600, 1000)),
	}

	for range 200 {
		e.SetZoom(MinZoomPercent + ZoomStep*r.Intn(16))
		e.SetCanvasOrigin(pt(r.Float64()*300, r.Float64()*100))
		id := ids[r.Intn(len(ids))]
		b, _ := e.TextBox(id)
		e.PointerDown(HitTarget{BoxID: id}, e.ModelToView(b.Position).Add(pt(5, 5)))
		for range 5 {
			e.PointerMove(pt(r.Float64()*4000-2000, r.Float64()*4000-2000))
			requireInvariants(t, e)
		}
		e.PointerUp()
	}
}

func TestProperty_MinimumSizeUnderRandomResizes(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	e, _ := newTestEditor(t, a4)
	id := e.AddTextBox(pt(300, 400))

	for range 300 {
		h := domain.Handles[r.Intn(len(domain.Handles))]
		e.Select(id)
		start := pt(float64(r.Intn(800)), float64(r.Intn(1100)))
		e.PointerDown(HitTarget{BoxID: id, Handle: h}, start)
		before, _ := e.TextBox(id)
		for range 4 {
			e.PointerMove(start.Add(pt(float64(r.Intn(3000)-1500), float64(r.Intn(3000)-1500))))
			after, _ := e.TextBox(id)
			require.GreaterOrEqual(t, after.Size.Width, domain.MinTextBoxWidth)
			require.GreaterOrEqual(t, after.Size.Height, domain.MinTextBoxHeight)
			requireInvariants(t, e)
			if !h.HasW() && !h.HasN() {
				require.Equal(t, before.Position, after.Position)
			}
			if h.HasW() {
				require.InDelta(t, before.Right(), after.Right(), 1e-9)
			}
			if h.HasN() {
				require.InDelta(t, before.Bottom(), after.Bottom(), 1e-9)
			}
		}
		e.PointerUp()
	}
}
