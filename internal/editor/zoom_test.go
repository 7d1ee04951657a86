package editor

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posterdesk/internal/domain"
)

// Scenario E: zooming in from the maximum stays at the maximum.
func TestZoomIn_ClampsAtMax(t *testing.T) {
	e, _ := newTestEditor(t, a4, WithZoom(200))

	for range 9 {
		e.ZoomIn()
		assert.LessOrEqual(t, e.Zoom(), MaxZoomPercent)
	}
	assert.Equal(t, 200, e.Zoom())
}

func TestZoomOut_ClampsAtMin(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	for range 20 {
		e.ZoomOut()
	}
	assert.Equal(t, MinZoomPercent, e.Zoom())
}

func TestSetZoom(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{100, 100},
		{120, 120},
		{10, 50},
		{500, 200},
		{-1, 50},
	}
	for _, tt := range tests {
		e, _ := newTestEditor(t, a4)
		e.SetZoom(tt.in)
		assert.Equal(t, tt.want, e.Zoom(), "SetZoom(%d)", tt.in)
	}
}

func TestNewEditor_DefaultZoom(t *testing.T) {
	e := NewEditor(a4)
	assert.Equal(t, DefaultZoomPercent, e.Zoom())
	assert.Equal(t, 1.0, e.Scale())
}

func TestOnWheel(t *testing.T) {
	tests := []struct {
		name       string
		ev         WheelEvent
		want       int
		consumed   bool
		suppressed bool
	}{
		{"ctrl up zooms in", WheelEvent{DeltaY: -3, Modifier: true}, 110, true, true},
		{"ctrl down zooms out", WheelEvent{DeltaY: 1, Modifier: true}, 90, true, true},
		{"large delta is one step", WheelEvent{DeltaY: -480, Modifier: true}, 110, true, true},
		{"no modifier passes through", WheelEvent{DeltaY: -3}, 100, false, false},
		{"zero delta", WheelEvent{Modifier: true}, 100, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEditor(t, a4)
			suppressed := false
			tt.ev.Suppress = func() { suppressed = true }

			consumed := e.OnWheel(tt.ev)

			assert.Equal(t, tt.consumed, consumed)
			assert.Equal(t, tt.suppressed, suppressed)
			assert.Equal(t, tt.want, e.Zoom())
		})
	}
}

func TestOnWheel_NilSuppress(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	assert.True(t, e.OnWheel(WheelEvent{DeltaY: -1, Modifier: true}))
	assert.Equal(t, 110, e.Zoom())
}

func TestProperty_ZoomBounds(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	e, _ := newTestEditor(t, a4)
	for range 500 {
		switch r.Intn(3) {
		case 0:
			e.ZoomIn()
		case 1:
			e.ZoomOut()
		default:
			e.OnWheel(WheelEvent{DeltaY: r.Float64()*200 - 100, Modifier: r.Intn(2) == 0})
		}
		require.GreaterOrEqual(t, e.Zoom(), MinZoomPercent)
		require.LessOrEqual(t, e.Zoom(), MaxZoomPercent)
	}
}

func TestViewModelRoundTrip(t *testing.T) {
	e, _ := newTestEditor(t, a4, WithZoom(150))
	e.SetCanvasOrigin(pt(40, 12))

	m := e.ViewToModel(pt(190, 162))
	assert.Equal(t, pt(100, 100), m)
	assert.Equal(t, pt(190, 162), e.ModelToView(m))
}

func TestTransform(t *testing.T) {
	e, _ := newTestEditor(t, a4, WithZoom(80))

	tr := e.Transform()

	assert.Equal(t, 0.8, tr.Scale)
	assert.Equal(t, "top center", tr.Origin)
	assert.Equal(t, "scale(0.8)", tr.CSS)
}

func TestPump_ReplaysGestureAndWheel(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	id := e.AddTextBox(pt(50, 50))

	events := Gesture(HitTarget{BoxID: id}, pt(60, 60), pt(70, 80), pt(160, 260))
	events = append(events, WheelEvent{DeltaY: -1, Modifier: true})

	require.NoError(t, e.Pump(context.Background(), NewSliceSource(events...)))

	b, _ := e.TextBox(id)
	assert.Equal(t, pt(150, 250), b.Position)
	assert.Equal(t, 110, e.Zoom())
	assert.Equal(t, "idle", domain.SessionKind(e.Session()))
}

func TestPump_StopsOnCancel(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.Pump(ctx, NewSliceSource(WheelEvent{DeltaY: -1, Modifier: true}))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 100, e.Zoom())
}

func TestDispatch_WheelReportsConsumed(t *testing.T) {
	e, _ := newTestEditor(t, a4)
	assert.True(t, e.Dispatch(WheelEvent{DeltaY: 2, Modifier: true}))
	assert.False(t, e.Dispatch(WheelEvent{DeltaY: 2}))
	assert.False(t, e.Dispatch(PointerEvent{Kind: PointerUpKind}))
}
