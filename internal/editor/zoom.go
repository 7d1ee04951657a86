package editor

import (
	"fmt"

	"posterdesk/internal/domain"
)

const (
	MinZoomPercent     = 50
	MaxZoomPercent     = 200
	ZoomStep           = 10
	DefaultZoomPercent = 100
)

// TransformOrigin is the fixed anchor the host scales the page around.
const TransformOrigin = "top center"

func clampZoom(p int) int {
	return max(MinZoomPercent, min(p, MaxZoomPercent))
}

// Zoom returns the zoom percentage.
func (e *Editor) Zoom() int { return e.zoom }

// Scale returns the zoom factor (zoomPercent / 100).
func (e *Editor) Scale() float64 { return float64(e.zoom) / 100 }

// SetZoom sets the zoom percentage, clamped to [MinZoomPercent, MaxZoomPercent].
func (e *Editor) SetZoom(percent int) {
	z := clampZoom(percent)
	if z == e.zoom {
		return
	}
	e.zoom = z
	e.changed(OpZoom, "", false)
}

func (e *Editor) ZoomIn()  { e.SetZoom(e.zoom + ZoomStep) }
func (e *Editor) ZoomOut() { e.SetZoom(e.zoom - ZoomStep) }

// SetCanvasOrigin records the view-space position of the page's top-left
// corner. Hosts call it whenever the canvas is laid out or scrolled.
func (e *Editor) SetCanvasOrigin(origin domain.Point) { e.origin = origin }

// CanvasOrigin returns the last origin set with SetCanvasOrigin.
func (e *Editor) CanvasOrigin() domain.Point { return e.origin }

// ViewToModel converts a view-space point to page-space.
func (e *Editor) ViewToModel(view domain.Point) domain.Point {
	return view.Sub(e.origin).Div(e.Scale())
}

// ModelToView converts a page-space point to view-space.
func (e *Editor) ModelToView(model domain.Point) domain.Point {
	return model.Scale(e.Scale()).Add(e.origin)
}

// OnWheel handles a wheel event. It acts only when the zoom modifier is
// held: the platform default is suppressed and zoom moves one step, in for
// negative delta and out for positive. A zero delta is consumed without
// zooming. It reports whether the event was consumed.
func (e *Editor) OnWheel(ev WheelEvent) bool {
	if !ev.Modifier {
		return false
	}
	if ev.Suppress != nil {
		ev.Suppress()
	}
	switch {
	case ev.DeltaY < 0:
		e.ZoomIn()
	case ev.DeltaY > 0:
		e.ZoomOut()
	}
	return true
}

// ViewTransform tells the host how to scale the rendered page.
type ViewTransform struct {
	Scale  float64 `json:"scale"`
	Origin string  `json:"origin"`
	CSS    string  `json:"css"`
}

// Transform returns the current view transform.
func (e *Editor) Transform() ViewTransform {
	s := e.Scale()
	return ViewTransform{
		Scale:  s,
		Origin: TransformOrigin,
		CSS:    fmt.Sprintf("scale(%g)", s),
	}
}
