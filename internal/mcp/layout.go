package mcpserver

import (
	"math"

	"posterdesk/internal/domain"
)

const (
	GridSize = 10.0 // snap step in page pixels
	Padding  = 20.0 // gap kept around existing boxes
	Margin   = 40.0 // distance from the page edge for arranged boxes
)

// LayoutEngine places boxes created by agents so they don't overlap
// existing ones.
type LayoutEngine struct {
	gridSize float64
	padding  float64
	margin   float64
}

func NewLayoutEngine() *LayoutEngine {
	return &LayoutEngine{
		gridSize: GridSize,
		padding:  Padding,
		margin:   Margin,
	}
}

// snap rounds v to the nearest grid point.
func (le *LayoutEngine) snap(v float64) float64 {
	return math.Round(v/le.gridSize) * le.gridSize
}

// rect is a simple axis-aligned bounding box.
type rect struct {
	x, y, w, h float64
}

func (a rect) intersects(b rect) bool {
	return a.x < b.x+b.w && a.x+a.w > b.x &&
		a.y < b.y+b.h && a.y+a.h > b.y
}

func boxRect(b domain.TextBox) rect {
	return rect{b.Position.X, b.Position.Y, b.Size.Width, b.Size.Height}
}

// NextPosition finds the first grid position on page, scanning rows top
// to bottom, where a box of size fits without touching existing boxes.
// A full page yields the top-left corner.
func (le *LayoutEngine) NextPosition(page domain.PageSize, existing []domain.TextBox, size domain.Size) domain.Point {
	occupied := make([]rect, len(existing))
	for i, b := range existing {
		r := boxRect(b)
		occupied[i] = rect{r.x - le.padding, r.y - le.padding, r.w + le.padding*2, r.h + le.padding*2}
	}

	candidate := rect{w: size.Width, h: size.Height}
	for y := 0.0; y+size.Height <= page.HeightPx; y += le.gridSize {
		for x := 0.0; x+size.Width <= page.WidthPx; x += le.gridSize {
			candidate.x = le.snap(x)
			candidate.y = le.snap(y)
			overlaps := false
			for _, occ := range occupied {
				if candidate.intersects(occ) {
					overlaps = true
					break
				}
			}
			if !overlaps {
				return domain.Point{X: candidate.x, Y: candidate.y}
			}
		}
	}
	return domain.Point{}
}

// Arrange returns new positions for boxes laid out in reading order, row
// by row inside the page margins. Sizes are untouched; positions are not
// clamped, the editor does that when they are applied.
func (le *LayoutEngine) Arrange(page domain.PageSize, boxes []domain.TextBox) []domain.Point {
	out := make([]domain.Point, len(boxes))
	x, y := le.margin, le.margin
	rowHeight := 0.0
	for i, b := range boxes {
		if x > le.margin && x+b.Size.Width > page.WidthPx-le.margin {
			x = le.margin
			y += rowHeight + le.padding
			rowHeight = 0
		}
		out[i] = domain.Point{X: le.snap(x), Y: le.snap(y)}
		x += b.Size.Width + le.padding
		if b.Size.Height > rowHeight {
			rowHeight = b.Size.Height
		}
	}
	return out
}
