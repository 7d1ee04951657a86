package mcpserver

import (
	"testing"

	"posterdesk/internal/domain"
)

var a4 = domain.PageSize{Key: "A4", WidthPx: 794, HeightPx: 1123}

func tb(x, y, w, h float64) domain.TextBox {
	return domain.TextBox{Position: domain.Point{X: x, Y: y}, Size: domain.Size{Width: w, Height: h}}
}

func TestNextPosition_EmptyPage(t *testing.T) {
	le := NewLayoutEngine()
	p := le.NextPosition(a4, nil, domain.Size{Width: 200, Height: 100})
	if p != (domain.Point{}) {
		t.Errorf("expected (0, 0) for empty page, got %+v", p)
	}
}

func TestNextPosition_AvoidsExistingBoxes(t *testing.T) {
	le := NewLayoutEngine()
	existing := []domain.TextBox{tb(0, 0, 200, 100), tb(220, 0, 200, 100)}
	size := domain.Size{Width: 200, Height: 100}

	p := le.NextPosition(a4, existing, size)

	r := rect{p.X, p.Y, size.Width, size.Height}
	for _, b := range existing {
		padded := rect{b.Position.X - Padding, b.Position.Y - Padding, b.Size.Width + Padding*2, b.Size.Height + Padding*2}
		if r.intersects(padded) {
			t.Errorf("position %+v overlaps box at %+v", p, b.Position)
		}
	}
	if p.X+size.Width > a4.WidthPx || p.Y+size.Height > a4.HeightPx {
		t.Errorf("position %+v leaves the page", p)
	}
}

func TestNextPosition_FullPage(t *testing.T) {
	le := NewLayoutEngine()
	p := le.NextPosition(a4, []domain.TextBox{tb(0, 0, 794, 1123)}, domain.Size{Width: 100, Height: 50})
	if p != (domain.Point{}) {
		t.Errorf("expected fallback to origin, got %+v", p)
	}
}

func TestArrange(t *testing.T) {
	le := NewLayoutEngine()
	boxes := []domain.TextBox{tb(0, 0, 300, 100), tb(0, 0, 300, 150), tb(0, 0, 300, 100)}

	got := le.Arrange(a4, boxes)

	if got[0] != (domain.Point{X: 40, Y: 40}) {
		t.Errorf("first box at %+v, want (40, 40)", got[0])
	}
	if got[1].Y != got[0].Y || got[1].X <= got[0].X {
		t.Errorf("second box should share the first row, got %+v", got[1])
	}
	// 40 + 300 + 20 + 300 + 20 + 300 > 794 - 40, so the third wraps below the taller box.
	if got[2].X != 40 || got[2].Y != 40+150+Padding {
		t.Errorf("third box at %+v, want (40, %v)", got[2], 40+150+Padding)
	}
}
