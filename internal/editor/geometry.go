package editor

import "posterdesk/internal/domain"

// clamp limits v to [lo, hi]. When hi < lo the lower bound wins, so a
// minimum size is never violated.
func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// fitBox returns b moved and, if necessary, shrunk so that it lies inside
// page p and respects the minimum footprint.
func fitBox(b domain.TextBox, p domain.PageSize) domain.TextBox {
	b.Size.Width = clamp(b.Size.Width, domain.MinTextBoxWidth, p.WidthPx)
	b.Size.Height = clamp(b.Size.Height, domain.MinTextBoxHeight, p.HeightPx)
	b.Position.X = clamp(b.Position.X, 0, p.WidthPx-b.Size.Width)
	b.Position.Y = clamp(b.Position.Y, 0, p.HeightPx-b.Size.Height)
	return b
}
