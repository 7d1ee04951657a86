package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"posterdesk/internal/domain"
)

// MaxRasterPixels bounds the pixel count of a rendered page.
const MaxRasterPixels = 100_000_000

// Raster draws s at the given scale (1 = one image pixel per page pixel).
func Raster(s domain.Snapshot, scale float64) (image.Image, error) {
	dc, err := render(s, scale)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func render(s domain.Snapshot, scale float64) (*gg.Context, error) {
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Ceil(s.Page.WidthPx * scale))
	h := int(math.Ceil(s.Page.HeightPx * scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid page size %vx%v", s.Page.WidthPx, s.Page.HeightPx)
	}
	if w*h > MaxRasterPixels {
		return nil, fmt.Errorf("page too large to rasterize at scale %v", scale)
	}

	layouts, err := layoutSnapshot(s)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()

	fonts.mu.Lock()
	defer fonts.mu.Unlock()
	for _, l := range layouts {
		if err := drawBox(dc, l, scale); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

func drawBox(dc *gg.Context, l boxLayout, scale float64) error {
	b, st := l.Box, l.Box.Style
	x, y := b.Position.X*scale, b.Position.Y*scale
	bw, bh := b.Size.Width*scale, b.Size.Height*scale

	face, err := fonts.face(st, st.FontSize*scale)
	if err != nil {
		return err
	}

	dc.Push()
	dc.DrawRectangle(x, y, bw, bh)
	dc.Clip()
	dc.SetFontFace(face)
	dc.SetColor(color.Black)
	for _, ln := range l.Lines {
		if ln.Text == "" {
			continue
		}
		lx := ln.left(st.TextAlign) * scale
		by := ln.Baseline * scale
		dc.DrawString(ln.Text, lx, by)
		if st.TextDecoration == domain.TextDecorationUnderline {
			thick := math.Max(1, st.FontSize/16) * scale
			uy := by + thick*1.5
			dc.SetLineWidth(thick)
			dc.DrawLine(lx, uy, lx+ln.Width*scale, uy)
			dc.Stroke()
		}
	}
	dc.ResetClip()
	dc.Pop()

	if st.BorderStyle == domain.BorderStyleSolid && st.BorderWidth > 0 {
		lw := st.BorderWidth * scale
		dc.SetColor(color.Black)
		dc.SetLineWidth(lw)
		dc.DrawRectangle(x+lw/2, y+lw/2, math.Max(0, bw-lw), math.Max(0, bh-lw))
		dc.Stroke()
	}
	return nil
}

// PNG encodes the raster of s.
func PNG(s domain.Snapshot, scale float64) ([]byte, error) {
	dc, err := render(s, scale)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
