package export

import (
	"fmt"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"

	"posterdesk/internal/domain"
)

// Text is measured and rasterized with the Go fonts. Families that name a
// monospace face map to Go Mono; everything else maps to Go (sans).

type variant struct {
	mono, bold, italic bool
}

var fontData = map[variant][]byte{
	{false, false, false}: goregular.TTF,
	{false, true, false}:  gobold.TTF,
	{false, false, true}:  goitalic.TTF,
	{false, true, true}:   gobolditalic.TTF,
	{true, false, false}:  gomono.TTF,
	{true, true, false}:   gomonobold.TTF,
	{true, false, true}:   gomonoitalic.TTF,
	{true, true, true}:    gomonobolditalic.TTF,
}

var monoFamilies = []string{"mono", "courier", "consolas", "menlo", "monaco"}

func variantFor(st domain.Style) variant {
	fam := strings.ToLower(st.FontFamily)
	mono := false
	for _, m := range monoFamilies {
		if strings.Contains(fam, m) {
			mono = true
			break
		}
	}
	return variant{
		mono:   mono,
		bold:   st.FontWeight == domain.FontWeightBold,
		italic: st.FontStyle == domain.FontStyleItalic,
	}
}

type faceKey struct {
	v    variant
	size float64
}

// fontCache parses each font once and caches faces by size.
// Faces are not safe for concurrent use, so callers hold the lock
// while measuring or drawing with one.
type fontCache struct {
	mu    sync.Mutex
	fonts map[variant]*truetype.Font
	faces map[faceKey]font.Face
}

var fonts = &fontCache{
	fonts: make(map[variant]*truetype.Font),
	faces: make(map[faceKey]font.Face),
}

func (c *fontCache) face(st domain.Style, size float64) (font.Face, error) {
	v := variantFor(st)
	key := faceKey{v: v, size: size}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	ttf, ok := c.fonts[v]
	if !ok {
		parsed, err := truetype.Parse(fontData[v])
		if err != nil {
			return nil, fmt.Errorf("parse font: %w", err)
		}
		c.fonts[v] = parsed
		ttf = parsed
	}
	f := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	c.faces[key] = f
	return f, nil
}
