package export

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"

	"posterdesk/internal/domain"
)

const (
	// BoxPadding is the inner padding between a box edge and its text.
	BoxPadding = 4.0
	// LineHeight is the line advance as a multiple of the font size.
	LineHeight = 1.2
)

// line is one wrapped line of a box, in page-space pixels.
type line struct {
	Text     string
	X        float64 // anchor x; meaning depends on alignment
	Baseline float64
	Width    float64
}

type boxLayout struct {
	Box   domain.TextBox
	Lines []line
}

var breakReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\u2028", "\n", "\u2029", "\n")

// layoutBox wraps the box content to the inner box width using face and
// positions each line. Lines that fall below the box are kept; renderers
// clip them.
func layoutBox(b domain.TextBox, face font.Face) boxLayout {
	inner := b.Size.Width - 2*BoxPadding
	measure := func(s string) float64 {
		return float64(font.MeasureString(face, s)) / 64
	}

	var texts []string
	for _, para := range strings.Split(breakReplacer.Replace(b.Content), "\n") {
		texts = append(texts, wrap(para, inner, measure)...)
	}

	ascent := float64(face.Metrics().Ascent) / 64
	lh := b.Style.FontSize * LineHeight
	top := b.Position.Y + BoxPadding + (lh-b.Style.FontSize)/2

	lines := make([]line, len(texts))
	for i, t := range texts {
		w := measure(t)
		var x float64
		switch b.Style.TextAlign {
		case domain.TextAlignCenter:
			x = b.Position.X + b.Size.Width/2
		case domain.TextAlignRight:
			x = b.Right() - BoxPadding
		default:
			x = b.Position.X + BoxPadding
		}
		lines[i] = line{Text: t, X: x, Baseline: top + ascent + float64(i)*lh, Width: w}
	}
	return boxLayout{Box: b, Lines: lines}
}

// left returns the x of the line's left edge given its alignment.
func (l line) left(align domain.TextAlign) float64 {
	switch align {
	case domain.TextAlignCenter:
		return l.X - l.Width/2
	case domain.TextAlignRight:
		return l.X - l.Width
	}
	return l.X
}

// wrap greedily breaks para into lines no wider than width. Words wider
// than a whole line are split between runes.
func wrap(para string, width float64, measure func(string) float64) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}
	var out []string
	cur := ""
	for _, w := range words {
		cand := w
		if cur != "" {
			cand = cur + " " + w
		}
		if measure(cand) <= width {
			cur = cand
			continue
		}
		if cur != "" {
			out = append(out, cur)
			cur = ""
		}
		for measure(w) > width && utf8.RuneCountInString(w) > 1 {
			head, rest := splitToWidth(w, width, measure)
			out = append(out, head)
			w = rest
		}
		cur = w
	}
	return append(out, cur)
}

func splitToWidth(w string, width float64, measure func(string) float64) (string, string) {
	runes := []rune(w)
	n := 1
	for n < len(runes) && measure(string(runes[:n+1])) <= width {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
