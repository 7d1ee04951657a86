package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"posterdesk/internal/domain"
)

const textColor = "#000000"

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func esc(s string) string {
	var b bytes.Buffer
	// EscapeText only fails when the writer does.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func anchorFor(a domain.TextAlign) string {
	switch a {
	case domain.TextAlignCenter:
		return "middle"
	case domain.TextAlignRight:
		return "end"
	}
	return "start"
}

// layoutSnapshot lays out every box of s at 100% scale.
func layoutSnapshot(s domain.Snapshot) ([]boxLayout, error) {
	fonts.mu.Lock()
	defer fonts.mu.Unlock()

	out := make([]boxLayout, 0, len(s.TextBoxes))
	for _, b := range s.TextBoxes {
		face, err := fonts.face(b.Style, b.Style.FontSize)
		if err != nil {
			return nil, err
		}
		out = append(out, layoutBox(b, face))
	}
	return out, nil
}

// Vector renders s as a standalone SVG document the size of the page.
func Vector(s domain.Snapshot) ([]byte, error) {
	layouts, err := layoutSnapshot(s)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	w, h := num(s.Page.WidthPx), num(s.Page.HeightPx)
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" data-page="%s">`+"\n",
		w, h, w, h, esc(s.Page.Key))
	fmt.Fprintf(&buf, `<rect x="0" y="0" width="%s" height="%s" fill="#ffffff"/>`+"\n", w, h)

	if len(layouts) > 0 {
		buf.WriteString("<defs>\n")
		for i, l := range layouts {
			b := l.Box
			fmt.Fprintf(&buf, `<clipPath id="clip-%d"><rect x="%s" y="%s" width="%s" height="%s"/></clipPath>`+"\n",
				i, num(b.Position.X), num(b.Position.Y), num(b.Size.Width), num(b.Size.Height))
		}
		buf.WriteString("</defs>\n")
	}

	for i, l := range layouts {
		writeBox(&buf, i, l)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func writeBox(buf *bytes.Buffer, i int, l boxLayout) {
	b, st := l.Box, l.Box.Style
	fmt.Fprintf(buf, `<g id="box-%s" clip-path="url(#clip-%d)">`+"\n", esc(b.ID), i)
	fmt.Fprintf(buf, `<text font-family="%s" font-size="%s" font-weight="%s" font-style="%s" text-anchor="%s" fill="%s"`,
		esc(st.FontFamily), num(st.FontSize), st.FontWeight, st.FontStyle, anchorFor(st.TextAlign), textColor)
	if st.TextDecoration == domain.TextDecorationUnderline {
		buf.WriteString(` text-decoration="underline"`)
	}
	buf.WriteString(` xml:space="preserve">`)
	for _, ln := range l.Lines {
		if ln.Text == "" {
			continue
		}
		fmt.Fprintf(buf, `<tspan x="%s" y="%s">%s</tspan>`, num(ln.X), num(ln.Baseline), esc(ln.Text))
	}
	buf.WriteString("</text>\n</g>\n")

	if st.BorderStyle == domain.BorderStyleSolid && st.BorderWidth > 0 {
		half := st.BorderWidth / 2
		fmt.Fprintf(buf, `<rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" stroke-width="%s"/>`+"\n",
			num(b.Position.X+half), num(b.Position.Y+half),
			num(max(0, b.Size.Width-st.BorderWidth)), num(max(0, b.Size.Height-st.BorderWidth)),
			textColor, num(st.BorderWidth))
	}
}
