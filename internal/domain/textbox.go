package domain

// Minimum footprint of a text box in page-space pixels.
const (
	MinTextBoxWidth  = 100.0
	MinTextBoxHeight = 50.0

	DefaultTextBoxWidth  = 200.0
	DefaultTextBoxHeight = 100.0
	DefaultTextBoxText   = "Text"
)

type FontWeight string

const (
	FontWeightNormal FontWeight = "normal"
	FontWeightBold   FontWeight = "bold"
)

type FontStyle string

const (
	FontStyleNormal FontStyle = "normal"
	FontStyleItalic FontStyle = "italic"
)

type TextDecoration string

const (
	TextDecorationNone      TextDecoration = "none"
	TextDecorationUnderline TextDecoration = "underline"
)

type TextAlign string

const (
	TextAlignLeft   TextAlign = "left"
	TextAlignCenter TextAlign = "center"
	TextAlignRight  TextAlign = "right"
)

// Valid reports whether a is one of the known alignments.
func (a TextAlign) Valid() bool {
	switch a {
	case TextAlignLeft, TextAlignCenter, TextAlignRight:
		return true
	}
	return false
}

type BorderStyle string

const (
	BorderStyleNone  BorderStyle = "none"
	BorderStyleSolid BorderStyle = "solid"
)

// Style is the typographic and border styling of a text box.
// It is a value object: mutations copy it.
type Style struct {
	FontSize       float64        `json:"fontSize"`
	FontFamily     string         `json:"fontFamily"`
	FontWeight     FontWeight     `json:"fontWeight"`
	FontStyle      FontStyle      `json:"fontStyle"`
	TextDecoration TextDecoration `json:"textDecoration"`
	TextAlign      TextAlign      `json:"textAlign"`
	BorderWidth    float64        `json:"borderWidth"`
	BorderStyle    BorderStyle    `json:"borderStyle"`
}

// DefaultStyle returns the style given to newly added text boxes.
func DefaultStyle() Style {
	return Style{
		FontSize:       16,
		FontFamily:     "Arial",
		FontWeight:     FontWeightNormal,
		FontStyle:      FontStyleNormal,
		TextDecoration: TextDecorationNone,
		TextAlign:      TextAlignLeft,
		BorderWidth:    1,
		BorderStyle:    BorderStyleNone,
	}
}

// StyleField names a single field of Style for UpdateStyle.
type StyleField string

const (
	StyleFontSize       StyleField = "fontSize"
	StyleFontFamily     StyleField = "fontFamily"
	StyleFontWeight     StyleField = "fontWeight"
	StyleFontStyle      StyleField = "fontStyle"
	StyleTextDecoration StyleField = "textDecoration"
	StyleTextAlign      StyleField = "textAlign"
	StyleBorderWidth    StyleField = "borderWidth"
	StyleBorderStyle    StyleField = "borderStyle"
)

// Point is a 2D coordinate. Whether it is page-space or view-space
// depends on the caller.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale multiplies both coordinates by f.
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

// Div divides both coordinates by f.
func (p Point) Div(f float64) Point { return Point{p.X / f, p.Y / f} }

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextBox is a free-form text element placed on the page.
// Position and size are page-space pixels at 100% zoom.
type TextBox struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	Position Point  `json:"position"`
	Size     Size   `json:"size"`
	Style    Style  `json:"style"`
}

// Right returns the page-space x of the box's right edge.
func (t TextBox) Right() float64 { return t.Position.X + t.Size.Width }

// Bottom returns the page-space y of the box's bottom edge.
func (t TextBox) Bottom() float64 { return t.Position.Y + t.Size.Height }

// Within reports whether the box satisfies the page-bound and
// minimum-size invariants for page p.
func (t TextBox) Within(p PageSize) bool {
	return t.Position.X >= 0 && t.Position.Y >= 0 &&
		t.Right() <= p.WidthPx && t.Bottom() <= p.HeightPx &&
		t.Size.Width >= MinTextBoxWidth && t.Size.Height >= MinTextBoxHeight
}
