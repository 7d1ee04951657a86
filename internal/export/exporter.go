// Package export turns editor snapshots into documents (SVG, PNG, PDF) and
// hands them to a Deliverer. Rendering is a pure function of the snapshot;
// the zoom level never affects output.
package export

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode"

	"posterdesk/internal/domain"
)

// ErrExportFailed wraps every render or delivery failure.
var ErrExportFailed = errors.New("export failed")

type Format string

const (
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// ParseFormat accepts svg, pdf and png (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSVG, FormatPDF, FormatPNG:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Exporter renders snapshots and delivers the result.
type Exporter struct {
	deliver Deliverer
	scale   float64
}

// NewExporter creates an exporter. scale is the raster scale used for PNG
// and PDF output; zero selects DefaultPrintScale.
func NewExporter(d Deliverer, scale float64) *Exporter {
	if scale <= 0 {
		scale = DefaultPrintScale
	}
	return &Exporter{deliver: d, scale: scale}
}

// Render produces the document bytes for format without delivering them.
func (x *Exporter) Render(format Format, s domain.Snapshot) ([]byte, error) {
	switch format {
	case FormatSVG:
		return Vector(s)
	case FormatPDF:
		return Printable(s, PrintOptions{Scale: x.scale})
	case FormatPNG:
		return PNG(s, x.scale)
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

// Export renders s and delivers it as <slug(name)>.<format>. It returns
// the delivered file name.
func (x *Exporter) Export(ctx context.Context, format Format, name string, s domain.Snapshot) (string, error) {
	filename := Filename(name, format)
	data, err := x.Render(format, s)
	if err != nil {
		log.Printf("[EXPORT] render %s failed: %v", filename, err)
		return "", fmt.Errorf("%w: render %s: %v", ErrExportFailed, format, err)
	}
	if err := x.deliver.Deliver(ctx, filename, data); err != nil {
		log.Printf("[EXPORT] deliver %s failed: %v", filename, err)
		return "", fmt.Errorf("%w: deliver %s: %v", ErrExportFailed, filename, err)
	}
	log.Printf("[EXPORT] %s (%d bytes, %d boxes, page %s)", filename, len(data), len(s.TextBoxes), s.Page.Key)
	return filename, nil
}

func (x *Exporter) ExportVector(ctx context.Context, name string, s domain.Snapshot) (string, error) {
	return x.Export(ctx, FormatSVG, name, s)
}

func (x *Exporter) ExportPrintable(ctx context.Context, name string, s domain.Snapshot) (string, error) {
	return x.Export(ctx, FormatPDF, name, s)
}

func (x *Exporter) ExportPNG(ctx context.Context, name string, s domain.Snapshot) (string, error) {
	return x.Export(ctx, FormatPNG, name, s)
}

// Filename returns the download name for a poster title.
func Filename(name string, format Format) string {
	return Slug(name) + "." + string(format)
}

// Slug lower-cases name and collapses everything but letters and digits
// into single dashes. An empty result becomes "poster".
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "poster"
	}
	return s
}
