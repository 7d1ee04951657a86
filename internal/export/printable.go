package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"posterdesk/internal/domain"
)

// DefaultPrintScale is the raster resolution of printable pages relative
// to the 96 dpi page (2 = 192 dpi).
const DefaultPrintScale = 2.0

func init() {
	// pdfcpu would otherwise create a config directory under the user's home.
	api.DisableConfigDir()
}

type PrintOptions struct {
	Scale float64
}

// Printable renders s as a single-page PDF whose media box equals the page
// size in points.
func Printable(s domain.Snapshot, opts PrintOptions) ([]byte, error) {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultPrintScale
	}
	img, err := PNG(s, scale)
	if err != nil {
		return nil, err
	}

	wPt, hPt := s.Page.Points()
	imp := pdfcpu.DefaultImportConfig()
	imp.PageDim = &types.Dim{Width: wPt, Height: hPt}
	imp.UserDim = true
	imp.Pos = types.Full

	conf := model.NewDefaultConfiguration()
	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, []io.Reader{bytes.NewReader(img)}, imp, conf); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	return out.Bytes(), nil
}
