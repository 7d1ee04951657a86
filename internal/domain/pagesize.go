package domain

import "fmt"

// PageSize is a named page preset with fixed pixel dimensions at 100% zoom.
type PageSize struct {
	Key      string  `json:"key"`
	WidthPx  float64 `json:"widthPx"`
	HeightPx float64 `json:"heightPx"`
}

// Points returns the page dimensions in PDF points (1px = 0.75pt at 96 dpi).
func (p PageSize) Points() (w, h float64) {
	return p.WidthPx * 0.75, p.HeightPx * 0.75
}

// FitsTextBox reports whether p can hold a minimum-size text box.
func (p PageSize) FitsTextBox() bool {
	return p.WidthPx >= MinTextBoxWidth && p.HeightPx >= MinTextBoxHeight
}

// DefaultPageSizeKey is used when configuration names no default.
const DefaultPageSizeKey = "A4"

// BuiltinPageSizes are the presets used when configuration supplies none.
// Dimensions are CSS pixels at 96 dpi, portrait.
func BuiltinPageSizes() []PageSize {
	return []PageSize{
		{Key: "A0", WidthPx: 3179, HeightPx: 4494},
		{Key: "A1", WidthPx: 2245, HeightPx: 3179},
		{Key: "A2", WidthPx: 1587, HeightPx: 2245},
		{Key: "A3", WidthPx: 1123, HeightPx: 1587},
		{Key: "A4", WidthPx: 794, HeightPx: 1123},
		{Key: "A5", WidthPx: 559, HeightPx: 794},
		{Key: "Letter", WidthPx: 816, HeightPx: 1056},
		{Key: "Legal", WidthPx: 816, HeightPx: 1344},
	}
}

// PageSizes is an immutable lookup table of page presets.
type PageSizes struct {
	order      []PageSize
	byKey      map[string]PageSize
	defaultKey string
}

// NewPageSizes builds a registry from presets. Keys must be unique and
// every preset must fit at least one minimum-size text box.
// If defaultKey is empty or unknown the first preset is the default.
func NewPageSizes(presets []PageSize, defaultKey string) (*PageSizes, error) {
	if len(presets) == 0 {
		return nil, fmt.Errorf("page sizes: no presets")
	}
	r := &PageSizes{byKey: make(map[string]PageSize, len(presets))}
	for _, p := range presets {
		if p.Key == "" {
			return nil, fmt.Errorf("page sizes: preset with empty key")
		}
		if _, dup := r.byKey[p.Key]; dup {
			return nil, fmt.Errorf("page sizes: duplicate key %q", p.Key)
		}
		if !p.FitsTextBox() {
			return nil, fmt.Errorf("page sizes: %q (%.0fx%.0f) smaller than minimum text box", p.Key, p.WidthPx, p.HeightPx)
		}
		r.byKey[p.Key] = p
		r.order = append(r.order, p)
	}
	r.defaultKey = r.order[0].Key
	if _, ok := r.byKey[defaultKey]; ok {
		r.defaultKey = defaultKey
	}
	return r, nil
}

// MustBuiltinPageSizes returns the built-in registry.
func MustBuiltinPageSizes() *PageSizes {
	r, err := NewPageSizes(BuiltinPageSizes(), DefaultPageSizeKey)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the preset for key.
func (r *PageSizes) Lookup(key string) (PageSize, bool) {
	p, ok := r.byKey[key]
	return p, ok
}

// All returns the presets in configuration order.
func (r *PageSizes) All() []PageSize {
	out := make([]PageSize, len(r.order))
	copy(out, r.order)
	return out
}

// Default returns the default preset.
func (r *PageSizes) Default() PageSize {
	return r.byKey[r.defaultKey]
}

// Resolve returns the preset for key, or the default when key is unknown.
func (r *PageSizes) Resolve(key string) PageSize {
	if p, ok := r.byKey[key]; ok {
		return p
	}
	return r.Default()
}
