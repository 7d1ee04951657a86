package app

import (
	"context"
	"fmt"
	"os"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"posterdesk/internal/export"
	"posterdesk/internal/service"
)

// ============================================================
// Export
// ============================================================

var exportFilters = map[export.Format]wailsRuntime.FileFilter{
	export.FormatSVG: {DisplayName: "SVG Image", Pattern: "*.svg"},
	export.FormatPDF: {DisplayName: "PDF Document", Pattern: "*.pdf"},
	export.FormatPNG: {DisplayName: "PNG Image", Pattern: "*.png"},
}

// saveDialog asks where to save filename. An empty path means the user
// cancelled.
func (a *App) saveDialog(filename string, format export.Format) (string, error) {
	return wailsRuntime.SaveFileDialog(a.ctx, wailsRuntime.SaveDialogOptions{
		Title:           "Export Poster",
		DefaultFilename: filename,
		Filters:         []wailsRuntime.FileFilter{exportFilters[format]},
	})
}

// fileDeliverer writes the rendered document to the path the user chose.
func fileDeliverer(path string) export.Deliverer {
	return export.DeliverFunc(func(ctx context.Context, _ string, data []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return nil
	})
}

// ExportPoster renders the session and saves it where the user picks.
// It returns the saved path, or "" when the dialog was cancelled.
func (a *App) ExportPoster(sessionID, format string) (string, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return "", err
	}
	_, title, err := a.core.Editors.Snapshot(sessionID)
	if err != nil {
		return "", err
	}
	path, err := a.saveDialog(export.Filename(title, f), f)
	if err != nil || path == "" {
		return "", err
	}
	if _, err := a.core.Exports.Export(a.ctx, sessionID, f, fileDeliverer(path)); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "[EXPORT] %s: %v", sessionID, err)
		return "", err
	}
	return path, nil
}

// ExportTemplate renders a saved template without opening it.
func (a *App) ExportTemplate(templateID, format string) (string, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return "", err
	}
	t, _, err := a.core.Templates.Load(templateID)
	if err != nil {
		return "", err
	}
	path, err := a.saveDialog(export.Filename(t.Title, f), f)
	if err != nil || path == "" {
		return "", err
	}
	if _, err := a.core.Exports.ExportTemplate(a.ctx, templateID, f, fileDeliverer(path)); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "[EXPORT] template %s: %v", templateID, err)
		return "", err
	}
	return path, nil
}

// CopySVG puts the session's SVG markup on the clipboard.
func (a *App) CopySVG(sessionID string) (service.ExportResult, error) {
	return a.core.Exports.Export(a.ctx, sessionID, export.FormatSVG, export.ClipboardDeliverer{})
}
