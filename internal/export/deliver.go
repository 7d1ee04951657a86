package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
)

// Deliverer hands a finished document to the user: a download, a file in a
// directory, the clipboard.
type Deliverer interface {
	Deliver(ctx context.Context, filename string, data []byte) error
}

// DeliverFunc adapts a function to Deliverer.
type DeliverFunc func(ctx context.Context, filename string, data []byte) error

func (f DeliverFunc) Deliver(ctx context.Context, filename string, data []byte) error {
	return f(ctx, filename, data)
}

// DirDeliverer writes documents into Dir, creating it if needed.
type DirDeliverer struct {
	Dir string
}

func (d DirDeliverer) Deliver(ctx context.Context, filename string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(d.Dir, filepath.Base(filename))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

// Path returns where Deliver writes filename.
func (d DirDeliverer) Path(filename string) string {
	return filepath.Join(d.Dir, filepath.Base(filename))
}

// ClipboardDeliverer copies textual documents (SVG markup) to the system
// clipboard. The filename is ignored.
type ClipboardDeliverer struct{}

func (ClipboardDeliverer) Deliver(ctx context.Context, _ string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard not available on this system")
	}
	return clipboard.WriteAll(string(data))
}
