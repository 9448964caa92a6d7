// Package shell abstracts the native host capabilities used by the sync
// adapter: save dialog, raw file IO and the platform share sheet. Every
// capability may be absent depending on the platform.
package shell

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the platform does not expose the requested
// capability. The caller treats it as "try the next strategy", not a failure.
var ErrUnavailable = errors.New("capability not available on this platform")

type Shell interface {
	// SaveDialog asks the user where to store a file. An empty path with a
	// nil error means the user cancelled the dialog.
	SaveDialog(ctx context.Context, defaultName string) (string, error)

	WriteFile(path string, data []byte) error
	ReadFile(path string) ([]byte, error)

	// Share hands the payload to the platform share sheet.
	Share(ctx context.Context, filename string, data []byte) error
}
