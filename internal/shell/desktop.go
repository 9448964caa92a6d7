package shell

import (
	"context"
	"os"
	"path/filepath"
)

// PathPicker resolves the save dialog. It returns the chosen path, or an
// empty path when the user cancels.
type PathPicker func(ctx context.Context, defaultName string) (string, error)

// Desktop is the filesystem-backed shell used under a native desktop host.
// The dialog itself is delegated to the injected picker; without one, files
// land in SaveDir under the suggested name.
type Desktop struct {
	SaveDir string
	Picker  PathPicker
}

func (d *Desktop) SaveDialog(ctx context.Context, defaultName string) (string, error) {
	if d.Picker != nil {
		return d.Picker(ctx, defaultName)
	}
	if d.SaveDir == "" {
		return "", ErrUnavailable
	}
	if err := os.MkdirAll(d.SaveDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(d.SaveDir, defaultName), nil
}

func (d *Desktop) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

func (d *Desktop) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Share is not a desktop capability.
func (d *Desktop) Share(ctx context.Context, filename string, data []byte) error {
	return ErrUnavailable
}
