package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"booth-client/internal/env"
	"booth-client/internal/logger"
	"booth-client/internal/shell"
)

// Outcome is the tri-state result of one persistence attempt. The adapter
// short-circuits on Handled or Cancelled and falls through on NotApplicable.
type Outcome int

const (
	NotApplicable Outcome = iota
	Handled
	Cancelled
)

type PersistResult struct {
	Outcome Outcome
	Path    string
}

// PersistStrategy stores exported archive bytes in one environment-specific
// way. Strategies are resolved once at construction, not per call site.
type PersistStrategy interface {
	Name() string
	Persist(ctx context.Context, data []byte, suggestedName string) (PersistResult, error)
}

// DialogStrategy drives the native save dialog plus a direct byte write. It
// is the first choice under both native shells. Under the mobile shell a
// missing dialog/write capability falls through instead of failing, matching
// the desktop-first behavior of the original shells.
type DialogStrategy struct {
	Shell  shell.Shell
	Env    env.Environment
	Logger *logger.Logger
}

func (s *DialogStrategy) Name() string { return "save-dialog" }

func (s *DialogStrategy) Persist(ctx context.Context, data []byte, suggestedName string) (PersistResult, error) {
	if !s.Env.Native() || s.Shell == nil {
		return PersistResult{Outcome: NotApplicable}, nil
	}

	path, err := s.Shell.SaveDialog(ctx, suggestedName)
	if err != nil {
		if s.Env == env.NativeMobile || errors.Is(err, shell.ErrUnavailable) {
			s.Logger.Warn("SYNC", fmt.Sprintf("save dialog unavailable, falling through: %v", err))
			return PersistResult{Outcome: NotApplicable}, nil
		}
		return PersistResult{}, fmt.Errorf("save dialog failed: %w", err)
	}
	if path == "" {
		// User cancelled - terminal, but not an error.
		return PersistResult{Outcome: Cancelled}, nil
	}

	if err := s.Shell.WriteFile(path, data); err != nil {
		if s.Env == env.NativeMobile {
			s.Logger.Warn("SYNC", fmt.Sprintf("native write unavailable, falling through: %v", err))
			return PersistResult{Outcome: NotApplicable}, nil
		}
		return PersistResult{}, fmt.Errorf("failed to write archive: %w", err)
	}
	return PersistResult{Outcome: Handled, Path: path}, nil
}

// ShareStrategy hands the archive to the platform share sheet. Any failure
// falls through to the next strategy.
type ShareStrategy struct {
	Shell  shell.Shell
	Logger *logger.Logger
}

func (s *ShareStrategy) Name() string { return "share-sheet" }

func (s *ShareStrategy) Persist(ctx context.Context, data []byte, suggestedName string) (PersistResult, error) {
	if s.Shell == nil {
		return PersistResult{Outcome: NotApplicable}, nil
	}
	if err := s.Shell.Share(ctx, suggestedName, data); err != nil {
		if !errors.Is(err, shell.ErrUnavailable) {
			s.Logger.Warn("SYNC", fmt.Sprintf("share sheet failed, falling through: %v", err))
		}
		return PersistResult{Outcome: NotApplicable}, nil
	}
	return PersistResult{Outcome: Handled, Path: suggestedName}, nil
}

// DownloadStrategy is the universal fallback: drop the archive into the
// configured downloads directory, the way a browser download lands files.
type DownloadStrategy struct {
	Dir string
}

func (s *DownloadStrategy) Name() string { return "download" }

func (s *DownloadStrategy) Persist(ctx context.Context, data []byte, suggestedName string) (PersistResult, error) {
	if s.Dir == "" {
		return PersistResult{Outcome: NotApplicable}, nil
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return PersistResult{}, fmt.Errorf("failed to create downloads directory: %w", err)
	}
	path := filepath.Join(s.Dir, suggestedName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return PersistResult{}, fmt.Errorf("failed to write download: %w", err)
	}
	return PersistResult{Outcome: Handled, Path: path}, nil
}

// StrategiesFor builds the chain for the detected environment in priority
// order: native dialog, share sheet, downloads directory.
func StrategiesFor(e env.Environment, sh shell.Shell, downloadsDir string, log *logger.Logger) []PersistStrategy {
	return []PersistStrategy{
		&DialogStrategy{Shell: sh, Env: e, Logger: log},
		&ShareStrategy{Shell: sh, Logger: log},
		&DownloadStrategy{Dir: downloadsDir},
	}
}
