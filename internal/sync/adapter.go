package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"booth-client/internal/logger"
	"booth-client/internal/models"
	"booth-client/internal/shell"
)

// Backend is the slice of the HTTP client the adapter needs.
type Backend interface {
	Download(ctx context.Context, path string) ([]byte, http.Header, error)
	UploadMultipart(ctx context.Context, path, field, filename string, file io.Reader, out interface{}) error
}

// AuditSink records export/import outcomes. The local cache implements it;
// a nil sink disables auditing.
type AuditSink interface {
	RecordSync(ctx context.Context, direction, filename string, size int, outcome string) error
}

// ErrNoStrategy is returned when every persistence strategy reported
// not-applicable for the current environment.
var ErrNoStrategy = errors.New("no save strategy available in this environment")

// ExportResult reports where the archive ended up. Cancelled marks the
// user closing the save dialog, which is a non-error terminal outcome.
type ExportResult struct {
	Filename  string
	Path      string
	Method    string
	Cancelled bool
}

// Adapter packages catalog data for transport: it pulls the server-produced
// archive and persists it locally, and pushes a local archive back up as a
// multipart upload. The archive itself is opaque; its format belongs to the
// backend.
type Adapter struct {
	backend    Backend
	shell      shell.Shell
	strategies []PersistStrategy
	logger     *logger.Logger
	audit      AuditSink
}

func NewAdapter(backend Backend, sh shell.Shell, strategies []PersistStrategy, log *logger.Logger, audit AuditSink) *Adapter {
	return &Adapter{
		backend:    backend,
		shell:      sh,
		strategies: strategies,
		logger:     log,
		audit:      audit,
	}
}

// Export fetches the catalog archive and persists it via the strategy chain.
func (a *Adapter) Export(ctx context.Context) (*ExportResult, error) {
	data, header, err := a.backend.Download(ctx, "/sync/export-products")
	if err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}

	filename := ParseDispositionFilename(header.Get("Content-Disposition"), DefaultArchiveName)

	for _, strategy := range a.strategies {
		result, err := strategy.Persist(ctx, data, filename)
		if err != nil {
			return nil, err
		}
		switch result.Outcome {
		case Handled:
			a.logger.LogSync("export", filename, fmt.Sprintf("saved via %s to %s", strategy.Name(), result.Path))
			a.record(ctx, "export", filename, len(data), "saved")
			return &ExportResult{Filename: filename, Path: result.Path, Method: strategy.Name()}, nil
		case Cancelled:
			a.logger.LogSync("export", filename, "cancelled by user")
			a.record(ctx, "export", filename, len(data), "cancelled")
			return &ExportResult{Filename: filename, Cancelled: true}, nil
		}
	}

	return nil, ErrNoStrategy
}

// Import uploads archive bytes to the backend. Validation errors come back
// verbatim from the server.
func (a *Adapter) Import(ctx context.Context, file io.Reader, filename string) (*models.ImportResult, error) {
	if file == nil {
		return nil, errors.New("no import file provided")
	}

	var result models.ImportResult
	if err := a.backend.UploadMultipart(ctx, "/sync/import-products", "file", filename, file, &result); err != nil {
		a.record(ctx, "import", filename, 0, "failed")
		return nil, fmt.Errorf("import failed: %w", err)
	}

	a.logger.LogSync("import", filename, "uploaded")
	a.record(ctx, "import", filename, 0, "uploaded")
	return &result, nil
}

// ImportFromPath reads a local archive through the native shell and funnels
// it into the same upload path.
func (a *Adapter) ImportFromPath(ctx context.Context, path string) (*models.ImportResult, error) {
	if path == "" {
		return nil, errors.New("no import path provided")
	}
	if a.shell == nil {
		return nil, shell.ErrUnavailable
	}

	data, err := a.shell.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	filename := filepath.Base(path)
	if filename == "." || filename == string(filepath.Separator) {
		filename = "import.boothpack"
	}
	return a.Import(ctx, bytes.NewReader(data), filename)
}

func (a *Adapter) record(ctx context.Context, direction, filename string, size int, outcome string) {
	if a.audit == nil {
		return
	}
	if err := a.audit.RecordSync(ctx, direction, filename, size, outcome); err != nil {
		a.logger.Warn("SYNC", fmt.Sprintf("failed to record %s audit row: %v", direction, err))
	}
}
