package uploadrun

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"walrusup/internal/config"
	"walrusup/internal/ledger"
	"walrusup/internal/logging"
	"walrusup/internal/walrus"
)

// FileTier labels single-file uploads in the ledger.
const FileTier = "file"

// StoreFile uploads one file outside the tier pipeline and records it in the
// ledger when enabled.
func StoreFile(ctx context.Context, cfg *config.Config, path string, logger *slog.Logger, exec walrus.Executor) (walrus.Result, error) {
	if cfg == nil {
		return walrus.Result{}, fmt.Errorf("config is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return walrus.Result{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	ctx = logging.WithRunID(ctx, uuid.NewString())

	client, err := NewClient(cfg, logger, exec)
	if err != nil {
		return walrus.Result{}, err
	}
	result, err := client.Store(ctx, abs)
	if err != nil {
		return walrus.Result{}, err
	}

	if cfg.Ledger.Enabled {
		store, err := ledger.Open(cfg.Ledger.Path)
		if err != nil {
			logger.Warn("ledger unavailable", logging.Error(err))
			return result, nil
		}
		defer store.Close()
		if err := store.RecordUpload(ctx, FileTier, abs, result); err != nil {
			logger.Warn("ledger write failed", logging.Error(err))
		}
	}
	return result, nil
}
