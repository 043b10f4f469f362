package uploadrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"walrusup/internal/config"
	"walrusup/internal/ledger"
	"walrusup/internal/logging"
	"walrusup/internal/notifications"
	"walrusup/internal/pipeline"
	"walrusup/internal/preflight"
	"walrusup/internal/walrus"
)

var (
	// ErrAlreadyRunning reports that another run holds the lock.
	ErrAlreadyRunning = errors.New("another walrusup run is already in progress")
	// ErrPreflight reports failed readiness checks.
	ErrPreflight = errors.New("preflight checks failed")
)

// Options configures a run.
type Options struct {
	Logger        *slog.Logger
	DryRun        bool
	SkipPreflight bool
	// Executor replaces the process runner used by the Walrus client.
	Executor walrus.Executor
	// Notifier overrides the service built from cfg.Notifications.
	Notifier notifications.Service
}

// Outcome reports what a run did. Plans is set for dry runs, Summary otherwise.
type Outcome struct {
	RunID   string
	Summary pipeline.Summary
	Plans   []pipeline.TierPlan
}

// Run executes the upload pipeline described by cfg. SIGINT and SIGTERM
// cancel the run and terminate any running Walrus process.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) (Outcome, error) {
	if cfg == nil {
		return Outcome{}, fmt.Errorf("config is required")
	}

	ctx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return Outcome{}, fmt.Errorf("ensure directories: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return Outcome{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return Outcome{}, fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, cfg.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	outcome := Outcome{RunID: uuid.NewString()}
	ctx = logging.WithRunID(ctx, outcome.RunID)
	runLogger := logging.WithContext(ctx, logger)
	runLogger.Info("upload run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Bool("dry_run", opts.DryRun),
		logging.String("metadata", cfg.Paths.MetadataFile),
		logging.Int("tiers", len(cfg.Tiers)))

	if !opts.SkipPreflight {
		if err := checkReady(ctx, cfg, runLogger); err != nil {
			return outcome, err
		}
	}

	client, err := NewClient(cfg, logger, opts.Executor)
	if err != nil {
		return outcome, err
	}
	matcher, err := pipeline.NewMatcher(cfg.Match.Strategy, cfg.Match.Field)
	if err != nil {
		return outcome, err
	}

	var recorder pipeline.Recorder
	if cfg.Ledger.Enabled && !opts.DryRun {
		store, err := ledger.Open(cfg.Ledger.Path)
		if err != nil {
			return outcome, fmt.Errorf("open ledger: %w", err)
		}
		defer store.Close()
		recorder = store
	}

	procOpts := []pipeline.ProcessorOption{
		pipeline.WithMatcher(matcher),
		pipeline.WithProcessorLogger(logger),
		pipeline.WithSkipHidden(cfg.TierOptions.SkipHidden),
	}
	if recorder != nil {
		procOpts = append(procOpts, pipeline.WithRecorder(recorder))
	}
	processor, err := pipeline.NewProcessor(client, procOpts...)
	if err != nil {
		return outcome, err
	}
	driver, err := pipeline.NewDriver(DriverConfig(cfg), processor, client, recorder, logger)
	if err != nil {
		return outcome, err
	}

	if opts.DryRun {
		plans, err := driver.Plan(ctx)
		if err != nil {
			return outcome, err
		}
		outcome.Plans = plans
		return outcome, nil
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}

	summary, err := driver.Run(ctx)
	outcome.Summary = summary
	if err != nil {
		logging.ErrorWithContext(runLogger, "upload run failed", "run_failed", logging.Error(err))
		notify(cmdCtx, notifier, runLogger, notifications.EventRunFailed, notifications.Payload{
			"error": err,
			"runId": outcome.RunID,
		})
		return outcome, err
	}
	notify(ctx, notifier, runLogger, notifications.EventRunCompleted, notifications.Payload{
		"uploaded":       summary.Uploaded(),
		"manifestBlobId": summary.ManifestBlobID,
		"endEpoch":       summary.ManifestEpoch,
		"manifestPath":   summary.ManifestPath,
	})
	return outcome, nil
}

// notify publishes event; delivery failures never fail the run.
func notify(ctx context.Context, svc notifications.Service, logger *slog.Logger, event notifications.Event, payload notifications.Payload) {
	if err := svc.Publish(ctx, event, payload); err != nil {
		logger.Warn("notification failed",
			logging.String("event", string(event)),
			logging.Error(err))
	}
}

// DriverConfig maps configuration onto the pipeline driver inputs.
func DriverConfig(cfg *config.Config) pipeline.DriverConfig {
	tiers := make([]pipeline.Tier, 0, len(cfg.Tiers))
	for _, tier := range cfg.Tiers {
		tiers = append(tiers, pipeline.Tier{Name: tier.Name, Dir: tier.Dir, Key: tier.TierKey()})
	}
	return pipeline.DriverConfig{
		MetadataPath: cfg.Paths.MetadataFile,
		ManifestPath: cfg.Paths.ManifestFile,
		RecordPath:   cfg.Paths.ManifestRecordFile,
		Tiers:        tiers,
	}
}

// NewClient builds the Walrus client described by cfg.
func NewClient(cfg *config.Config, logger *slog.Logger, exec walrus.Executor) (*walrus.Client, error) {
	opts := []walrus.Option{
		walrus.WithLogger(logger),
		walrus.WithEpochs(cfg.Walrus.Epochs),
		walrus.WithStoreTimeout(time.Duration(cfg.Walrus.StoreTimeout) * time.Second),
	}
	if exec != nil {
		opts = append(opts, walrus.WithExecutor(exec))
	}
	return walrus.New(cfg.Walrus.Binary, cfg.Walrus.ConfigPath, opts...)
}

func checkReady(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	failed := preflight.Failed(preflight.RunAll(ctx, cfg))
	if len(failed) == 0 {
		return nil
	}
	details := make([]string, 0, len(failed))
	for _, result := range failed {
		logger.Error("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldErrorHint, "run `walrusup check` for the full report"))
		details = append(details, fmt.Sprintf("%s: %s", result.Name, result.Detail))
	}
	return fmt.Errorf("%w: %s", ErrPreflight, strings.Join(details, "; "))
}
