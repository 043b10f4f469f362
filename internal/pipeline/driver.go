package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"walrusup/internal/logging"
	"walrusup/internal/manifest"
	"walrusup/internal/metadata"
	"walrusup/internal/walrus"
)

// DriverConfig names the inputs and outputs of a run.
type DriverConfig struct {
	MetadataPath string
	ManifestPath string
	RecordPath   string
	Tiers        []Tier
}

// Driver runs the full upload pipeline.
type Driver struct {
	cfg       DriverConfig
	processor *Processor
	uploader  walrus.Uploader
	recorder  Recorder
	logger    *slog.Logger
}

// NewDriver constructs a driver. The uploader is used for the manifest; the
// processor for asset files.
func NewDriver(cfg DriverConfig, processor *Processor, uploader walrus.Uploader, recorder Recorder, logger *slog.Logger) (*Driver, error) {
	if processor == nil {
		return nil, errors.New("pipeline: processor required")
	}
	if uploader == nil {
		return nil, errors.New("pipeline: uploader required")
	}
	if cfg.MetadataPath == "" || cfg.ManifestPath == "" || cfg.RecordPath == "" {
		return nil, errors.New("pipeline: metadata, manifest, and record paths required")
	}
	return &Driver{
		cfg:       cfg,
		processor: processor,
		uploader:  uploader,
		recorder:  recorder,
		logger:    logging.NewComponentLogger(logger, "driver"),
	}, nil
}

func (d *Driver) keys() []string {
	keys := make([]string, 0, len(d.cfg.Tiers))
	for _, tier := range d.cfg.Tiers {
		keys = append(keys, tier.MetadataKey())
	}
	return keys
}

// Run uploads every tier, writes the manifest, uploads it, and writes the
// manifest record. Nothing is written when a tier fails.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	logger := logging.WithContext(ctx, d.logger)
	runID, _ := logging.RunIDFromContext(ctx)
	summary := Summary{
		RunID:        runID,
		ManifestPath: d.cfg.ManifestPath,
		RecordPath:   d.cfg.RecordPath,
	}

	source, err := metadata.Load(d.cfg.MetadataPath)
	if err != nil {
		return summary, err
	}

	out := manifest.New(d.keys())
	for _, tier := range d.cfg.Tiers {
		key := tier.MetadataKey()
		if !source.Has(key) {
			logger.Warn("metadata has no key for tier; treating it as empty",
				logging.String(logging.FieldTier, tier.Name),
				logging.String("key", key),
				logging.String(logging.FieldErrorHint, "check the tier name or key against the metadata file"))
		}
		records := source.Records(key)
		updated, err := d.processor.ProcessTier(ctx, tier, records)
		if err != nil {
			return summary, err
		}
		out.Append(key, updated...)
		summary.Tiers = append(summary.Tiers, TierSummary{
			Name:     tier.Name,
			Key:      key,
			Uploaded: len(updated),
			Records:  len(records),
		})
	}

	if err := out.Write(d.cfg.ManifestPath); err != nil {
		return summary, err
	}
	logger.Info("manifest written",
		logging.String(logging.FieldFile, d.cfg.ManifestPath),
		logging.Int("records", out.Count()))

	result, err := d.uploader.Store(ctx, d.cfg.ManifestPath)
	if err != nil {
		return summary, fmt.Errorf("upload manifest: %w", err)
	}
	if d.recorder != nil {
		if err := d.recorder.RecordUpload(ctx, ManifestTier, d.cfg.ManifestPath, result); err != nil {
			logger.Warn("ledger write failed",
				logging.String(logging.FieldFile, d.cfg.ManifestPath),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "manifest upload succeeded; history will be incomplete"))
		}
	}

	rec := manifest.UploadRecord{BlobID: result.BlobID, EndEpoch: result.EndEpoch}
	if err := manifest.WriteRecord(d.cfg.RecordPath, rec); err != nil {
		return summary, err
	}
	summary.ManifestBlobID = result.BlobID
	summary.ManifestEpoch = result.EndEpoch
	summary.ManifestResult = result.Variant

	logger.Info(fmt.Sprintf("New JSON file with blobIds saved to %s", d.cfg.ManifestPath),
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String(logging.FieldBlobID, result.BlobID),
		logging.Int64("end_epoch", result.EndEpoch),
		logging.Int("uploaded", summary.Uploaded()))
	return summary, nil
}

// Plan loads the metadata and reports how every tier would be paired.
// Nothing is uploaded or written.
func (d *Driver) Plan(ctx context.Context) ([]TierPlan, error) {
	source, err := metadata.Load(d.cfg.MetadataPath)
	if err != nil {
		return nil, err
	}
	plans := make([]TierPlan, 0, len(d.cfg.Tiers))
	for _, tier := range d.cfg.Tiers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		plan, err := d.processor.Plan(tier, source.Records(tier.MetadataKey()))
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}
