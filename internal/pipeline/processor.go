package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"walrusup/internal/fileutil"
	"walrusup/internal/logging"
	"walrusup/internal/metadata"
	"walrusup/internal/walrus"
)

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithMatcher overrides the default positional matcher.
func WithMatcher(m Matcher) ProcessorOption {
	return func(p *Processor) {
		if m != nil {
			p.matcher = m
		}
	}
}

// WithRecorder reports each successful upload to r.
func WithRecorder(r Recorder) ProcessorOption {
	return func(p *Processor) {
		p.recorder = r
	}
}

// WithProcessorLogger sets the processor logger.
func WithProcessorLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithSkipHidden makes the processor ignore dot-files in tier directories.
// By default they qualify like any other regular file.
func WithSkipHidden(skip bool) ProcessorOption {
	return func(p *Processor) {
		p.skipHidden = skip
	}
}

// Processor uploads the files of one tier and stamps their metadata records.
type Processor struct {
	uploader   walrus.Uploader
	matcher    Matcher
	recorder   Recorder
	logger     *slog.Logger
	skipHidden bool
}

// NewProcessor constructs a processor around uploader.
func NewProcessor(uploader walrus.Uploader, opts ...ProcessorOption) (*Processor, error) {
	if uploader == nil {
		return nil, errors.New("pipeline: uploader required")
	}
	p := &Processor{
		uploader: uploader,
		matcher:  PositionalMatcher{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, "pipeline")
	return p, nil
}

// Plan lists the tier directory and pairs files with records without
// uploading anything.
func (p *Processor) Plan(tier Tier, records []metadata.Record) (TierPlan, error) {
	files, err := fileutil.ListRegularFiles(tier.Dir, p.skipHidden)
	if err != nil {
		return TierPlan{}, fmt.Errorf("tier %s: %w", tier.Name, err)
	}
	pairs, err := p.matcher.Match(tier, files, records)
	if err != nil {
		return TierPlan{}, err
	}
	return TierPlan{Tier: tier, Pairs: pairs, Records: len(records)}, nil
}

// ProcessTier uploads every file of tier and returns the paired records with
// image and endEpoch set, in file order. Pairing is checked for the whole tier
// before the first upload.
func (p *Processor) ProcessTier(ctx context.Context, tier Tier, records []metadata.Record) ([]metadata.Record, error) {
	ctx = logging.WithTier(ctx, tier.Name)
	logger := logging.WithContext(ctx, p.logger)

	plan, err := p.Plan(tier, records)
	if err != nil {
		return nil, err
	}
	logger.Info("tier started",
		logging.String(logging.FieldEventType, "tier_start"),
		logging.String("dir", tier.Dir),
		logging.Int("files", len(plan.Pairs)),
		logging.Int("records", len(records)))

	out := make([]metadata.Record, 0, len(plan.Pairs))
	for _, pair := range plan.Pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := p.uploader.Store(ctx, pair.File)
		if err != nil {
			return nil, fmt.Errorf("tier %s: %w", tier.Name, err)
		}
		record := pair.Record.Clone()
		if err := stamp(&record, result); err != nil {
			return nil, fmt.Errorf("tier %s: %s: %w", tier.Name, pair.File, err)
		}
		out = append(out, record)

		logger.Debug("record updated",
			logging.String(logging.FieldFile, pair.File),
			logging.Int("index", pair.Index),
			logging.String(logging.FieldBlobID, result.BlobID),
			logging.Int64("end_epoch", result.EndEpoch),
			logging.String("variant", string(result.Variant)))

		if p.recorder != nil {
			if err := p.recorder.RecordUpload(ctx, tier.Name, pair.File, result); err != nil {
				logger.Warn("ledger write failed",
					logging.String(logging.FieldFile, pair.File),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "upload succeeded; history for this file will be incomplete"))
			}
		}
	}

	logger.Info("tier completed",
		logging.String(logging.FieldEventType, "tier_complete"),
		logging.Int("uploaded", len(out)))
	return out, nil
}

func stamp(record *metadata.Record, result walrus.Result) error {
	if err := record.Set(FieldImage, result.BlobID); err != nil {
		return err
	}
	return record.Set(FieldEndEpoch, result.EndEpoch)
}
