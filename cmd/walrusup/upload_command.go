package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"walrusup/internal/pipeline"
	"walrusup/internal/uploadrun"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload every tier, then the merged manifest",
		Long: "Upload each file in every configured tier directory to Walrus, write the\n" +
			"metadata manifest with the returned blob ids, upload the manifest, and\n" +
			"record its blob id. Any failure aborts the run before the manifest is written.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			outcome, err := uploadrun.Run(cmd.Context(), cfg, uploadrun.Options{
				Logger:        logger,
				DryRun:        dryRun,
				SkipPreflight: skipPreflight,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintln(out, renderPlan(outcome.Plans, cfg.Match.Field))
				fmt.Fprintln(out, "Dry run: nothing was uploaded or written")
				return nil
			}
			fmt.Fprintln(out, renderSummary(outcome.Summary))
			fmt.Fprintf(out, "Manifest blob: %s (end epoch %d)\n", outcome.Summary.ManifestBlobID, outcome.Summary.ManifestEpoch)
			fmt.Fprintf(out, "New JSON file with blobIds saved to %s\n", outcome.Summary.ManifestPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List and pair files without uploading or writing anything")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Do not run readiness checks before uploading")
	return cmd
}

func renderSummary(summary pipeline.Summary) string {
	rows := make([][]string, 0, len(summary.Tiers)+1)
	for _, tier := range summary.Tiers {
		rows = append(rows, []string{
			tierLabel(tier.Name),
			tier.Key,
			strconv.Itoa(tier.Uploaded),
			strconv.Itoa(tier.Records),
		})
	}
	rows = append(rows, []string{"Total", "", strconv.Itoa(summary.Uploaded()), ""})
	return renderTable(
		[]string{"Tier", "Key", "Uploaded", "Records"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
	)
}

func renderPlan(plans []pipeline.TierPlan, field string) string {
	var rows [][]string
	for _, plan := range plans {
		if len(plan.Pairs) == 0 {
			rows = append(rows, []string{tierLabel(plan.Tier.Name), "(no files)", "", "", ""})
			continue
		}
		for _, pair := range plan.Pairs {
			label, _ := pair.Record.String(field)
			size := "?"
			if info, err := os.Stat(pair.File); err == nil {
				size = humanize.IBytes(uint64(info.Size()))
			}
			rows = append(rows, []string{
				tierLabel(plan.Tier.Name),
				filepath.Base(pair.File),
				size,
				strconv.Itoa(pair.Index),
				label,
			})
		}
	}
	return renderTable(
		[]string{"Tier", "File", "Size", "Record", field},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}
