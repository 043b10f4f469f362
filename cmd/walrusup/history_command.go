package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"walrusup/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var runID string
	var limit int
	var output string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded uploads, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := normalizeOutput(output, outputTable, outputJSON, outputYAML)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Ledger.Enabled {
				return errors.New("upload ledger is disabled (set ledger.enabled = true)")
			}

			store, err := ledger.Open(cfg.Ledger.Path)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), ledger.ListOptions{RunID: runID, Limit: limit})
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []ledger.Entry{}
			}
			if handled, err := writeStructured(cmd, format, entries); handled {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No uploads recorded")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					strconv.FormatInt(entry.ID, 10),
					shortRunID(entry.RunID),
					tierLabel(entry.Tier),
					filepath.Base(entry.FilePath),
					humanize.IBytes(uint64(max(entry.SizeBytes, 0))),
					entry.BlobID,
					strconv.FormatInt(entry.EndEpoch, 10),
					entry.Variant,
					humanize.Time(entry.UploadedAt),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Run", "Tier", "File", "Size", "Blob ID", "End Epoch", "Status", "Uploaded"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Only show uploads from this run id")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of rows (0 for all)")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format (table, json, yaml)")
	return cmd
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
