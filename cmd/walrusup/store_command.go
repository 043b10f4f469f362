package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"walrusup/internal/uploadrun"
)

func newStoreCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "store <file>",
		Short: "Upload a single file to Walrus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := normalizeOutput(output, outputText, outputJSON, outputYAML)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			result, err := uploadrun.StoreFile(cmd.Context(), cfg, args[0], logger, nil)
			if err != nil {
				return err
			}
			if handled, err := writeStructured(cmd, format, result); handled {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Blob ID:   %s\n", result.BlobID)
			fmt.Fprintf(out, "End epoch: %d\n", result.EndEpoch)
			fmt.Fprintf(out, "Status:    %s\n", result.Variant)
			if result.ObjectID != "" {
				fmt.Fprintf(out, "Object:    %s\n", result.ObjectID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format (text, json, yaml)")
	return cmd
}
