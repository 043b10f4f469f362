package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"walrusup/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the Walrus client, metadata, and tier directories are ready",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			results := preflight.RunAll(cmd.Context(), cfg)

			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(out, line)
			}
			configLine := ctx.configPath
			if !ctx.configSeen {
				configLine += " (not found; using defaults)"
			}
			fmt.Fprintf(out, "  %-*s %s\n", checkLabelWidth, "Config file:", configLine)
			fmt.Fprintf(out, "  %-*s %s\n", checkLabelWidth, "Match strategy:", cfg.Match.Strategy)
			fmt.Fprintln(out)

			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, result := range results {
				fmt.Fprintln(out, renderCheckLine(result, colorize))
			}

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d of %d checks failed", len(failed), len(results))
			}
			return nil
		},
	}
}
