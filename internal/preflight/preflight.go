package preflight

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"walrusup/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for cfg concurrently and returns the
// results in a fixed order. The full-node probe only runs when a URL is
// configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	checks := []func() Result{
		func() Result { return CheckWalrusBinary(cfg.Walrus.Binary) },
		func() Result { return CheckReadableFile("Walrus client config", cfg.Walrus.ConfigPath) },
		func() Result { return CheckMetadata(cfg.Paths.MetadataFile) },
	}
	for _, tier := range cfg.Tiers {
		checks = append(checks, func() Result {
			return CheckReadableDirectory(fmt.Sprintf("Tier %s", tier.Name), tier.Dir)
		})
	}
	checks = append(checks, func() Result { return CheckDirectoryAccess("State directory", cfg.Paths.StateDir) })
	if cfg.Walrus.FullNodeURL != "" {
		checks = append(checks, func() Result { return CheckFullNode(ctx, cfg.Walrus.FullNodeURL) })
	}

	results := make([]Result, len(checks))
	var group errgroup.Group
	group.SetLimit(4)
	for i, check := range checks {
		group.Go(func() error {
			results[i] = check()
			return nil
		})
	}
	_ = group.Wait()
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}
