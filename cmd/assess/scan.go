package main

import (
	"context"

	"github.com/quay/zlog"

	"github.com/quay/licenseassess/config"
	"github.com/quay/licenseassess/pipeline"
)

// Scan runs one full assessment: extract, read, index, match, snapshot,
// report. args is unused; scan takes all its input from the shared -config
// flag.
func Scan(ctx context.Context, cfg *commonConfig, args []string) error {
	result, err := runOnce(ctx, cfg.ConfigPath)
	if err != nil {
		return err
	}
	zlog.Info(ctx).
		Str("run_id", result.RunID.String()).
		Int("files", result.Registry.Len()).
		Int("new_or_changed", len(result.NewOrChanged)).
		Int("removed", len(result.Removed)).
		Msg("scan complete")
	return nil
}

func runOnce(ctx context.Context, configPath string) (pipeline.Result, error) {
	c, err := config.Load(configPath)
	if err != nil {
		return pipeline.Result{}, err
	}
	corpora, err := pipeline.LoadCorpora(c)
	if err != nil {
		return pipeline.Result{}, err
	}
	return pipeline.New(c, corpora).Run(ctx)
}
