// Package commands implements the casemap CLI subcommands.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jengzang/casemap-backend-go/internal/casedata"
	"github.com/jengzang/casemap-backend-go/internal/config"
	"github.com/jengzang/casemap-backend-go/internal/source"
)

const (
	flagConfig  = "config"
	flagDir     = "dir"
	flagLenient = "lenient"
)

// AddPersistentFlags registers the flags shared by every subcommand
func AddPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(flagConfig, "", "path to a YAML config file")
	cmd.PersistentFlags().String(flagDir, "", "read metric tables from this directory instead of the network")
	cmd.PersistentFlags().Bool(flagLenient, false, "tolerate schema drift between metric tables")
}

// loadConfig reads the config and applies command-line overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString(flagConfig)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if dir, _ := cmd.Flags().GetString(flagDir); dir != "" {
		cfg.Source.Dir = dir
	}
	if lenient, _ := cmd.Flags().GetBool(flagLenient); lenient {
		cfg.Pipeline.StrictSchema = false
	}
	return cfg, nil
}

// loadDataset runs the pipeline once
func loadDataset(ctx context.Context, cfg *config.Config) (*casedata.Dataset, error) {
	opts := casedata.DefaultOptions()
	opts.StrictSchema = cfg.Pipeline.StrictSchema

	ds, err := casedata.NewPipeline(source.NewFetcher(cfg.Source), opts).Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return ds, nil
}
