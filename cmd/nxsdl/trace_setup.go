package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nxsdl/internal/trace"
)

// traceFlags reads --trace, --trace-level and --trace-format into a tracer
// config. --trace without an explicit level traces targets.
func traceFlags(cmd *cobra.Command) (trace.Config, error) {
	flags := cmd.Root().PersistentFlags()
	var cfg trace.Config

	output, err := flags.GetString("trace")
	if err != nil {
		return cfg, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return cfg, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return cfg, fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	if cfg.Level, err = trace.ParseLevel(levelStr); err != nil {
		return cfg, err
	}
	if cfg.Format, err = trace.ParseFormat(formatStr); err != nil {
		return cfg, err
	}
	if output != "" && !flags.Changed("trace-level") {
		cfg.Level = trace.LevelTarget
	}
	cfg.OutputPath = output
	return cfg, nil
}

// setupTracing attaches the configured tracer to cmd's context and returns
// the function that closes it.
func setupTracing(cmd *cobra.Command) (func(), error) {
	cfg, err := traceFlags(cmd)
	if err != nil {
		return nil, err
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	return func() {
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}
