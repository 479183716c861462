package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"nxsdl/internal/bindgen"
	"nxsdl/internal/observ"
	"nxsdl/internal/pipeline"
	"nxsdl/internal/stamp"
	"nxsdl/internal/trace"
)

var genCmd = &cobra.Command{
	Use:   "gen [flags] [path]",
	Short: "Regenerate or verify SDL2 bindings",
	Long: `Process the core, ttf and image binding targets of the project.

With the bindgen feature enabled each enabled target is regenerated through
the bindgen translator; otherwise the previously generated file must exist.
The ttf and image targets are skipped unless their feature is enabled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return generateExecution(cmd, args, false)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify [flags] [path]",
	Short: "Check that generated bindings exist without regenerating",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return generateExecution(cmd, args, true)
	},
}

func generateExecution(cmd *cobra.Command, args []string, verifyOnly bool) error {
	// target failures are not usage errors
	cmd.SilenceUsage = true

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ws, err := resolveWorkspace(args)
	if err != nil {
		return err
	}
	features, err := resolveFeatures(cmd, ws)
	if err != nil {
		return err
	}
	if verifyOnly {
		features.Bindgen = false
	}

	req := &pipeline.Request{
		BaseDir:     ws.Root,
		Targets:     ws.Targets,
		Features:    features,
		IncludeDirs: ws.config().Translator.Includes,
		Jobs:        1,
	}
	uiValue := "off"
	if !verifyOnly {
		if err := configureGenerate(cmd, ws, req); err != nil {
			return err
		}
		if uiValue, err = cmd.Flags().GetString("ui"); err != nil {
			return err
		}
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if showTimings {
		req.Timer = observ.NewTimer()
	}

	names := activeTargetNames(req)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := trace.BeginIn(ctx, trace.ScopeDriver, cmd.Name())
	span.WithExtra("root", ws.Root)

	var outcomes []pipeline.Outcome
	if useProgressUI(uiModeValue, quiet, len(names)) {
		outcomes, err = runPipelineWithUI(ctx, "nxsdl "+cmd.Name(), names, req)
	} else {
		outcomes, err = pipeline.Run(ctx, req)
	}
	if err != nil {
		span.Fail(err)
	} else {
		span.End("")
	}

	if !quiet {
		if printErr := printOutcomes(cmd.OutOrStdout(), ws.Root, outcomes); printErr != nil && err == nil {
			err = printErr
		}
	}
	if showTimings && len(req.Timer.Phases()) > 0 {
		if _, printErr := fmt.Fprint(cmd.OutOrStdout(), req.Timer.Summary()); printErr != nil && err == nil {
			err = printErr
		}
	}
	return err
}

// configureGenerate applies the flags only gen understands.
func configureGenerate(cmd *cobra.Command, ws *workspace, req *pipeline.Request) error {
	host, err := resolveHost(cmd, ws)
	if err != nil {
		return err
	}
	req.Host = host
	if req.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return err
	}
	if req.DryRun, err = cmd.Flags().GetBool("dry-run"); err != nil {
		return err
	}
	printCommands, err := cmd.Flags().GetBool("print-commands")
	if err != nil {
		return err
	}
	incremental, err := cmd.Flags().GetBool("incremental")
	if err != nil {
		return err
	}
	translatorPath, err := resolveTranslatorPath(cmd, ws)
	if err != nil {
		return err
	}

	translator := &bindgen.CLITranslator{
		Path:          translatorPath,
		PrintCommands: printCommands,
		CommandOutput: cmd.OutOrStdout(),
	}
	if !req.DryRun && needsTranslator(req) {
		if err := translator.EnsureAvailable(); err != nil {
			return err
		}
	}
	req.Generator = bindgen.NewGenerator(translator)

	if incremental && !req.DryRun {
		cache, err := stamp.Open(filepath.Join(ws.Root, filepath.FromSlash(stamp.DefaultPath)))
		if err != nil {
			return err
		}
		req.Stamps = cache
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		req.TranslatorID = translator.Identity(ctx)
	}
	return nil
}

func needsTranslator(req *pipeline.Request) bool {
	for _, t := range req.Targets {
		if pipeline.ResolveMode(t, req.Features) == pipeline.ModeRegenerate {
			return true
		}
	}
	return false
}

func activeTargetNames(req *pipeline.Request) []string {
	names := make([]string, 0, len(req.Targets))
	for _, t := range req.Targets {
		if pipeline.ResolveMode(t, req.Features) != pipeline.ModeSkip {
			names = append(names, t.Name)
		}
	}
	return names
}

func addFeatureFlags(cmd *cobra.Command) {
	cmd.Flags().String("features", "", "enabled features, comma separated (bindgen,ttf,image); overrides nxsdl.toml")
	cmd.Flags().Bool("cargo-env", false, "read enabled features from CARGO_FEATURE_* environment variables")
}

func init() {
	addFeatureFlags(genCmd)
	addFeatureFlags(verifyCmd)
	genCmd.Flags().Int("jobs", 1, "number of targets processed concurrently")
	genCmd.Flags().Bool("incremental", false, "skip targets whose header and settings are unchanged since the last run")
	genCmd.Flags().Bool("dry-run", false, "print the translator command for each target without running it")
	genCmd.Flags().Bool("print-commands", false, "print translator commands as they run")
	genCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	genCmd.Flags().String("bindgen-path", bindgen.DefaultTranslatorPath, "path to the bindgen executable")
	genCmd.Flags().String("host", "", "include path flavor (unix|windows); defaults to the running host")
}

