package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"nxsdl/internal/bindgen"
	"nxsdl/internal/observ"
	"nxsdl/internal/stamp"
	"nxsdl/internal/trace"
)

// Regenerator produces one binding file.
type Regenerator interface {
	Regenerate(ctx context.Context, opts bindgen.Options) (bindgen.Result, error)
}

// Request configures a pipeline run.
type Request struct {
	// BaseDir anchors relative header and output paths.
	BaseDir     string
	Targets     []Target
	Features    Features
	Host        bindgen.HostFlavor
	IncludeDirs []string
	Generator   Regenerator
	// Jobs bounds concurrently processed targets; values below 1 mean 1.
	Jobs int
	// DryRun plans regenerate targets without running the translator.
	DryRun bool
	// Stamps enables incremental regeneration when non-nil.
	Stamps   *stamp.Cache
	Progress ProgressSink
	// Timer receives per-target step durations when non-nil.
	Timer *observ.Timer
	// TranslatorID names the translator build, e.g. its path and
	// --version output. It is part of the incremental fingerprint.
	TranslatorID string
}

// Action is what actually happened to a target.
type Action string

const (
	ActionSkipped     Action = "skipped"
	ActionVerified    Action = "verified"
	ActionRegenerated Action = "regenerated"
	ActionUpToDate    Action = "up-to-date"
	ActionPlanned     Action = "planned"
	ActionFailed      Action = "failed"
	// ActionNotRun marks an enabled target cancelled by an earlier failure.
	ActionNotRun Action = "not-run"
)

// Outcome reports one target.
type Outcome struct {
	Target  Target
	Mode    Mode
	Action  Action
	Output  string
	Command []string
	Macros  bindgen.RewriteStats
	Elapsed time.Duration
	Err     error
}

// Run processes every target of req. Outcomes are returned in target order;
// the error is the first target failure.
func Run(ctx context.Context, req *Request) ([]Outcome, error) {
	if req == nil {
		return nil, fmt.Errorf("missing pipeline request")
	}
	targets := req.Targets
	if targets == nil {
		targets = DefaultTargets()
	}
	jobs := req.Jobs
	if jobs < 1 {
		jobs = 1
	}

	ctx, span := trace.BeginIn(ctx, trace.ScopeDriver, "pipeline")
	span.WithExtra("features", req.Features.String()).WithInt("jobs", jobs)

	for _, t := range targets {
		mode := ResolveMode(t, req.Features)
		if mode != ModeSkip {
			emit(req.Progress, Event{Target: t.Name, Mode: mode, Status: StatusQueued})
		}
	}

	outcomes := make([]Outcome, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(targets), 1)))
	for i, t := range targets {
		g.Go(func(i int, t Target) func() error {
			return func() error {
				// a disabled target is always reported skipped; an enabled one
				// left behind by an earlier failure is reported not-run
				if mode := ResolveMode(t, req.Features); mode != ModeSkip {
					select {
					case <-gctx.Done():
						outcomes[i] = Outcome{Target: t, Mode: mode, Action: ActionNotRun, Output: resolvePath(req.BaseDir, t.Output)}
						return nil
					default:
					}
				}
				out, err := runTarget(gctx, req, t)
				outcomes[i] = out
				return err
			}
		}(i, t))
	}
	err := g.Wait()

	if req.Stamps != nil && !req.DryRun {
		if saveErr := req.Stamps.Save(); saveErr != nil && err == nil {
			err = fmt.Errorf("failed to save stamps: %w", saveErr)
		}
	}
	if err != nil {
		span.Fail(err)
	} else {
		span.End("")
	}
	return outcomes, err
}

func runTarget(ctx context.Context, req *Request, t Target) (Outcome, error) {
	mode := ResolveMode(t, req.Features)
	out := Outcome{Target: t, Mode: mode, Output: resolvePath(req.BaseDir, t.Output)}
	if mode == ModeSkip {
		out.Action = ActionSkipped
		emit(req.Progress, Event{Target: t.Name, Mode: mode, Status: StatusSkipped})
		return out, nil
	}

	ctx, span := trace.BeginIn(ctx, trace.ScopeTarget, "target:"+t.Name)
	span.WithExtra("mode", mode.String())
	emit(req.Progress, Event{Target: t.Name, Mode: mode, Status: StatusWorking})
	start := time.Now()

	var err error
	switch mode {
	case ModeVerify:
		done := req.Timer.Track(t.Label, "verify")
		err = verifyOutput(out.Output)
		if err == nil {
			out.Action = ActionVerified
		}
		done("")
	case ModeRegenerate:
		err = regenerateTarget(ctx, req, t, &out)
	}
	out.Elapsed = time.Since(start)

	if err != nil {
		out.Action = ActionFailed
		out.Err = &TargetError{Label: t.Label, Mode: mode, Path: out.Output, Err: err}
		emit(req.Progress, Event{Target: t.Name, Mode: mode, Status: StatusError, Err: out.Err, Elapsed: out.Elapsed})
		span.Fail(err)
		return out, out.Err
	}
	emit(req.Progress, Event{Target: t.Name, Mode: mode, Status: StatusDone, Elapsed: out.Elapsed})
	span.End(string(out.Action))
	return out, nil
}

func verifyOutput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrMissingOutput
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%q is a directory", path)
	}
	return nil
}

func regenerateTarget(ctx context.Context, req *Request, t Target, out *Outcome) error {
	opts := bindgen.Options{
		Header:         resolvePath(req.BaseDir, t.Header),
		Output:         out.Output,
		AllowFunctions: t.AllowFunctions,
		Host:           req.Host,
		IncludeDirs:    req.IncludeDirs,
	}
	if req.DryRun {
		out.Command = bindgen.Plan(opts).Args()
		out.Action = ActionPlanned
		return nil
	}
	if req.Generator == nil {
		return fmt.Errorf("missing generator")
	}

	var (
		want    stamp.Stamp
		stamped bool
	)
	if req.Stamps != nil {
		want, stamped = inputStamp(opts, req.TranslatorID)
		if stamped && upToDate(req.Stamps, out.Output, want) {
			out.Command = bindgen.Plan(opts).Args()
			out.Action = ActionUpToDate
			return nil
		}
	}

	res, err := req.Generator.Regenerate(ctx, opts)
	out.Command = res.Command
	out.Macros = res.Macros
	recordSteps(req.Timer, t.Label, res)
	if err != nil {
		req.Stamps.Forget(out.Output)
		return err
	}
	out.Action = ActionRegenerated

	if stamped {
		if digest, err := stamp.DigestFile(out.Output); err == nil {
			want.Output = digest
			req.Stamps.Record(out.Output, want)
		}
	}
	return nil
}

// inputStamp fingerprints the header, the resolved policy and the translator
// identity. ok is false when the header cannot be read, in which case the
// translator reports it.
func inputStamp(opts bindgen.Options, translatorID string) (stamp.Stamp, bool) {
	header, err := stamp.DigestFile(opts.Header)
	if err != nil {
		return stamp.Stamp{}, false
	}
	inv := bindgen.Plan(opts)
	parts := append(inv.Args(), bindgen.RenderShim(), "translator="+translatorID)
	for _, r := range inv.Rules {
		parts = append(parts, fmt.Sprintf("%s|%d|%d|%s", r.Prefix, r.Lo, r.Hi, r.Kind))
	}
	return stamp.Stamp{Header: header, Policy: stamp.DigestStrings(parts...)}, true
}

func recordSteps(timer *observ.Timer, label string, res bindgen.Result) {
	if timer == nil {
		return
	}
	if res.Steps.Translate > 0 {
		timer.Add(label, "translate", res.Steps.Translate, "")
	}
	if res.Steps.Rewrite > 0 {
		timer.Add(label, "rewrite", res.Steps.Rewrite, strconv.Itoa(res.Macros.Rewritten)+" retyped")
	}
	if res.Steps.Write > 0 {
		timer.Add(label, "write", res.Steps.Write, "")
	}
}

func upToDate(cache *stamp.Cache, output string, want stamp.Stamp) bool {
	have, ok := cache.Lookup(output)
	if !ok || have.Header != want.Header || have.Policy != want.Policy {
		return false
	}
	digest, err := stamp.DigestFile(output)
	if err != nil {
		return false
	}
	return digest == have.Output
}

func resolvePath(base, p string) string {
	if p == "" || base == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, filepath.FromSlash(p))
}
