package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"nxsdl/internal/bindgen"
	"nxsdl/internal/observ"
	"nxsdl/internal/stamp"
)

// fakeGenerator writes a marker file instead of running bindgen.
type fakeGenerator struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (g *fakeGenerator) Regenerate(_ context.Context, opts bindgen.Options) (bindgen.Result, error) {
	g.mu.Lock()
	g.calls = append(g.calls, opts.Output)
	err := g.fail[filepath.Base(opts.Output)]
	g.mu.Unlock()
	if err != nil {
		return bindgen.Result{Output: opts.Output}, err
	}
	if err := os.WriteFile(opts.Output, []byte(bindgen.RenderShim()), 0o644); err != nil {
		return bindgen.Result{}, err
	}
	return bindgen.Result{Output: opts.Output, Command: bindgen.Plan(opts).Args()}, nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func newProject(t *testing.T, headers ...string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "bindgen"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, h := range headers {
		if err := os.WriteFile(filepath.Join(root, "bindgen", h), []byte("#include <SDL2/SDL.h>\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestRunVerifyMissingOutputDoesNotTranslate(t *testing.T) {
	root := newProject(t, "sdl2.h")
	gen := &fakeGenerator{}
	outcomes, err := Run(context.Background(), &Request{BaseDir: root, Generator: gen})
	if !errors.Is(err, ErrMissingOutput) {
		t.Fatalf("want ErrMissingOutput, got %v", err)
	}
	var te *TargetError
	if !errors.As(err, &te) || te.Label != "sdl2" || te.Mode != ModeVerify {
		t.Fatalf("want TargetError for sdl2, got %#v", err)
	}
	if !strings.HasPrefix(err.Error(), "bindgen disabled but sdl2 bindings missing: ") {
		t.Errorf("message = %q", err.Error())
	}
	if gen.callCount() != 0 {
		t.Fatal("verify mode must not translate")
	}
	if outcomes[0].Action != ActionFailed {
		t.Errorf("core action = %s", outcomes[0].Action)
	}
}

func TestRunVerifyExisting(t *testing.T) {
	root := newProject(t)
	if err := os.WriteFile(filepath.Join(root, "bindgen", "sdl2.rs"), []byte("mod ctypes {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	outcomes, err := Run(context.Background(), &Request{BaseDir: root})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := []Action{outcomes[0].Action, outcomes[1].Action, outcomes[2].Action}
	want := []Action{ActionVerified, ActionSkipped, ActionSkipped}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("actions = %v, want %v", got, want)
		}
	}
}

func TestRunRegenerateIsRepeatable(t *testing.T) {
	root := newProject(t, "sdl2.h", "sdl2-ttf.h")
	gen := &fakeGenerator{}
	req := &Request{BaseDir: root, Features: Features{Bindgen: true, TTF: true}, Generator: gen}
	for run := 0; run < 2; run++ {
		outcomes, err := Run(context.Background(), req)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if outcomes[0].Action != ActionRegenerated || outcomes[1].Action != ActionRegenerated || outcomes[2].Action != ActionSkipped {
			t.Fatalf("run %d actions: %s %s %s", run, outcomes[0].Action, outcomes[1].Action, outcomes[2].Action)
		}
	}
	if gen.callCount() != 4 {
		t.Fatalf("calls = %d, want 4", gen.callCount())
	}
	if gen.calls[0] != filepath.Join(root, "bindgen", "sdl2.rs") || gen.calls[1] != filepath.Join(root, "bindgen", "sdl2-ttf.rs") {
		t.Fatalf("targets ran out of order: %q", gen.calls)
	}
}

func TestRunRegenerateFailureIsTargetSpecific(t *testing.T) {
	root := newProject(t, "sdl2.h")
	gen := &fakeGenerator{fail: map[string]error{"sdl2.rs": bindgen.ErrTranslate}}
	outcomes, err := Run(context.Background(), &Request{
		BaseDir:   root,
		Features:  Features{Bindgen: true, Image: true},
		Generator: gen,
	})
	if !errors.Is(err, bindgen.ErrTranslate) {
		t.Fatalf("want ErrTranslate, got %v", err)
	}
	if want := "error generating sdl2 bindings: could not create file"; err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
	// the image target never starts once core failed with one job
	if gen.callCount() != 1 {
		t.Errorf("calls = %d, want 1", gen.callCount())
	}
	if outcomes[1].Action != ActionSkipped || outcomes[1].Err != nil {
		t.Errorf("ttf outcome = %s, %v; want skipped", outcomes[1].Action, outcomes[1].Err)
	}
	if outcomes[2].Action != ActionNotRun || outcomes[2].Err != nil {
		t.Errorf("image outcome = %s, %v; want not-run", outcomes[2].Action, outcomes[2].Err)
	}
}

func TestRunFailureLeavesDisabledTargetsSkipped(t *testing.T) {
	root := newProject(t)
	outcomes, err := Run(context.Background(), &Request{BaseDir: root})
	if !errors.Is(err, ErrMissingOutput) {
		t.Fatalf("want ErrMissingOutput, got %v", err)
	}
	if outcomes[0].Action != ActionFailed {
		t.Fatalf("core action = %s", outcomes[0].Action)
	}
	for _, o := range outcomes[1:] {
		if o.Mode != ModeSkip || o.Action != ActionSkipped || o.Err != nil {
			t.Errorf("%s outcome = mode %s, action %s, err %v; want a plain skip", o.Target.Name, o.Mode, o.Action, o.Err)
		}
	}
}

func TestRunParallelJobs(t *testing.T) {
	root := newProject(t, "sdl2.h", "sdl2-ttf.h", "sdl2-image.h")
	gen := &fakeGenerator{}
	sink := &recordingSink{}
	outcomes, err := Run(context.Background(), &Request{
		BaseDir:   root,
		Features:  Features{Bindgen: true, TTF: true, Image: true},
		Generator: gen,
		Jobs:      3,
		Progress:  sink,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, o := range outcomes {
		if o.Action != ActionRegenerated {
			t.Errorf("outcome %d = %s", i, o.Action)
		}
	}
	done := 0
	for _, ev := range sink.events {
		if ev.Status == StatusDone {
			done++
		}
	}
	if done != 3 {
		t.Errorf("done events = %d, want 3", done)
	}
}

func TestRunDryRun(t *testing.T) {
	root := newProject(t)
	gen := &fakeGenerator{}
	outcomes, err := Run(context.Background(), &Request{
		BaseDir:   root,
		Features:  Features{Bindgen: true},
		Generator: gen,
		Host:      bindgen.FlavorUnix,
		DryRun:    true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcomes[0].Action != ActionPlanned || len(outcomes[0].Command) == 0 {
		t.Fatalf("core outcome = %+v", outcomes[0])
	}
	if gen.callCount() != 0 {
		t.Fatal("dry run must not call the generator")
	}
}

func TestRunIncremental(t *testing.T) {
	root := newProject(t, "sdl2.h")
	cache, err := stamp.Open(filepath.Join(root, stamp.DefaultPath))
	if err != nil {
		t.Fatal(err)
	}
	gen := &fakeGenerator{}
	req := &Request{BaseDir: root, Features: Features{Bindgen: true}, Generator: gen, Stamps: cache}

	if _, err := Run(context.Background(), req); err != nil {
		t.Fatalf("first run: %v", err)
	}
	outcomes, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if outcomes[0].Action != ActionUpToDate {
		t.Fatalf("second run action = %s, want up-to-date", outcomes[0].Action)
	}

	header := filepath.Join(root, "bindgen", "sdl2.h")
	if err := os.WriteFile(header, []byte("#include <SDL2/SDL_video.h>\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	outcomes, err = Run(context.Background(), req)
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if outcomes[0].Action != ActionRegenerated {
		t.Fatalf("changed header action = %s, want regenerated", outcomes[0].Action)
	}
	if gen.callCount() != 2 {
		t.Fatalf("calls = %d, want 2", gen.callCount())
	}

	req.TranslatorID = "bindgen 0.70.1"
	outcomes, err = Run(context.Background(), req)
	if err != nil {
		t.Fatalf("upgraded translator run: %v", err)
	}
	if outcomes[0].Action != ActionRegenerated {
		t.Fatalf("new translator action = %s, want regenerated", outcomes[0].Action)
	}
	if gen.callCount() != 3 {
		t.Fatalf("calls = %d, want 3", gen.callCount())
	}

	reopened, err := stamp.Open(filepath.Join(root, stamp.DefaultPath))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reopened.Lookup(filepath.Join(root, "bindgen", "sdl2.rs")); !ok {
		t.Fatal("stamp not persisted")
	}
}

func TestRunRecordsTimings(t *testing.T) {
	root := newProject(t)
	if err := os.WriteFile(filepath.Join(root, "bindgen", "sdl2.rs"), []byte("mod ctypes {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	timer := observ.NewTimer()
	if _, err := Run(context.Background(), &Request{BaseDir: root, Timer: timer}); err != nil {
		t.Fatal(err)
	}
	phases := timer.Phases()
	if len(phases) != 1 || phases[0].Target != "sdl2" || phases[0].Name != "verify" {
		t.Fatalf("phases = %+v", phases)
	}
}

func TestRunNilRequest(t *testing.T) {
	if _, err := Run(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}
}
