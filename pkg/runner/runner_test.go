package runner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeSpawner records the spawn call and returns a canned outcome.
type fakeSpawner struct {
	outcome  *Outcome
	err      error
	calls    int
	argv     []string
	dir      string
	deadline time.Time
}

func (f *fakeSpawner) Spawn(ctx context.Context, argv []string, dir string, env []string) (*Outcome, error) {
	f.calls++
	f.argv = argv
	f.dir = dir
	f.deadline, _ = ctx.Deadline()
	return f.outcome, f.err
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestRun_Completed(t *testing.T) {
	root := newTestProject(t)
	fake := &fakeSpawner{outcome: &Outcome{ExitCode: 2, Stdout: []byte("PLAY RECAP"), Stderr: []byte("warn")}}
	r := New(root, fake, testLogger())

	res, err := r.Run(context.Background(), &Request{Playbook: "sno-deploy.yml"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode == nil || *res.ExitCode != 2 {
		t.Errorf("ExitCode = %v, want 2", res.ExitCode)
	}
	if res.TimedOut {
		t.Error("TimedOut = true for completed run")
	}
	if res.Stdout != "PLAY RECAP" || res.Stderr != "warn" {
		t.Errorf("streams = %q / %q", res.Stdout, res.Stderr)
	}
	if fake.dir != root.Dir() {
		t.Errorf("cwd = %q, want project root", fake.dir)
	}
}

func TestRun_TimedOutHasNoExitCode(t *testing.T) {
	root := newTestProject(t)
	fake := &fakeSpawner{outcome: &Outcome{TimedOut: true, Stdout: []byte("partial")}}
	r := New(root, fake, testLogger())

	res, err := r.Run(context.Background(), &Request{Playbook: "sno-deploy.yml", TimeoutSeconds: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.TimedOut {
		t.Error("TimedOut = false")
	}
	if res.ExitCode != nil {
		t.Errorf("ExitCode = %d, want absent for timeout", *res.ExitCode)
	}
	if res.Stdout != "partial" {
		t.Errorf("partial output lost: %q", res.Stdout)
	}
}

func TestRun_DefaultTimeoutApplied(t *testing.T) {
	root := newTestProject(t)
	fake := &fakeSpawner{outcome: &Outcome{}}
	r := New(root, fake, testLogger())

	if _, err := r.Run(context.Background(), &Request{Playbook: "sno-deploy.yml"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if fake.deadline.IsZero() {
		t.Fatal("no deadline set, unbounded wait")
	}
	remaining := time.Until(fake.deadline)
	if remaining > DefaultTimeout || remaining < DefaultTimeout-time.Minute {
		t.Errorf("deadline %v from now, want ~%v", remaining, DefaultTimeout)
	}
}

func TestRun_InvalidInputNeverSpawns(t *testing.T) {
	root := newTestProject(t)
	fake := &fakeSpawner{outcome: &Outcome{}}
	r := New(root, fake, testLogger())

	req := &Request{Playbook: "sno-deploy.yml", ExtraVars: "[1,2,3]"}
	_, err := r.Run(context.Background(), req)
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("Run = %v, want InvalidInputError", err)
	}
	if fake.calls != 0 {
		t.Errorf("spawner called %d times for invalid input", fake.calls)
	}
}

func TestRun_SpawnFailedPropagates(t *testing.T) {
	root := newTestProject(t)
	fake := &fakeSpawner{err: &SpawnError{Cmd: "ansible-playbook", Err: errors.New("not found")}}
	r := New(root, fake, testLogger())

	_, err := r.Run(context.Background(), &Request{Playbook: "sno-deploy.yml"})
	var spawn *SpawnError
	if !errors.As(err, &spawn) {
		t.Errorf("Run = %v, want SpawnError", err)
	}
}

func TestExecSpawner_CapturesBothStreams(t *testing.T) {
	out, err := ExecSpawner{}.Spawn(context.Background(),
		[]string{"sh", "-c", "echo out; echo err >&2; exit 3"}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if out.TimedOut {
		t.Error("TimedOut = true")
	}
	if out.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", out.ExitCode)
	}
	if strings.TrimSpace(string(out.Stdout)) != "out" {
		t.Errorf("Stdout = %q", out.Stdout)
	}
	if strings.TrimSpace(string(out.Stderr)) != "err" {
		t.Errorf("Stderr = %q", out.Stderr)
	}
}

func TestExecSpawner_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	out, err := ExecSpawner{}.Spawn(ctx, []string{"sleep", "30"}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if !out.TimedOut {
		t.Fatal("TimedOut = false for expired budget")
	}
	// The process must be gone well before its natural runtime.
	if elapsed := time.Since(start); elapsed > 15*time.Second {
		t.Errorf("spawn blocked %v after timeout", elapsed)
	}
}

func TestExecSpawner_SpawnFailed(t *testing.T) {
	_, err := ExecSpawner{}.Spawn(context.Background(),
		[]string{"definitely-not-a-real-binary-zz"}, t.TempDir(), nil)
	var spawn *SpawnError
	if !errors.As(err, &spawn) {
		t.Errorf("Spawn = %v, want SpawnError", err)
	}
}
