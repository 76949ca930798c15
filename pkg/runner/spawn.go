package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Outcome is what a Spawner reports for one finished process.
// Exactly one of ExitCode/TimedOut is meaningful: a timed-out process
// has no exit code worth reporting.
type Outcome struct {
	ExitCode int
	TimedOut bool
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// SpawnError means the external executable never started (not found,
// permission denied). Distinct from a run that completed with a
// non-zero exit and from a timeout.
type SpawnError struct {
	Cmd string
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %q: %v", e.Cmd, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Spawner abstracts process execution so the runner's classification
// logic can be exercised against a fake without invoking ansible.
type Spawner interface {
	Spawn(ctx context.Context, argv []string, dir string, env []string) (*Outcome, error)
}

// ExecSpawner runs processes via os/exec. Stdout and stderr are
// captured independently and drained concurrently with the wait (the
// exec package copies each non-file stream in its own goroutine), so
// a chatty process cannot deadlock against a full pipe buffer.
type ExecSpawner struct{}

func (ExecSpawner) Spawn(ctx context.Context, argv []string, dir string, env []string) (*Outcome, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// On deadline the whole process group is killed, not just the
	// direct child; ansible forks workers that must not outlive the
	// budget. WaitDelay bounds the stream drain after the kill.
	setProcessGroup(cmd)
	cmd.WaitDelay = 10 * time.Second

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if ctx.Err() != nil {
		return &Outcome{
			TimedOut: true,
			Stdout:   stdout.Bytes(),
			Stderr:   stderr.Bytes(),
			Duration: duration,
		}, nil
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, &SpawnError{Cmd: argv[0], Err: err}
		}
		return &Outcome{
			ExitCode: exitErr.ExitCode(),
			Stdout:   stdout.Bytes(),
			Stderr:   stderr.Bytes(),
			Duration: duration,
		}, nil
	}
	return &Outcome{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: duration,
	}, nil
}
