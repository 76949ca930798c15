package runner

import (
	"context"
	"time"

	"github.com/akrzos/jetlag-mcp/pkg/project"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds executions whose request carries no budget.
// Unbounded waits on an external tool would let one stuck playbook
// pin a long-lived server.
const DefaultTimeout = 2 * time.Hour

// Result is the structured outcome of one execution. Exactly one of
// ExitCode (set) / TimedOut (true) holds. A non-zero exit code is
// data, not an error; interpretation belongs to the caller.
type Result struct {
	ExitCode *int          `json:"exit_code,omitempty"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	TimedOut bool          `json:"timed_out"`
	Command  []string      `json:"command"`
	Duration time.Duration `json:"duration"`
}

// Runner executes playbooks inside one project root.
type Runner struct {
	root    *project.Root
	spawner Spawner
	log     zerolog.Logger
}

// New returns a Runner using the given spawner; pass ExecSpawner{}
// for real execution.
func New(root *project.Root, spawner Spawner, log zerolog.Logger) *Runner {
	return &Runner{root: root, spawner: spawner, log: log}
}

// Run executes one request. Invalid input, an unknown playbook, or an
// escaping path fails here before anything is spawned. The process
// runs with its working directory at the project root so ansible's
// own relative-path config discovery behaves as a manual invocation
// would.
func (r *Runner) Run(ctx context.Context, req *Request) (*Result, error) {
	argv, err := BuildCommand(r.root, req)
	if err != nil {
		return nil, err
	}

	timeout := DefaultTimeout
	if req.TimeoutSeconds > 0 {
		timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	r.log.Info().
		Str("playbook", req.Playbook).
		Bool("check", req.Check).
		Dur("timeout", timeout).
		Msg("running playbook")

	outcome, err := r.spawner.Spawn(ctx, argv, r.root.Dir(), Environ(r.root))
	if err != nil {
		r.log.Error().Err(err).Str("playbook", req.Playbook).Msg("spawn failed")
		return nil, err
	}

	result := &Result{
		Stdout:   string(outcome.Stdout),
		Stderr:   string(outcome.Stderr),
		Command:  argv,
		Duration: outcome.Duration,
	}
	if outcome.TimedOut {
		result.TimedOut = true
		r.log.Warn().
			Str("playbook", req.Playbook).
			Dur("after", outcome.Duration).
			Msg("playbook timed out")
		return result, nil
	}
	code := outcome.ExitCode
	result.ExitCode = &code
	r.log.Info().
		Str("playbook", req.Playbook).
		Int("exit_code", code).
		Dur("duration", outcome.Duration).
		Msg("playbook finished")
	return result, nil
}
