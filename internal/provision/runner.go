package provision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/siteprovision/internal/model"
)

// Runner executes one pipeline step, filling in its captured output and
// result. A non-nil error means the step failed.
type Runner interface {
	Run(ctx context.Context, step *model.StepResult) error
}

// ScriptRunner resolves step programs by name in the scripts directory and
// runs them, optionally through sudo. Output is forwarded to the log as it
// arrives and buffered for the step record. There is no timeout: a hung
// step program hangs its job.
type ScriptRunner struct {
	logger     zerolog.Logger
	scriptsDir string
	sudo       bool
}

func NewScriptRunner(logger zerolog.Logger, scriptsDir string, sudo bool) *ScriptRunner {
	return &ScriptRunner{
		logger:     logger.With().Str("component", "script-runner").Logger(),
		scriptsDir: scriptsDir,
		sudo:       sudo,
	}
}

func (r *ScriptRunner) Run(ctx context.Context, step *model.StepResult) error {
	script := filepath.Join(r.scriptsDir, step.Name)

	var cmd *exec.Cmd
	if r.sudo {
		cmd = exec.CommandContext(ctx, "sudo", append([]string{script}, step.Args...)...)
	} else {
		cmd = exec.CommandContext(ctx, script, step.Args...)
	}

	logger := r.logger.With().Str("step", step.Name).Logger()
	logger.Info().Strs("args", step.Args).Msg("running step")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = io.MultiWriter(&stdout, &streamLogger{logger: logger, stream: "stdout"})
	cmd.Stderr = io.MultiWriter(&stderr, &streamLogger{logger: logger, stream: "stderr"})

	step.Status = model.StatusRunning
	if err := cmd.Start(); err != nil {
		step.Status = model.StatusFailed
		step.SpawnError = err.Error()
		return fmt.Errorf("step %q failed to start: %w", step.Name, err)
	}

	err := cmd.Wait()
	step.Stdout = stdout.String()
	step.Stderr = stderr.String()

	if err != nil {
		step.Status = model.StatusFailed
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			step.ExitCode = exitErr.ExitCode()
			return fmt.Errorf("step %q exited with code %d", step.Name, step.ExitCode)
		}
		step.SpawnError = err.Error()
		return fmt.Errorf("step %q: %w", step.Name, err)
	}

	step.ExitCode = 0
	step.Status = model.StatusSucceeded
	logger.Info().Msg("step succeeded")
	return nil
}

// streamLogger forwards each output chunk to the log for live observability.
type streamLogger struct {
	logger zerolog.Logger
	stream string
}

func (w *streamLogger) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		w.logger.Debug().Str("stream", w.stream).Msg(line)
	}
	return len(p), nil
}
