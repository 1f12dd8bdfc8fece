package provision

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/siteprovision/internal/model"
)

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
}

func TestScriptRunnerSuccess(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "create-site", `echo "creating $1"
echo "warning: slow disk" >&2
exit 0`)

	r := NewScriptRunner(zerolog.Nop(), dir, false)
	step := &model.StepResult{Name: "create-site", Args: []string{"acme"}}

	err := r.Run(context.Background(), step)
	require.NoError(t, err)

	assert.Equal(t, model.StatusSucceeded, step.Status)
	assert.Equal(t, 0, step.ExitCode)
	assert.Equal(t, "creating acme\n", step.Stdout)
	assert.Equal(t, "warning: slow disk\n", step.Stderr)
	assert.Empty(t, step.SpawnError)
}

func TestScriptRunnerArgsVerbatim(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "configure-application", `for a in "$@"; do echo "$a"; done`)

	r := NewScriptRunner(zerolog.Nop(), dir, false)
	step := &model.StepResult{
		Name: "configure-application",
		Args: []string{"acme", "Acme Inc", "bob", "b@x.com", "editor", ""},
	}

	err := r.Run(context.Background(), step)
	require.NoError(t, err)

	// Arguments pass through in order, including the empty password slot.
	assert.Equal(t, "acme\nAcme Inc\nbob\nb@x.com\neditor\n\n", step.Stdout)
}

func TestScriptRunnerNonzeroExit(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "install-application", `echo "db unreachable" >&2
exit 3`)

	r := NewScriptRunner(zerolog.Nop(), dir, false)
	step := &model.StepResult{Name: "install-application", Args: []string{"acme"}}

	err := r.Run(context.Background(), step)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `step "install-application" exited with code 3`)

	assert.Equal(t, model.StatusFailed, step.Status)
	assert.Equal(t, 3, step.ExitCode)
	assert.Equal(t, "db unreachable\n", step.Stderr)
	assert.Empty(t, step.SpawnError)
}

func TestScriptRunnerSpawnFailure(t *testing.T) {
	r := NewScriptRunner(zerolog.Nop(), t.TempDir(), false)
	step := &model.StepResult{Name: "create-site", Args: []string{"acme"}}

	err := r.Run(context.Background(), step)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `step "create-site" failed to start`)

	assert.Equal(t, model.StatusFailed, step.Status)
	assert.NotEmpty(t, step.SpawnError)
}
