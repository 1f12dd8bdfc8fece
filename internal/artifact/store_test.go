package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edvin/siteprovision/internal/model"
)

func TestTranscript(t *testing.T) {
	job := &model.Job{
		ID:        "job-1",
		Subdomain: "acme",
		SiteURL:   "https://acme.example.com",
		Status:    model.StatusFailed,
		Error:     `step "install-application" exited with code 2`,
		Steps: []*model.StepResult{
			{Name: "create-site", Status: model.StatusSucceeded, ExitCode: 0, Stdout: "created\n"},
			{Name: "install-application", Status: model.StatusFailed, ExitCode: 2, Stderr: "boom"},
			{Name: "configure-application", Status: model.StatusSkipped},
			{Name: "schedule-recurring-tasks", Status: model.StatusSkipped},
		},
	}

	out := Transcript(job)

	assert.Contains(t, out, "job job-1 (https://acme.example.com) failed")
	assert.Contains(t, out, `error: step "install-application" exited with code 2`)
	assert.Contains(t, out, "--- step create-site [succeeded]")
	assert.Contains(t, out, "stdout:\ncreated\n")
	assert.Contains(t, out, "stderr:\nboom\n")
	assert.Contains(t, out, "--- step configure-application [skipped]")
	// Skipped steps carry no exit code line.
	assert.NotContains(t, out, "--- step configure-application [skipped]\nexit code")
}

func TestTranscriptSpawnError(t *testing.T) {
	job := &model.Job{
		ID:     "job-2",
		Status: model.StatusFailed,
		Steps: []*model.StepResult{
			{Name: "create-site", Status: model.StatusFailed, SpawnError: "fork/exec: permission denied"},
		},
	}

	out := Transcript(job)
	assert.Contains(t, out, "spawn error: fork/exec: permission denied")
	assert.NotContains(t, out, "exit code")
}
