package model

import "time"

// Job status constants. A job is terminal once it reaches StatusSucceeded
// or StatusFailed; transitions are monotonic.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// StepResult records one external-program invocation within a job.
type StepResult struct {
	Name   string   `json:"name"`
	Args   []string `json:"args"`
	Status string   `json:"status"`
	// Stdout and Stderr accumulate the full captured streams for diagnostics.
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`
	// ExitCode is meaningful only when the step ran to completion.
	ExitCode int `json:"exitCode"`
	// SpawnError is set when the program could not be started at all.
	SpawnError string `json:"spawnError,omitempty"`
}

// Job is one end-to-end run of the provisioning pipeline for one request.
// Jobs live only in process memory; a restart loses in-flight jobs.
type Job struct {
	ID        string `json:"id"`
	Subdomain string `json:"subdomain"`
	SiteURL   string `json:"siteUrl"`
	SiteDir   string `json:"siteDir"`

	Status string `json:"status"`
	// Error holds the first step failure's reason once Status is failed.
	Error string `json:"error,omitempty"`

	Steps []*StepResult `json:"steps"`

	CreatedAt  time.Time  `json:"createdAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}
