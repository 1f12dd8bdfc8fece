// Package journal appends provisioning job state transitions to a durable
// log. The service itself never reads the journal back; it exists so an
// external reconciler can detect jobs that died mid-pipeline, which the
// in-memory job registry cannot show after a restart.
package journal

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/edvin/siteprovision/internal/model"
)

// Journal records job lifecycle events. Writes are best-effort: a journal
// failure is logged and never affects the job.
type Journal interface {
	JobCreated(ctx context.Context, job *model.Job)
	StepStarted(ctx context.Context, job *model.Job, step string)
	StepFinished(ctx context.Context, job *model.Job, step *model.StepResult)
	JobFinished(ctx context.Context, job *model.Job)
}

// Nop is used when no journal database is configured.
type Nop struct{}

func (Nop) JobCreated(context.Context, *model.Job)                      {}
func (Nop) StepStarted(context.Context, *model.Job, string)             {}
func (Nop) StepFinished(context.Context, *model.Job, *model.StepResult) {}
func (Nop) JobFinished(context.Context, *model.Job)                     {}

// Postgres appends events to the provision_events table.
type Postgres struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) *Postgres {
	return &Postgres{
		pool:   pool,
		logger: logger.With().Str("component", "journal").Logger(),
	}
}

func (j *Postgres) append(ctx context.Context, job *model.Job, event, step, detail string, exitCode *int) {
	_, err := j.pool.Exec(ctx,
		`INSERT INTO provision_events (job_id, subdomain, event, step, exit_code, detail, created_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), now())`,
		job.ID, job.Subdomain, event, step, exitCode, detail,
	)
	if err != nil {
		j.logger.Error().
			Err(err).
			Str("job_id", job.ID).
			Str("event", event).
			Msg("failed to append journal event")
	}
}

func (j *Postgres) JobCreated(ctx context.Context, job *model.Job) {
	j.append(ctx, job, "job_created", "", job.SiteURL, nil)
}

func (j *Postgres) StepStarted(ctx context.Context, job *model.Job, step string) {
	j.append(ctx, job, "step_started", step, "", nil)
}

func (j *Postgres) StepFinished(ctx context.Context, job *model.Job, step *model.StepResult) {
	detail := step.SpawnError
	var exitCode *int
	if step.SpawnError == "" {
		exitCode = &step.ExitCode
	}
	j.append(ctx, job, "step_finished", step.Name, detail, exitCode)
}

func (j *Postgres) JobFinished(ctx context.Context, job *model.Job) {
	j.append(ctx, job, "job_"+job.Status, "", job.Error, nil)
}
