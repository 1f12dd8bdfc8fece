package provision

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/edvin/siteprovision/internal/config"
	"github.com/edvin/siteprovision/internal/journal"
	"github.com/edvin/siteprovision/internal/metrics"
	"github.com/edvin/siteprovision/internal/model"
	"github.com/edvin/siteprovision/internal/platform"
	"github.com/edvin/siteprovision/internal/registry"
)

// Notifier enqueues an outbound notification without blocking.
type Notifier interface {
	Enqueue(n model.Notification)
}

// AssetStore removes a stored upload; removing an absent asset is a no-op.
type AssetStore interface {
	Remove(path string) error
}

// TranscriptStore archives the step transcript of a finished job.
type TranscriptStore interface {
	PutTranscript(ctx context.Context, job *model.Job) error
}

// Service owns the provisioning pipeline: it admits jobs, runs them as
// background goroutines, and tracks them in the in-memory registry.
type Service struct {
	logger    zerolog.Logger
	cfg       *config.Config
	runner    Runner
	notifier  Notifier
	uploads   AssetStore
	journal   journal.Journal
	artifacts TranscriptStore
	locks     *SubdomainLocks
	jobs      *registry.Registry

	// sem bounds concurrently running pipelines; nil means unbounded.
	sem *semaphore.Weighted
}

func NewService(
	logger zerolog.Logger,
	cfg *config.Config,
	runner Runner,
	notifier Notifier,
	uploads AssetStore,
	jrnl journal.Journal,
	artifacts TranscriptStore,
) *Service {
	if jrnl == nil {
		jrnl = journal.Nop{}
	}
	var sem *semaphore.Weighted
	if cfg.MaxConcurrentJobs > 0 {
		sem = semaphore.NewWeighted(int64(cfg.MaxConcurrentJobs))
	}
	return &Service{
		logger:    logger.With().Str("component", "provision").Logger(),
		cfg:       cfg,
		runner:    runner,
		notifier:  notifier,
		uploads:   uploads,
		journal:   jrnl,
		artifacts: artifacts,
		locks:     NewSubdomainLocks(),
		jobs:      registry.New(),
		sem:       sem,
	}
}

// Job returns a snapshot of a tracked job.
func (s *Service) Job(id string) (*model.Job, bool) {
	return s.jobs.Get(id)
}

// Start admits a request: it claims the subdomain, checks for an existing
// site, and launches the pipeline in the background. The caller gets the
// accepted job immediately; the terminal outcome is only observable through
// notifications, the job query, and the journal.
func (s *Service) Start(req *model.ProvisionRequest) (*model.Job, error) {
	release, ok := s.locks.TryAcquire(req.Subdomain)
	if !ok {
		return nil, ErrProvisionInProgress
	}

	site := DeriveSite(req.Subdomain, s.cfg.PlatformDomain, s.cfg.WebRoot)
	if err := CheckAvailable(site.Dir); err != nil {
		release()
		return nil, err
	}

	job := &model.Job{
		ID:        platform.NewID(),
		Subdomain: req.Subdomain,
		SiteURL:   site.URL,
		SiteDir:   site.Dir,
		Status:    model.StatusPending,
		Steps:     BuildSteps(req),
		CreatedAt: time.Now(),
	}
	s.jobs.Put(job)

	go s.run(context.Background(), job, req, release)

	return s.jobs.MustGet(job.ID), nil
}

// run drives one job to its terminal state. It never returns an error:
// everything after admission is reported through the job record,
// notifications, logs, and the journal.
func (s *Service) run(ctx context.Context, job *model.Job, req *model.ProvisionRequest, release func()) {
	logger := s.logger.With().Str("job_id", job.ID).Str("subdomain", job.Subdomain).Logger()

	// The subdomain lock is normally released right after create-site; this
	// covers jobs that die before reaching it.
	defer release()

	// The uploaded logo must never outlive the job, whatever the outcome.
	defer func() {
		if err := s.uploads.Remove(req.LogoPath); err != nil {
			logger.Error().Err(err).Str("path", req.LogoPath).Msg("failed to remove uploaded logo")
		}
	}()

	if s.sem != nil {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			s.finish(ctx, job, logger, err)
			return
		}
		defer s.sem.Release(1)
	}

	s.jobs.SetStatus(job, model.StatusRunning)
	s.journal.JobCreated(ctx, job)

	if s.cfg.NotifyInProgress {
		s.notifier.Enqueue(model.Notification{
			Kind:          model.NotifyInProgress,
			Recipient:     req.AdminEmail,
			SiteURL:       job.SiteURL,
			AdminUsername: req.AdminUsername,
		})
	}

	var failure error
	for i := range job.Steps {
		name := job.Steps[i].Name

		if failure != nil {
			s.jobs.SetStepStatus(job, i, model.StatusSkipped)
			continue
		}

		if name == StepConfigureApplication {
			for _, u := range req.Users {
				s.notifier.Enqueue(model.Notification{
					Kind:          model.NotifyUserCredentialSetup,
					Recipient:     u.Email,
					SiteURL:       job.SiteURL,
					AdminUsername: req.AdminUsername,
					Username:      u.Username,
				})
			}
		}

		failure = s.runStep(ctx, job, i, logger)

		if name == StepCreateSite {
			release()
		}
	}

	s.finish(ctx, job, logger, failure)

	if failure != nil {
		s.notifier.Enqueue(model.Notification{
			Kind:          model.NotifyFailure,
			Recipient:     req.AdminEmail,
			SiteURL:       job.SiteURL,
			AdminUsername: req.AdminUsername,
			Reason:        failure.Error(),
		})
	} else {
		s.notifier.Enqueue(model.Notification{
			Kind:          model.NotifySuccess,
			Recipient:     req.AdminEmail,
			SiteURL:       job.SiteURL,
			AdminUsername: req.AdminUsername,
		})
	}

	if s.artifacts != nil {
		snapshot := s.jobs.MustGet(job.ID)
		if err := s.artifacts.PutTranscript(ctx, snapshot); err != nil {
			logger.Error().Err(err).Msg("failed to archive job transcript")
		}
	}
}

// runStep executes one step against a private result record and publishes
// it to the shared job afterwards, so readers never observe a step mid-write.
func (s *Service) runStep(ctx context.Context, job *model.Job, i int, logger zerolog.Logger) error {
	s.jobs.SetStepStatus(job, i, model.StatusRunning)
	s.journal.StepStarted(ctx, job, job.Steps[i].Name)

	result := &model.StepResult{
		Name: job.Steps[i].Name,
		Args: job.Steps[i].Args,
	}

	start := time.Now()
	err := s.runner.Run(ctx, result)
	metrics.StepDuration.WithLabelValues(result.Name).Observe(time.Since(start).Seconds())

	s.jobs.SetStep(job, i, result)
	s.journal.StepFinished(ctx, job, result)

	if err != nil {
		metrics.StepFailures.WithLabelValues(result.Name).Inc()
		logger.Error().Err(err).Str("step", result.Name).Msg("step failed")
	}
	return err
}

func (s *Service) finish(ctx context.Context, job *model.Job, logger zerolog.Logger, failure error) {
	if failure != nil {
		s.jobs.Finish(job, model.StatusFailed, failure.Error())
		metrics.JobsTotal.WithLabelValues(model.StatusFailed).Inc()
		logger.Error().Err(failure).Msg("provisioning failed")
	} else {
		s.jobs.Finish(job, model.StatusSucceeded, "")
		metrics.JobsTotal.WithLabelValues(model.StatusSucceeded).Inc()
		logger.Info().Str("site_url", job.SiteURL).Msg("provisioning succeeded")
	}
	s.journal.JobFinished(ctx, job)
}
