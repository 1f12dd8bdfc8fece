// Package registry tracks in-flight and finished provisioning jobs for the
// lifetime of the process. Readers always get snapshots, so job goroutines
// can keep mutating their records while the API serves status queries.
package registry

import (
	"sync"
	"time"

	"github.com/edvin/siteprovision/internal/model"
)

type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*model.Job
}

func New() *Registry {
	return &Registry{jobs: make(map[string]*model.Job)}
}

func (r *Registry) Put(job *model.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
}

// Get returns a deep copy of a tracked job.
func (r *Registry) Get(id string) (*model.Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, false
	}
	return clone(job), true
}

// MustGet is Get for callers that know the job is tracked.
func (r *Registry) MustGet(id string) *model.Job {
	job, ok := r.Get(id)
	if !ok {
		panic("registry: unknown job " + id)
	}
	return job
}

func (r *Registry) SetStatus(job *model.Job, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.Status = status
}

func (r *Registry) SetStepStatus(job *model.Job, i int, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.Steps[i].Status = status
}

// SetStep publishes a completed step result.
func (r *Registry) SetStep(job *model.Job, i int, result *model.StepResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.Steps[i] = result
}

// Finish moves a job to its terminal state. Terminal states are never
// overwritten.
func (r *Registry) Finish(job *model.Job, status, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.Status == model.StatusSucceeded || job.Status == model.StatusFailed {
		return
	}
	now := time.Now()
	job.Status = status
	job.Error = errMsg
	job.FinishedAt = &now
}

func clone(job *model.Job) *model.Job {
	c := *job
	c.Steps = make([]*model.StepResult, len(job.Steps))
	for i, step := range job.Steps {
		cs := *step
		cs.Args = append([]string(nil), step.Args...)
		c.Steps[i] = &cs
	}
	if job.FinishedAt != nil {
		t := *job.FinishedAt
		c.FinishedAt = &t
	}
	return &c
}
