package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/siteprovision/internal/model"
)

func newJob() *model.Job {
	return &model.Job{
		ID:     "job-1",
		Status: model.StatusPending,
		Steps: []*model.StepResult{
			{Name: "create-site", Args: []string{"acme"}, Status: model.StatusPending},
		},
	}
}

func TestGetReturnsSnapshot(t *testing.T) {
	r := New()
	job := newJob()
	r.Put(job)

	snap, ok := r.Get("job-1")
	require.True(t, ok)

	// Mutating the snapshot must not affect the tracked job.
	snap.Status = model.StatusFailed
	snap.Steps[0].Status = model.StatusFailed
	snap.Steps[0].Args[0] = "other"

	fresh, _ := r.Get("job-1")
	assert.Equal(t, model.StatusPending, fresh.Status)
	assert.Equal(t, model.StatusPending, fresh.Steps[0].Status)
	assert.Equal(t, "acme", fresh.Steps[0].Args[0])
}

func TestGetUnknown(t *testing.T) {
	r := New()
	_, ok := r.Get("nope")
	assert.False(t, ok)
}

func TestFinishIsMonotonic(t *testing.T) {
	r := New()
	job := newJob()
	r.Put(job)

	r.Finish(job, model.StatusFailed, "boom")
	snap, _ := r.Get("job-1")
	assert.Equal(t, model.StatusFailed, snap.Status)
	assert.Equal(t, "boom", snap.Error)
	require.NotNil(t, snap.FinishedAt)

	// A second terminal transition is ignored.
	r.Finish(job, model.StatusSucceeded, "")
	snap, _ = r.Get("job-1")
	assert.Equal(t, model.StatusFailed, snap.Status)
	assert.Equal(t, "boom", snap.Error)
}

func TestSetStepPublishesResult(t *testing.T) {
	r := New()
	job := newJob()
	r.Put(job)

	r.SetStep(job, 0, &model.StepResult{
		Name:     "create-site",
		Args:     []string{"acme"},
		Status:   model.StatusSucceeded,
		ExitCode: 0,
		Stdout:   "done\n",
	})

	snap, _ := r.Get("job-1")
	assert.Equal(t, model.StatusSucceeded, snap.Steps[0].Status)
	assert.Equal(t, "done\n", snap.Steps[0].Stdout)
}
