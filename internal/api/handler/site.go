package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/edvin/siteprovision/internal/api/request"
	"github.com/edvin/siteprovision/internal/api/response"
	"github.com/edvin/siteprovision/internal/model"
	"github.com/edvin/siteprovision/internal/provision"
)

// Provisioner admits provisioning jobs and answers status queries.
type Provisioner interface {
	Start(req *model.ProvisionRequest) (*model.Job, error)
	Job(id string) (*model.Job, bool)
}

// LogoStore persists and removes uploaded logo assets.
type LogoStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(path string) error
}

type Site struct {
	svc            Provisioner
	uploads        LogoStore
	maxUploadBytes int64
}

func NewSite(svc Provisioner, uploads LogoStore, maxUploadBytes int64) *Site {
	return &Site{svc: svc, uploads: uploads, maxUploadBytes: maxUploadBytes}
}

// Create admits a provisioning request. The response acknowledges admission
// only; the pipeline runs on after the response is sent and its outcome is
// reported by mail, never to this caller.
func (h *Site) Create(w http.ResponseWriter, r *http.Request) {
	req, logo, err := request.ParseCreateSite(r, h.maxUploadBytes)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if logo != nil {
		path, err := h.uploads.Save(logo)
		if err != nil {
			response.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.LogoPath = path
	}

	job, err := h.svc.Start(req)
	if err != nil {
		// The job never started, so nothing else will clean up the logo.
		if rmErr := h.uploads.Remove(req.LogoPath); rmErr != nil {
			zerolog.Ctx(r.Context()).Error().Err(rmErr).Msg("failed to remove orphaned logo upload")
		}
		if errors.Is(err, provision.ErrSiteExists) || errors.Is(err, provision.ErrProvisionInProgress) {
			response.WriteError(w, http.StatusConflict, err.Error())
			return
		}
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusAccepted, response.Accepted{
		Message:       "site provisioning started",
		SiteURL:       job.SiteURL,
		AdminUsername: req.AdminUsername,
		JobID:         job.ID,
	})
}

// GetJob returns the current snapshot of a job tracked by this process.
func (h *Site) GetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.WriteError(w, http.StatusBadRequest, "missing job ID")
		return
	}

	job, ok := h.svc.Job(id)
	if !ok {
		response.WriteError(w, http.StatusNotFound, "unknown job")
		return
	}

	response.WriteJSON(w, http.StatusOK, job)
}
