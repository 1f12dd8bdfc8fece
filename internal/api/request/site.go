package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/edvin/siteprovision/internal/model"
)

// CreateSite carries the raw fields of a provisioning request. Users stays
// raw until validation because multipart forms deliver it as a JSON string
// while structured bodies deliver an array.
type CreateSite struct {
	Subdomain     string          `json:"subdomain" validate:"required,subdomain"`
	SiteTitle     string          `json:"siteTitle" validate:"required"`
	AdminUsername string          `json:"adminUsername" validate:"required"`
	AdminEmail    string          `json:"adminEmail" validate:"required"`
	Users         json.RawMessage `json:"users,omitempty"`
}

// ParseCreateSite decodes a provisioning request from a JSON body or a
// multipart form and validates it. The returned file header is the logo
// upload, nil when the request carried none. Validation is pure: no file
// is stored here.
func ParseCreateSite(r *http.Request, maxUploadBytes int64) (*model.ProvisionRequest, *multipart.FileHeader, error) {
	var form CreateSite
	var logo *multipart.FileHeader

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes + 1<<20); err != nil {
			return nil, nil, fmt.Errorf("invalid multipart form: %w", err)
		}
		form.Subdomain = r.FormValue("subdomain")
		form.SiteTitle = r.FormValue("siteTitle")
		form.AdminUsername = r.FormValue("adminUsername")
		form.AdminEmail = r.FormValue("adminEmail")
		if v := r.FormValue("users"); v != "" {
			form.Users = json.RawMessage(v)
		}
		if files := r.MultipartForm.File["logo"]; len(files) > 0 {
			logo = files[0]
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			return nil, nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	req, err := form.Validate()
	if err != nil {
		return nil, nil, err
	}
	return req, logo, nil
}

// Validate applies the request checks in order: required fields, the users
// payload, then the subdomain format.
func (f *CreateSite) Validate() (*model.ProvisionRequest, error) {
	var subdomainInvalid bool

	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("validation error: %w", err)
		}
		var missing []string
		for _, fe := range verrs {
			switch fe.Tag() {
			case "required":
				missing = append(missing, jsonName(fe.Field()))
			case "subdomain":
				subdomainInvalid = true
			}
		}
		if len(missing) > 0 {
			return nil, &MissingFieldsError{Fields: missing}
		}
	}

	users, err := parseUsers(f.Users)
	if err != nil {
		return nil, err
	}

	if subdomainInvalid {
		return nil, ErrSubdomainFormat
	}

	return &model.ProvisionRequest{
		Subdomain:     f.Subdomain,
		SiteTitle:     f.SiteTitle,
		AdminUsername: f.AdminUsername,
		AdminEmail:    f.AdminEmail,
		Users:         users,
	}, nil
}

// parseUsers accepts an array or a JSON-string-wrapped array, the latter
// being how multipart forms transmit structured data.
func parseUsers(raw json.RawMessage) ([]model.SiteUser, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	data := []byte(raw)
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsersPayload, err)
	}
	if s, ok := probe.(string); ok {
		data = []byte(s)
		if err := json.Unmarshal(data, &probe); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUsersPayload, err)
		}
	}
	if probe == nil {
		return nil, nil
	}
	if _, ok := probe.([]any); !ok {
		return nil, ErrUsersType
	}

	var users []model.SiteUser
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsersPayload, err)
	}
	return users, nil
}

func jsonName(field string) string {
	switch field {
	case "Subdomain":
		return "subdomain"
	case "SiteTitle":
		return "siteTitle"
	case "AdminUsername":
		return "adminUsername"
	case "AdminEmail":
		return "adminEmail"
	}
	return field
}
