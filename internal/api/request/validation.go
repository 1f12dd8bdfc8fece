package request

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var subdomainRegex = regexp.MustCompile(`^[a-z0-9-]+$`)

func init() {
	validate.RegisterValidation("subdomain", func(fl validator.FieldLevel) bool {
		return subdomainRegex.MatchString(fl.Field().String())
	})
}

var (
	// ErrUsersPayload marks a users field that is not parseable JSON.
	ErrUsersPayload = errors.New("users is not valid JSON")
	// ErrUsersType marks a users field that parsed to something other
	// than an array.
	ErrUsersType = errors.New("users must be a JSON array")
	// ErrSubdomainFormat marks a subdomain outside ^[a-z0-9-]+$.
	ErrSubdomainFormat = errors.New("subdomain may only contain lowercase letters, digits, and hyphens")
)

// MissingFieldsError names the required fields absent from a request.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}
