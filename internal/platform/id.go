package platform

import (
	"github.com/google/uuid"
)

// NewID returns a random UUID string, used for job IDs and stored upload names.
func NewID() string {
	return uuid.New().String()
}
