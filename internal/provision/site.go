package provision

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrSiteExists is returned when the site directory is already occupied.
	ErrSiteExists = errors.New("site already exists")
	// ErrProvisionInProgress is returned when another job holds the
	// subdomain while its create-site step has not finished yet.
	ErrProvisionInProgress = errors.New("provisioning already in progress for this subdomain")
)

// Site is the deterministic location of one provisioned site.
type Site struct {
	URL string
	Dir string
}

// DeriveSite computes the site URL and directory for a subdomain.
func DeriveSite(subdomain, platformDomain, webRoot string) Site {
	host := subdomain + "." + platformDomain
	return Site{
		URL: "https://" + host,
		Dir: filepath.Join(webRoot, host),
	}
}

// CheckAvailable returns ErrSiteExists when the site directory is present.
// The check and the directory creation inside the create-site step are not
// atomic; the per-subdomain lock closes that window within this process.
func CheckAvailable(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return ErrSiteExists
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("check site directory: %w", err)
	}
	return nil
}
