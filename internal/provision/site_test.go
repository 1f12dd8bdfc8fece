package provision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSite(t *testing.T) {
	site := DeriveSite("acme", "example.com", "/var/www")

	assert.Equal(t, "https://acme.example.com", site.URL)
	assert.Equal(t, "/var/www/acme.example.com", site.Dir)
}

func TestCheckAvailable(t *testing.T) {
	webRoot := t.TempDir()

	assert.NoError(t, CheckAvailable(filepath.Join(webRoot, "acme.example.com")))

	dir := filepath.Join(webRoot, "taken.example.com")
	require.NoError(t, os.Mkdir(dir, 0755))
	assert.ErrorIs(t, CheckAvailable(dir), ErrSiteExists)
}
