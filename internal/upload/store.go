package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/siteprovision/internal/platform"
)

// Store writes incoming logo uploads to the upload directory and removes
// them again once a job is done with them.
type Store struct {
	logger   zerolog.Logger
	dir      string
	maxBytes int64
}

func NewStore(logger zerolog.Logger, dir string, maxBytes int64) *Store {
	return &Store{
		logger:   logger.With().Str("component", "upload-store").Logger(),
		dir:      dir,
		maxBytes: maxBytes,
	}
}

// Save persists an uploaded file and returns its path. Only image MIME
// types are accepted, and the declared size must be within the limit.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.maxBytes {
		return "", fmt.Errorf("upload too large: %d bytes (limit %d)", fh.Size, s.maxBytes)
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("unsupported upload type %q: only images are accepted", contentType)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	path := filepath.Join(s.dir, platform.NewID()+filepath.Ext(fh.Filename))
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	// The declared size is not trusted; cap the copy as well.
	if _, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1)); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if info, err := dst.Stat(); err == nil && info.Size() > s.maxBytes {
		os.Remove(path)
		return "", fmt.Errorf("upload too large: limit %d bytes", s.maxBytes)
	}

	s.logger.Debug().Str("path", path).Int64("size", fh.Size).Msg("stored upload")
	return path, nil
}

// Remove deletes a stored upload. Removing an already-absent file or an
// empty path is not an error, so cleanup can run on every terminal path.
func (s *Store) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}
