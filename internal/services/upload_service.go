package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"blogpress/pkg/logging"
	"blogpress/pkg/utils"
)

// ObjectStore is the write side of the image bucket.
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, size int64, body io.Reader) error
	PublicURL(key string) string
}

type CoverUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadServiceInterface interface {
	UploadCoverImage(ctx context.Context, session *utils.Session, upload CoverUpload) (string, error)
}

type UploadService struct {
	store    ObjectStore
	maxBytes int64
	logger   logging.Logger
	now      func() time.Time
}

// NewUploadService accepts a nil store; uploads then fail with
// ErrStorageUnavailable.
func NewUploadService(store ObjectStore, maxBytes int64, logger logging.Logger) UploadServiceInterface {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &UploadService{store: store, maxBytes: maxBytes, logger: logger, now: time.Now}
}

// UploadCoverImage stores the image under <userID>/<unixMillis>-<filename>
// and returns its public URL.
func (s *UploadService) UploadCoverImage(ctx context.Context, session *utils.Session, upload CoverUpload) (string, error) {
	if session == nil {
		return "", utils.ErrUnauthorized
	}
	if s.store == nil {
		return "", utils.ErrStorageUnavailable
	}
	if !strings.HasPrefix(strings.ToLower(upload.ContentType), "image/") {
		return "", utils.NewValidationError("file", "please upload an image file")
	}
	if upload.Size <= 0 {
		return "", utils.NewValidationError("file", "file is empty")
	}
	if upload.Size > s.maxBytes {
		return "", utils.NewValidationError("file", fmt.Sprintf("image must be at most %d MB", s.maxBytes>>20))
	}

	key := fmt.Sprintf("%s/%d-%s", session.UserID, s.now().UnixMilli(), safeFilename(upload.Filename))
	if err := s.store.PutObject(ctx, key, upload.ContentType, upload.Size, upload.Body); err != nil {
		return "", err
	}

	s.logger.WithFields(logging.Fields{"key": key, "size": upload.Size}).Info("cover image uploaded")
	return s.store.PublicURL(key), nil
}

func safeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || name == "_" {
		return "image"
	}
	return name
}
