// Package archive stores raw uploaded statements in object storage. Archived
// objects are write-only: nothing in the application reads them back.
package archive

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/fincat/internal/logging"

	"github.com/google/uuid"
)

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "uploads"

// keyTimeLayout renders the upload time inside object keys.
const keyTimeLayout = "20060102150405"

// DefaultUploadTimeout bounds a single upload.
const DefaultUploadTimeout = 2 * time.Minute

// Archiver uploads one object and returns its location.
type Archiver interface {
	Archive(ctx context.Context, key string, r io.Reader) (string, error)
	Name() string
	Close() error
}

// Settings selects and configures a backend.
type Settings struct {
	Provider         string
	Bucket           string
	Container        string
	ConnectionString string
	AccountURL       string
}

// New builds the archiver for s.Provider. It returns nil and no error when
// archiving is disabled.
func New(ctx context.Context, s Settings, logger logging.Logger) (Archiver, error) {
	switch s.Provider {
	case "":
		return nil, nil
	case "gcs":
		return NewGCSArchiver(ctx, s.Bucket, logger)
	case "azure":
		if s.ConnectionString != "" {
			return NewAzureArchiverFromConnectionString(s.ConnectionString, s.Container, logger)
		}
		return NewAzureArchiverWithDefaultCredential(s.AccountURL, s.Container, logger)
	default:
		return nil, fmt.Errorf("unknown archive provider: %s", s.Provider)
	}
}

// ObjectKey builds "{prefix}/{userID}/{YYYYMMDDhhmmss}/{uuid}-{file}".
// Only the base name of filename is kept and path separators never leak
// into the key.
func ObjectKey(prefix, userID string, at time.Time, filename string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if userID == "" {
		userID = "anonymous"
	}
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		base = "upload"
	}
	return path.Join(
		strings.Trim(prefix, "/"),
		strings.ReplaceAll(userID, "/", "_"),
		at.Format(keyTimeLayout),
		uuid.NewString()+"-"+base,
	)
}

// Upload archives r under key with a DefaultUploadTimeout deadline and logs
// the outcome. A nil archiver is a no-op.
func Upload(ctx context.Context, a Archiver, key string, r io.Reader, logger logging.Logger) (string, error) {
	if a == nil {
		return "", nil
	}
	logger = logging.OrDefault(logger)

	ctx, cancel := context.WithTimeout(ctx, DefaultUploadTimeout)
	defer cancel()

	location, err := a.Archive(ctx, key, r)
	if err != nil {
		logger.WithError(err).Warn("Failed to archive upload",
			logging.Field{Key: logging.FieldProvider, Value: a.Name()},
			logging.Field{Key: logging.FieldObjectKey, Value: key})
		return "", err
	}
	logger.Info("Archived upload",
		logging.Field{Key: logging.FieldProvider, Value: a.Name()},
		logging.Field{Key: logging.FieldObjectKey, Value: key})
	return location, nil
}
