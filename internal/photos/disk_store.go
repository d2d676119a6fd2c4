package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/M0narcHzZ/FitnessTracker/internal/telemetry/tracing"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrFileNotFound = errors.New("photo file not found")

// DiskStore keeps photo files on disk under a single root directory.
// The paths it hands out are relative to that root and stored on photo
// records as opaque references.
type DiskStore struct {
	rootPath string
}

func NewDiskStore(rootPath string) (*DiskStore, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("create photos root: %w", err)
	}
	return &DiskStore{rootPath: rootPath}, nil
}

// Save writes the photo bytes to disk and returns the relative file
// path to store on the record.
func (ds *DiskStore) Save(ctx context.Context, userID int, filename string, content io.Reader) (_ string, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("file.name", filename))

	// strip any client-supplied directory parts
	filename = path.Base(filepath.ToSlash(filename))
	if filename == "." || filename == "/" || filename == "" {
		return "", errors.New("invalid file name")
	}

	userDir := filepath.Join(ds.rootPath, fmt.Sprintf("user-%d", userID))
	if err = os.MkdirAll(userDir, 0o755); err != nil {
		return "", fmt.Errorf("create user photos dir: %w", err)
	}

	relPath := filepath.Join(fmt.Sprintf("user-%d", userID), fmt.Sprintf("%d_%s", time.Now().UnixNano(), filename))
	dst, err := os.Create(filepath.Join(ds.rootPath, relPath))
	if err != nil {
		return "", fmt.Errorf("create photo file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	written, err := io.Copy(dst, content)
	if err != nil {
		return "", fmt.Errorf("write photo file: %w", err)
	}

	log.Debugf("disk store: saved photo [%s], %d bytes", relPath, written)
	return filepath.ToSlash(relPath), nil
}

// Open returns a reader over a stored photo file.
func (ds *DiskStore) Open(ctx context.Context, relPath string) (_ io.ReadSeekCloser, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.open")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	fullPath, err := ds.resolve(relPath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("open photo file: %w", err)
	}

	return file, nil
}

// Remove deletes a stored photo file. A missing file is not an error,
// the record is already being removed anyway.
func (ds *DiskStore) Remove(ctx context.Context, relPath string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskStore.remove")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	fullPath, err := ds.resolve(relPath)
	if err != nil {
		return err
	}

	if err = os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove photo file: %w", err)
	}

	return nil
}

func (ds *DiskStore) resolve(relPath string) (string, error) {
	fullPath := filepath.Join(ds.rootPath, filepath.FromSlash(relPath))
	rootAbs, err := filepath.Abs(ds.rootPath)
	if err != nil {
		return "", err
	}
	fullAbs, err := filepath.Abs(fullPath)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(fullAbs, rootAbs+string(os.PathSeparator)) {
		return "", errors.New("invalid photo path")
	}
	return fullPath, nil
}
