package service

import (
	"errors"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/dtp-gov/portal-api/internal/dto"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
	"github.com/dtp-gov/portal-api/pkg/storage"
)

type uploadStore interface {
	SaveStream(folder, filename string, r io.Reader) (*storage.FileInfo, error)
	List(folder string) ([]storage.FileInfo, error)
	Delete(folder, filename string) error
}

// UploadService stores uploaded media on the local filesystem and serves
// back public URLs. Files are addressed by (folder, filename); both
// segments are validated before any filesystem access.
type UploadService struct {
	store         uploadStore
	publicBaseURL string
	maxSizeBytes  int64
	logger        *zap.Logger
}

// NewUploadService constructs an UploadService.
func NewUploadService(store uploadStore, publicBaseURL string, maxSizeBytes int64, logger *zap.Logger) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{
		store:         store,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		maxSizeBytes:  maxSizeBytes,
		logger:        logger,
	}
}

// Save streams an upload into the folder. declaredSize is the client's
// Content-Length; anything over the ceiling is rejected before reading.
func (s *UploadService) Save(folder, filename string, declaredSize int64, r io.Reader) (*dto.UploadResponse, error) {
	if declaredSize > s.maxSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, "file exceeds the maximum upload size")
	}
	if err := storage.ValidateSegment(folder); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid folder name")
	}
	if err := storage.ValidateSegment(filename); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid file name")
	}

	// Guard against clients understating Content-Length.
	limited := io.LimitReader(r, s.maxSizeBytes+1)
	info, err := s.store.SaveStream(folder, filename, limited)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store upload")
	}
	if info.SizeBytes > s.maxSizeBytes {
		if err := s.store.Delete(folder, filename); err != nil {
			s.logger.Warn("failed to remove oversized upload", zap.Error(err))
		}
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, "file exceeds the maximum upload size")
	}

	return &dto.UploadResponse{
		URL:      s.publicURL(folder, filename),
		Folder:   folder,
		Filename: filename,
		Size:     info.SizeBytes,
	}, nil
}

// List returns the files in a folder, newest first.
func (s *UploadService) List(folder string) ([]dto.UploadListItem, error) {
	if err := storage.ValidateSegment(folder); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid folder name")
	}
	files, err := s.store.List(folder)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list uploads")
	}
	items := make([]dto.UploadListItem, 0, len(files))
	for _, f := range files {
		items = append(items, dto.UploadListItem{
			Filename:   f.Filename,
			URL:        s.publicURL(f.Folder, f.Filename),
			Size:       f.SizeBytes,
			UploadedAt: f.UploadedAt,
		})
	}
	return items, nil
}

// Delete removes a stored file. A missing file reports not found rather
// than succeeding silently.
func (s *UploadService) Delete(folder, filename string) error {
	if err := storage.ValidateSegment(folder); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "invalid folder name")
	}
	if err := storage.ValidateSegment(filename); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "invalid file name")
	}
	if err := s.store.Delete(folder, filename); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete upload")
	}
	return nil
}

func (s *UploadService) publicURL(folder, filename string) string {
	return s.publicBaseURL + "/" + folder + "/" + filename
}
