package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo describes one stored file, metadata derived from the filesystem.
type FileInfo struct {
	Folder     string
	Filename   string
	SizeBytes  int64
	UploadedAt time.Time
}

// ErrUnsafePath is returned when a folder or filename would escape the base dir.
var ErrUnsafePath = fmt.Errorf("unsafe path segment")

// LocalStorage persists uploaded files on disk under a base directory,
// addressed by (folder, filename).
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// ValidateSegment rejects path segments that could traverse outside the base
// directory. This is a hard precondition checked before any filesystem access.
func ValidateSegment(segment string) error {
	if segment == "" {
		return ErrUnsafePath
	}
	if strings.Contains(segment, "..") {
		return ErrUnsafePath
	}
	if strings.ContainsAny(segment, `/\`) {
		return ErrUnsafePath
	}
	return nil
}

// SaveStream copies from reader into <base>/<folder>/<filename>.
func (s *LocalStorage) SaveStream(folder, filename string, r io.Reader) (*FileInfo, error) {
	path, err := s.resolve(folder, filename)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("prepare upload directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	written, err := io.Copy(file, r)
	if err != nil {
		return nil, fmt.Errorf("write upload stream: %w", err)
	}
	return &FileInfo{
		Folder:     folder,
		Filename:   filename,
		SizeBytes:  written,
		UploadedAt: time.Now().UTC(),
	}, nil
}

// List returns files under a folder, newest first.
func (s *LocalStorage) List(folder string) ([]FileInfo, error) {
	if err := ValidateSegment(folder); err != nil {
		return nil, err
	}
	dir := filepath.Join(s.baseDir, folder)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list upload folder: %w", err)
	}
	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat upload file: %w", err)
		}
		files = append(files, FileInfo{
			Folder:     folder,
			Filename:   entry.Name(),
			SizeBytes:  info.Size(),
			UploadedAt: info.ModTime().UTC(),
		})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].UploadedAt.After(files[j].UploadedAt)
	})
	return files, nil
}

// Delete removes a stored file. A missing file reports os.ErrNotExist so
// callers can surface it instead of masking mistakes.
func (s *LocalStorage) Delete(folder, filename string) error {
	path, err := s.resolve(folder, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return os.ErrNotExist
		}
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

// Stat returns file metadata or os.ErrNotExist.
func (s *LocalStorage) Stat(folder, filename string) (*FileInfo, error) {
	path, err := s.resolve(folder, filename)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("stat upload file: %w", err)
	}
	return &FileInfo{
		Folder:     folder,
		Filename:   filename,
		SizeBytes:  info.Size(),
		UploadedAt: info.ModTime().UTC(),
	}, nil
}

// BaseDir exposes the root directory (used to mount the static file route).
func (s *LocalStorage) BaseDir() string {
	return s.baseDir
}

func (s *LocalStorage) resolve(folder, filename string) (string, error) {
	if err := ValidateSegment(folder); err != nil {
		return "", err
	}
	if err := ValidateSegment(filename); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, folder, filename), nil
}
