package service

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
	"github.com/dtp-gov/portal-api/pkg/storage"
)

type mockUploadStore struct {
	files   map[string][]byte
	deleted []string
}

func newMockUploadStore() *mockUploadStore {
	return &mockUploadStore{files: make(map[string][]byte)}
}

func (m *mockUploadStore) SaveStream(folder, filename string, r io.Reader) (*storage.FileInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.files[folder+"/"+filename] = data
	return &storage.FileInfo{
		Folder:     folder,
		Filename:   filename,
		SizeBytes:  int64(len(data)),
		UploadedAt: time.Now().UTC(),
	}, nil
}

func (m *mockUploadStore) List(folder string) ([]storage.FileInfo, error) {
	var files []storage.FileInfo
	for key, data := range m.files {
		if strings.HasPrefix(key, folder+"/") {
			files = append(files, storage.FileInfo{
				Folder:    folder,
				Filename:  strings.TrimPrefix(key, folder+"/"),
				SizeBytes: int64(len(data)),
			})
		}
	}
	return files, nil
}

func (m *mockUploadStore) Delete(folder, filename string) error {
	key := folder + "/" + filename
	if _, ok := m.files[key]; !ok {
		return os.ErrNotExist
	}
	delete(m.files, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func TestUploadSave(t *testing.T) {
	store := newMockUploadStore()
	svc := NewUploadService(store, "http://localhost:8080/uploads/", 1024, nil)

	resp, err := svc.Save("images", "logo.png", 5, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/images/logo.png", resp.URL)
	assert.EqualValues(t, 5, resp.Size)
	assert.Equal(t, []byte("hello"), store.files["images/logo.png"])
}

func TestUploadSaveRejectsDeclaredOversize(t *testing.T) {
	store := newMockUploadStore()
	svc := NewUploadService(store, "http://localhost:8080/uploads", 10, nil)

	_, err := svc.Save("images", "big.bin", 11, strings.NewReader("irrelevant"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPayloadTooLarge.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.files)
}

func TestUploadSaveCatchesUnderstatedSize(t *testing.T) {
	store := newMockUploadStore()
	svc := NewUploadService(store, "http://localhost:8080/uploads", 10, nil)

	// Client claims 5 bytes but streams more than the ceiling.
	_, err := svc.Save("images", "liar.bin", 5, strings.NewReader(strings.Repeat("x", 64)))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPayloadTooLarge.Code, appErrors.FromError(err).Code)
	// The partial write is cleaned up.
	assert.Empty(t, store.files)
	assert.Contains(t, store.deleted, "images/liar.bin")
}

func TestUploadSaveRejectsTraversal(t *testing.T) {
	store := newMockUploadStore()
	svc := NewUploadService(store, "http://localhost:8080/uploads", 1024, nil)

	for _, segment := range []string{"..", "a/b", `a\b`, ""} {
		_, err := svc.Save(segment, "file.txt", 1, strings.NewReader("x"))
		require.Error(t, err, "folder %q", segment)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

		_, err = svc.Save("images", segment, 1, strings.NewReader("x"))
		require.Error(t, err, "filename %q", segment)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
	assert.Empty(t, store.files)
}

func TestUploadDeleteMissingFile(t *testing.T) {
	svc := NewUploadService(newMockUploadStore(), "http://localhost:8080/uploads", 1024, nil)

	err := svc.Delete("images", "ghost.png")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUploadListBuildsPublicURLs(t *testing.T) {
	store := newMockUploadStore()
	store.files["docs/report.pdf"] = []byte("pdf")
	svc := NewUploadService(store, "http://localhost:8080/uploads", 1024, nil)

	items, err := svc.List("docs")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "http://localhost:8080/uploads/docs/report.pdf", items[0].URL)
}
