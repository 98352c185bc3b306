package handler

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdesk/internal/app/ds"
	"staffdesk/internal/app/status"
	"staffdesk/internal/app/storage"
)

type memoryFiles struct {
	objects map[string][]byte
}

func (f *memoryFiles) UploadResume(_ context.Context, data []byte, name string) (string, error) {
	if name == "photo.png" {
		return "", fmt.Errorf("%w: %q", storage.ErrUnsupportedFile, ".png")
	}
	key := fmt.Sprintf("resume_%d.pdf", len(f.objects)+1)
	f.objects[key] = data
	return key, nil
}

func (f *memoryFiles) ResumeURL(_ context.Context, key string) (string, error) {
	return "https://files.test/resumes/" + key, nil
}

func upload(t *testing.T, h *Handler, filename string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("resume", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/job-applications/resume", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	newRouter(h).ServeHTTP(w, req)
	return w
}

func TestUploadResume(t *testing.T) {
	files := &memoryFiles{objects: map[string][]byte{}}
	h := NewHandler(newStore(), nil, nil, files)

	w := upload(t, h, "cv.pdf")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"resume_key":"resume_1.pdf"`)
	assert.Equal(t, []byte("%PDF-1.4"), files.objects["resume_1.pdf"])

	w = upload(t, h, "photo.png")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadResumeWithoutStorage(t *testing.T) {
	w := upload(t, NewHandler(newStore(), nil, nil, nil), "cv.pdf")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetResumeURL(t *testing.T) {
	key := "resume_1.pdf"
	store := newStore()
	store.entities[1] = &ds.JobApplication{ID: 1, Status: status.ApplicationPending, ResumeKey: &key}
	store.entities[2] = &ds.JobApplication{ID: 2, Status: status.ApplicationPending}
	r := newRouter(NewHandler(store, nil, nil, &memoryFiles{objects: map[string][]byte{}}))

	w := do(t, r, http.MethodGet, "/api/job-applications/1/resume", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://files.test/resumes/resume_1.pdf")

	w = do(t, r, http.MethodGet, "/api/job-applications/2/resume", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
