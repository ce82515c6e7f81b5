package api_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"relaychat/internal/api"
	app_errors "relaychat/internal/errors"
	"relaychat/internal/interfaces/mocks"
	"relaychat/internal/model"
)

func multipartUpload(t *testing.T, field, filename, content string) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestDocumentHandler_HandleExtract(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockSvc := mocks.NewMockDocumentService(t)
		handler := api.NewDocumentHandler(mockSvc)
		mockSvc.On("MaxBytes").Return(int64(1024)).Once()
		mockSvc.On("Extract", mock.Anything, "notes.txt", mock.Anything).
			Return(&model.ExtractedDocument{Filename: "notes.txt", Content: "hello", Characters: 5}, nil).Once()

		rr := httptest.NewRecorder()
		handler.HandleExtract(rr, multipartUpload(t, "file", "notes.txt", "hello"))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"filename":"notes.txt","content":"hello","characters":5}`, rr.Body.String())
	})

	t.Run("Failure - Missing file field", func(t *testing.T) {
		mockSvc := mocks.NewMockDocumentService(t)
		handler := api.NewDocumentHandler(mockSvc)
		mockSvc.On("MaxBytes").Return(int64(1024)).Once()

		rr := httptest.NewRecorder()
		handler.HandleExtract(rr, multipartUpload(t, "attachment", "notes.txt", "hello"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - Unsupported type", func(t *testing.T) {
		mockSvc := mocks.NewMockDocumentService(t)
		handler := api.NewDocumentHandler(mockSvc)
		mockSvc.On("MaxBytes").Return(int64(1024)).Once()
		mockSvc.On("Extract", mock.Anything, "photo.png", mock.Anything).
			Return(nil, app_errors.ErrUnsupported).Once()

		rr := httptest.NewRecorder()
		handler.HandleExtract(rr, multipartUpload(t, "file", "photo.png", "\x89PNG"))

		assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
	})

	t.Run("Failure - Too large", func(t *testing.T) {
		mockSvc := mocks.NewMockDocumentService(t)
		handler := api.NewDocumentHandler(mockSvc)
		mockSvc.On("MaxBytes").Return(int64(4)).Once()
		mockSvc.On("Extract", mock.Anything, "big.txt", mock.Anything).
			Return(nil, app_errors.ErrTooLarge).Once()

		rr := httptest.NewRecorder()
		handler.HandleExtract(rr, multipartUpload(t, "file", "big.txt", strings.Repeat("x", 64)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	})
}
