package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"relaychat/internal/api"
	"relaychat/internal/interfaces/mocks"
	"relaychat/internal/model"
)

type routerMocks struct {
	chat   *mocks.MockChatService
	models *mocks.MockModelService
	docs   *mocks.MockDocumentService
}

func setupRouter(t *testing.T, limiter *api.RateLimiter, staticDir string) (http.Handler, routerMocks) {
	m := routerMocks{
		chat:   mocks.NewMockChatService(t),
		models: mocks.NewMockModelService(t),
		docs:   mocks.NewMockDocumentService(t),
	}
	router := api.NewRouter(api.Handlers{
		Chat:        api.NewChatHandler(m.chat),
		Models:      api.NewModelHandler(m.models),
		Documents:   api.NewDocumentHandler(m.docs),
		RateLimiter: limiter,
		StaticDir:   staticDir,
	})
	return router, m
}

func TestRouter_Healthz(t *testing.T) {
	router, _ := setupRouter(t, nil, "")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRouter_Models(t *testing.T) {
	router, m := setupRouter(t, nil, "")
	m.models.On("List", mock.Anything).Return(json.RawMessage(`{"models":[]}`), nil).Once()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/models", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"models":[]}`, rr.Body.String())
}

func TestRouter_ChatIsRateLimited(t *testing.T) {
	router, m := setupRouter(t, api.NewRateLimiter(0.001, 1), "")
	m.chat.On("HandleChat", mock.Anything, mock.Anything, mock.Anything).
		Run(emit(model.StreamResponse{Content: "hi"})).Once()

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(helloBody))
		req.RemoteAddr = "203.0.113.7:5555"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	first := send()
	second := send()

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "hi", first.Body.String())
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestRouter_RateLimitIsPerClient(t *testing.T) {
	limiter := api.NewRateLimiter(0.001, 1)
	router, m := setupRouter(t, limiter, "")
	m.chat.On("HandleChat", mock.Anything, mock.Anything, mock.Anything).
		Run(emit(model.StreamResponse{Content: "hi"})).Twice()

	for _, addr := range []string{"198.51.100.1:1000", "198.51.100.2:1000"} {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(helloBody))
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, addr)
	}
}

func TestRouter_StaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>chat</h1>"), 0o600))
	router, _ := setupRouter(t, nil, dir)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<h1>chat</h1>")
}
