package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/secureshare/internal/blobstore"
	"github.com/dmitrijs2005/secureshare/internal/common"
	"github.com/dmitrijs2005/secureshare/internal/events"
	"github.com/dmitrijs2005/secureshare/internal/logging"
	"github.com/dmitrijs2005/secureshare/internal/server/config"
	"github.com/dmitrijs2005/secureshare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/secureshare/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	logger := discardLogger()
	repos := repomanager.NewInMemoryRepositoryManager()
	blobs := blobstore.NewMemoryStore()
	sink := events.NewRegistrySink(repos.Notifications(nil), logger)

	vault := services.NewVaultService(nil, repos, blobs, sink, []byte(cfg.SecretKey), logger)
	notifications := services.NewNotificationService(nil, repos)

	srv, err := NewServer(cfg, logger, vault, notifications, nil, prometheus.NewRegistry())
	require.NoError(t, err)
	return srv
}

func multipartBody(t *testing.T, fieldName, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == common.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func uploadFile(t *testing.T, srv *Server, cookie *http.Cookie, name string, content []byte) (string, *http.Cookie) {
	t.Helper()

	body, contentType := multipartBody(t, "file", name, content)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	if cookie == nil {
		cookie = sessionCookie(t, resp)
	}

	var result struct {
		FileID string `json:"file_id"`
		Name   string `json:"name"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.NotEmpty(t, result.FileID)
	assert.Equal(t, name, result.Name)

	return result.FileID, cookie
}

func TestServer_UploadDownloadRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	content := []byte("attack at dawn")

	fileID, cookie := uploadFile(t, srv, nil, "plan.txt", content)

	req := httptest.NewRequest(http.MethodGet, "/api/download/"+fileID, nil)
	req.AddCookie(cookie)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="plan.txt"`)

	// one-time access: the second download must fail
	req = httptest.NewRequest(http.MethodGet, "/api/download/"+fileID, nil)
	req.AddCookie(cookie)
	resp, err = srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusGone, resp.StatusCode)
}

func TestServer_DownloadForeignFileForbidden(t *testing.T) {
	srv := newTestServer(t)

	fileID, _ := uploadFile(t, srv, nil, "secret.pdf", []byte("data"))

	// no cookie: the middleware mints a fresh session that does not own the file
	req := httptest.NewRequest(http.MethodGet, "/api/download/"+fileID, nil)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestServer_DownloadUnknownFile(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/download/no-such-id", nil)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_UploadRejectsDisallowedExtension(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := multipartBody(t, "file", "malware.exe", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var payload errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "FILE_TYPE_NOT_ALLOWED", payload.Error.Code)
}

func TestServer_UploadRequiresFile(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(""))
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_SessionCookieAttributes(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookie(t, resp)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	// the cookie must be honored on the next request: no replacement is set
	req = httptest.NewRequest(http.MethodGet, "/api/files", nil)
	req.AddCookie(cookie)
	resp, err = srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Empty(t, resp.Cookies())
}

func TestServer_SecurityHeaders(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))
	assert.NotEmpty(t, resp.Header.Get("Strict-Transport-Security"))
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestServer_FilesAndSearch(t *testing.T) {
	srv := newTestServer(t)

	_, cookie := uploadFile(t, srv, nil, "report-2024.pdf", []byte("a"))
	_, _ = uploadFile(t, srv, cookie, "holiday.png", []byte("b"))

	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	req.AddCookie(cookie)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var filesResult struct {
		Files []fileInfo `json:"files"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&filesResult))
	require.Len(t, filesResult.Files, 2)
	// newest first
	assert.Equal(t, "holiday.png", filesResult.Files[0].Name)

	body, _ := json.Marshal(map[string]string{"keyword": "REPORT"})
	req = httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	resp, err = srv.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var searchResult struct {
		Keyword string     `json:"keyword"`
		Files   []fileInfo `json:"files"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&searchResult))
	require.Len(t, searchResult.Files, 1)
	assert.Equal(t, "report-2024.pdf", searchResult.Files[0].Name)
}

func TestServer_Notifications(t *testing.T) {
	srv := newTestServer(t)

	_, cookie := uploadFile(t, srv, nil, "notes.txt", []byte("n"))

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	req.AddCookie(cookie)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Notifications []notificationInfo `json:"notifications"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.NotEmpty(t, result.Notifications)
	assert.Equal(t, events.KindUpload, result.Notifications[0].Kind)

	markReq := httptest.NewRequest(http.MethodPost,
		"/api/notifications/"+jsonNumber(result.Notifications[0].ID)+"/read", nil)
	markReq.AddCookie(cookie)
	resp, err = srv.App().Test(markReq, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestServer_Healthz(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(t)

	// generate one countable request first
	warm := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	_, err := srv.App().Test(warm, -1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http_requests_total")
}

func TestAllowedFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"document.pdf", true},
		{"photo.JPG", true},
		{"archive.zip", true},
		{"binary.exe", false},
		{"noextension", false},
		{"trailingdot.", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, allowedFile(tt.name), tt.name)
	}
}
