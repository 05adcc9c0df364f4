package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ormawa.id/internal/config"
	"ormawa.id/internal/infra"
	"ormawa.id/internal/service"
	"ormawa.id/internal/storage"
)

const testJWTSecret = "api-test-secret"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app, _ := newTestAppWithUploads(t)
	return app
}

func newTestAppWithUploads(t *testing.T) (*fiber.App, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, infra.Bootstrap(db))

	cfg := &config.Config{}
	cfg.Server.AppName = "ormawa-portal-test"
	cfg.JWT.Secret = testJWTSecret
	cfg.Upload.Dir = t.TempDir()
	cfg.Upload.MaxBytes = 5 * 1024 * 1024

	uploads, err := storage.NewUploadStore(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	require.NoError(t, err)

	svc := service.NewUserService(db, uploads, service.NewRosterCache(nil), []byte(cfg.JWT.Secret), 24*time.Hour)

	app := NewServer(cfg)
	NewRouter(app, cfg, svc).RegisterRoutes()
	return app, cfg.Upload.Dir
}

func registerBody(t *testing.T, fields map[string]string, fileName, fileType string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="ktmFile"; filename="%s"`, fileName))
		h.Set("Content-Type", fileType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func doRegister(t *testing.T, app *fiber.App, nim string) *http.Response {
	t.Helper()

	body, contentType := registerBody(t, map[string]string{
		"nama":     "Budi",
		"nim":      nim,
		"angkatan": "2023",
		"prodi":    "Sistem Informasi",
		"password": "rahasia",
	}, "ktm.jpg", "image/jpeg", []byte("jpeg-bytes"))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func doLogin(t *testing.T, app *fiber.App, nim, password string) *http.Response {
	t.Helper()

	body, err := json.Marshal(map[string]string{"nim": nim, "password": password})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func loginToken(t *testing.T, app *fiber.App, nim, password string) string {
	t.Helper()

	resp := doLogin(t, app, nim, password)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func authedRequest(method, target, token string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, readBody(t, resp))
}

func TestRegisterLoginListFlow(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	resp := doRegister(t, app, "2023999")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Registrasi berhasil"}`, readBody(t, resp))

	// Login returns the token and the public view, role "user".
	loginResp := doLogin(t, app, "2023999", "rahasia")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	loginBody := readBody(t, loginResp)
	assert.NotContains(t, loginBody, "password")

	var out LoginResponse
	require.NoError(t, json.Unmarshal([]byte(loginBody), &out))
	assert.Equal(t, "user", out.User.Role)
	assert.Equal(t, "Budi", out.User.Nama)

	// The roster contains Budi, with no password material.
	listResp, err := app.Test(authedRequest(http.MethodGet, "/api/users", out.Token), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	listBody := readBody(t, listResp)
	assert.Contains(t, listBody, "Budi")
	assert.NotContains(t, listBody, "password")
	assert.NotContains(t, listBody, "ktm")

	var users []map[string]any
	require.NoError(t, json.Unmarshal([]byte(listBody), &users))
	require.Len(t, users, 2) // seeded admin + Budi
	for _, u := range users {
		_, hasHash := u["password_hash"]
		assert.False(t, hasHash)
	}
}

func TestRegister_DuplicateNIM(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	resp := doRegister(t, app, "2023100")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRegister(t, app, "2023100")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.JSONEq(t, `{"message":"NIM sudah terdaftar"}`, readBody(t, resp))
}

func TestRegister_MissingFieldsAndFile(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	// Missing prodi.
	body, contentType := registerBody(t, map[string]string{
		"nama":     "Budi",
		"nim":      "2023101",
		"angkatan": "2023",
		"password": "rahasia",
	}, "ktm.jpg", "image/jpeg", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Semua field wajib diisi"}`, readBody(t, resp))

	// Missing file.
	body, contentType = registerBody(t, map[string]string{
		"nama":     "Budi",
		"nim":      "2023101",
		"angkatan": "2023",
		"prodi":    "Sistem Informasi",
		"password": "rahasia",
	}, "", "", nil)
	req = httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	req.Header.Set("Content-Type", contentType)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"message":"KTM wajib diupload"}`, readBody(t, resp))

	// Non-image file.
	body, contentType = registerBody(t, map[string]string{
		"nama":     "Budi",
		"nim":      "2023101",
		"angkatan": "2023",
		"prodi":    "Sistem Informasi",
		"password": "rahasia",
	}, "ktm.pdf", "application/pdf", []byte("%PDF"))
	req = httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	req.Header.Set("Content-Type", contentType)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_IdenticalFailureBodies(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	resp := doRegister(t, app, "2023200")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	unknown := doLogin(t, app, "9999999", "whatever")
	wrong := doLogin(t, app, "2023200", "salah")

	assert.Equal(t, http.StatusUnauthorized, unknown.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, wrong.StatusCode)
	assert.Equal(t, readBody(t, unknown), readBody(t, wrong))
}

func TestRoster_RequiresToken(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	targets := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/users"},
		{http.MethodPut, "/api/users/1"},
		{http.MethodDelete, "/api/users/1"},
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/auth/logout"},
	}

	for _, tt := range targets {
		// No header at all.
		resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", tt.method, tt.path)
		noHeader := readBody(t, resp)

		// Garbage token: same reply.
		resp, err = app.Test(authedRequest(tt.method, tt.path, "garbage"), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, noHeader, readBody(t, resp))
	}
}

func TestRoster_UpdateAndDelete(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	require.Equal(t, http.StatusCreated, doRegister(t, app, "2023300").StatusCode)

	// Any authenticated user may mutate the roster, not only admins.
	token := loginToken(t, app, "2023300", "rahasia")

	listResp, err := app.Test(authedRequest(http.MethodGet, "/api/users", token), -1)
	require.NoError(t, err)
	var users []map[string]any
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&users))

	var budiID string
	for _, u := range users {
		if u["nim"] == "2023300" {
			budiID = u["id"].(string)
		}
	}
	require.NotEmpty(t, budiID)

	// Update.
	payload := `{"nama":"Budi Santoso","nim":"2023301","angkatan":"2024","prodi":"Manajemen"}`
	req := httptest.NewRequest(http.MethodPut, "/api/users/"+budiID, bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Updated"}`, readBody(t, resp))

	listResp, err = app.Test(authedRequest(http.MethodGet, "/api/users", token), -1)
	require.NoError(t, err)
	assert.Contains(t, readBody(t, listResp), "Budi Santoso")

	// Delete is idempotent: a second delete of the same id still succeeds.
	for i := 0; i < 2; i++ {
		resp, err = app.Test(authedRequest(http.MethodDelete, "/api/users/"+budiID, token), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"message":"Deleted"}`, readBody(t, resp))
	}

	resp, err = app.Test(authedRequest(http.MethodDelete, "/api/users/424242", token), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMeAndLogout(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	token := loginToken(t, app, "ADM001", "password")

	resp, err := app.Test(authedRequest(http.MethodGet, "/api/auth/me", token), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, "ADM001", me["nim"])
	assert.Equal(t, "admin", me["role"])

	resp, err = app.Test(authedRequest(http.MethodPost, "/api/auth/logout", token), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Stateless tokens: the token still works after logout.
	resp, err = app.Test(authedRequest(http.MethodGet, "/api/users", token), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUploadedFileIsServed(t *testing.T) {
	t.Parallel()
	app, uploadDir := newTestAppWithUploads(t)

	require.Equal(t, http.StatusCreated, doRegister(t, app, "2023400").StatusCode)

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/uploads/"+entries[0].Name(), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "jpeg-bytes", readBody(t, resp))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/uploads/does-not-exist.jpg", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
