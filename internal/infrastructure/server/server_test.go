package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/microshell/internal/infrastructure/config"
)

const appsYAML = `apps:
  - name: Home
  - name: sub-app
    entries:
      development: http://localhost:8081/
      production: https://sub.example.com/
    container: "#sub-app"
    activeRule: /sub-app
`

const menuYAML = `menu:
  - id: dashboard
    title: Dashboard
    path: /dashboard
    meta:
      title: Dashboard
  - id: user
    title: User Management
    path: /user
    children:
      - id: userList
        title: User List
        path: /user/user-list
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "apps", "apps.yaml"), appsYAML)
	menuFile := filepath.Join(dir, "menu.yaml")
	writeFile(t, menuFile, menuYAML)
	writeFile(t, filepath.Join(dir, "views", "user", "user-list.vue"), "<template/>")

	cfg := config.Default()
	cfg.Logging.Level = "error"
	cfg.Logging.Development = true
	cfg.RateLimit.Enabled = false
	cfg.Shell.Watch = false
	cfg.Shell.AppsDir = filepath.Join(dir, "apps")
	cfg.Shell.MenuFile = menuFile
	cfg.Shell.ViewsDir = filepath.Join(dir, "views")

	srv, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv, menuFile
}

func request(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	out := map[string]interface{}{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestServerWiring(t *testing.T) {
	srv, _ := newTestServer(t)

	w, body := request(t, srv, "GET", "/apps", "")
	require.Equal(t, http.StatusOK, w.Code)
	apps := body["apps"].([]interface{})
	require.Len(t, apps, 2)
	sub := apps[1].(map[string]interface{})
	assert.Equal(t, "http://localhost:8081/", sub["entry"], "development entry selected")

	w, body = request(t, srv, "GET", "/routes", "")
	require.Equal(t, http.StatusOK, w.Code)
	routes := body["routes"].([]interface{})
	views := map[string]interface{}{}
	for _, r := range routes {
		rec := r.(map[string]interface{})
		views[rec["path"].(string)] = rec["view"]
	}
	assert.Equal(t, "views/user/user-list.vue", views["/user/user-list"])
	assert.Equal(t, "views/placeholder.vue", views["/dashboard"])
	assert.Contains(t, views, "/sub-app/:path(.*)*")

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestServerSessionFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	w, body := request(t, srv, "POST", "/sessions", `{"path":"/"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	snap := body["snapshot"].(map[string]interface{})
	assert.Equal(t, "/dashboard", snap["path"])
	assert.Equal(t, "Dashboard", snap["title"])
	sid := body["session"].(map[string]interface{})["id"].(string)

	w, body = request(t, srv, "POST", "/sessions/"+sid+"/navigate", `{"to":"/sub-app/orders"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sub-app", body["transition"].(map[string]interface{})["app"])

	w, _ = request(t, srv, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "microshell_navigations_total")
	assert.Contains(t, w.Body.String(), "microshell_route_records")

	w, body = request(t, srv, "GET", "/metrics/json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["shell"].(map[string]interface{})["navigations"])
}

func TestServerReload(t *testing.T) {
	srv, menuFile := newTestServer(t)

	writeFile(t, menuFile, menuYAML+`  - id: reports
    title: Reports
    path: /reports
`)
	w, body := request(t, srv, "POST", "/menu/reload", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["menu"], 3)

	w, body = request(t, srv, "GET", "/routes/resolve?path=/reports", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["fallback"])

	writeFile(t, menuFile, `menu:
  - id: dup
    path: /a
  - id: dup
    path: /b
`)
	w, _ = request(t, srv, "POST", "/menu/reload", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, body = request(t, srv, "GET", "/menu", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["menu"], 3, "rejected descriptor keeps the previous one")
}

func TestServerWithoutDescriptor(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "error"
	cfg.Logging.Development = true
	cfg.RateLimit.Enabled = false
	cfg.Shell.Watch = false
	cfg.Shell.AppsDir = filepath.Join(t.TempDir(), "missing")
	cfg.Shell.MenuFile = filepath.Join(t.TempDir(), "missing.yaml")

	srv, err := NewServer(cfg)
	require.NoError(t, err)
	defer srv.Close()

	w, body := request(t, srv, "GET", "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "degraded", body["status"])

	w, body = request(t, srv, "GET", "/routes/resolve?path=/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/dashboard", body["path"])
}

func TestServerRunShutsDown(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.config.Server.Host = "127.0.0.1"
	srv.config.Server.Port = "0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
	}
}
