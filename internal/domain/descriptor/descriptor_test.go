package descriptor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlMenu = `menu:
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
        parentId: user
        level: 2
        path: /user/user-list
`

const tomlMenu = `[[menu]]
id = "dashboard"
title = "Dashboard"
path = "/dashboard"
`

const jsonMenu = `{"menu":[{"id":"dashboard","title":"Dashboard","path":"/dashboard"}]}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestFileSourceFormats(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		items   int
	}{
		{name: "menu.yaml", content: yamlMenu, items: 2},
		{name: "menu.toml", content: tomlMenu, items: 1},
		{name: "menu.json", content: jsonMenu, items: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewFileSource(writeFile(t, dir, tt.name, tt.content))
			items, err := src.Load(context.Background())
			require.NoError(t, err)
			require.Len(t, items, tt.items)
			assert.Equal(t, "dashboard", items[0].ID)
			assert.Equal(t, "/dashboard", items[0].Path)
		})
	}
}

func TestFileSourceErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileSource(filepath.Join(dir, "missing.yaml")).Load(context.Background())
	assert.Error(t, err)

	_, err = NewFileSource(writeFile(t, dir, "menu.ini", "x=1")).Load(context.Background())
	assert.Error(t, err)

	_, err = NewFileSource(writeFile(t, dir, "broken.json", "{")).Load(context.Background())
	assert.Error(t, err)
}

func TestYAMLNesting(t *testing.T) {
	src := NewFileSource(writeFile(t, t.TempDir(), "menu.yml", yamlMenu))
	items, err := src.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, items[1].Children, 1)
	child := items[1].Children[0]
	assert.Equal(t, "user", child.ParentID)
	assert.Equal(t, 2, child.Level)
}

func TestRemoteSource(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/flaky":
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(jsonMenu))
		case "/array":
			_, _ = w.Write([]byte(`[{"id":"a","path":"/a"},{"id":"b","path":"/b"}]`))
		case "/garbage":
			_, _ = w.Write([]byte(`<html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	items, err := NewRemoteSource(srv.URL+"/flaky", 2, time.Second).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int32(2), calls.Load())

	items, err = NewRemoteSource(srv.URL+"/array", 0, time.Second).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = NewRemoteSource(srv.URL+"/missing", 0, time.Second).Load(ctx)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)

	_, err = NewRemoteSource(srv.URL+"/garbage", 0, time.Second).Load(ctx)
	assert.Error(t, err)

	src := NewRemoteSource(srv.URL, 0, time.Second)
	assert.Equal(t, "remote:"+srv.URL, src.String())
}

func TestProviderKeepsPreviousOnFailure(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "menu.yaml", yamlMenu)
	p := NewProvider(NewFileSource(file), nil)

	require.NoError(t, p.Reload(context.Background()))
	require.Len(t, p.Current(), 2)
	_, reloads := p.Loaded()
	assert.Equal(t, uint64(1), reloads)

	// level contradicts nesting
	bad := `menu:
  - id: x
    path: /x
    level: 3
`
	writeFile(t, dir, "menu.yaml", bad)
	err := p.Reload(context.Background())
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
	assert.Len(t, p.Current(), 2)

	require.NoError(t, os.Remove(file))
	assert.Error(t, p.Reload(context.Background()))
	assert.Len(t, p.Current(), 2)

	_, reloads = p.Loaded()
	assert.Equal(t, uint64(1), reloads)
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "menu.yaml", flatYAML(1))
	p := NewProvider(NewFileSource(file), nil)
	require.NoError(t, p.Reload(context.Background()))

	results := make(chan error, 4)
	w, err := NewWatcher(file, p, 20*time.Millisecond, func(err error) { results <- err }, nil)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// unrelated files are ignored
	writeFile(t, dir, "other.yaml", "menu: []")
	writeFile(t, dir, "menu.yaml", flatYAML(3))

	// a truncating write may surface as an intermediate reload
	deadline := time.After(5 * time.Second)
	for len(p.Current()) != 3 {
		select {
		case <-results:
		case <-deadline:
			t.Fatal("watcher did not reload")
		}
	}
}

// flatYAML renders n flat yaml items
func flatYAML(n int) string {
	out := "menu:\n"
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		out += "  - id: " + id + "\n    path: /" + id + "\n"
	}
	return out
}
