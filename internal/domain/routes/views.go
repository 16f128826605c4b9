package routes

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"

	"github.com/GriffinCanCode/microshell/internal/shared/types"
)

const (
	// DefaultPlaceholder is served for routes without a registered view
	DefaultPlaceholder types.ViewHandle = "views/placeholder.vue"
	// SubAppHostView hosts every sub-application catch-all route
	SubAppHostView types.ViewHandle = "components/SubApp.vue"
	// DefaultViewPattern matches view files below the views root
	DefaultViewPattern = "**/*.vue"
)

// ErrViewNotFound means no view is registered for a path
var ErrViewNotFound = errors.New("view not found")

// ViewResolver maps a route path to a view
type ViewResolver interface {
	Resolve(path string) (types.ViewHandle, error)
}

// StaticViews is a fixed path → view map
type StaticViews map[string]types.ViewHandle

// Resolve implements ViewResolver
func (v StaticViews) Resolve(p string) (types.ViewHandle, error) {
	if h, ok := v[p]; ok {
		return h, nil
	}
	return "", fmt.Errorf("%w: %s", ErrViewNotFound, p)
}

// DirViews indexes view files under a directory, keyed by their path
// relative to the root without extension: views/user/user-list.vue
// serves /user/user-list.
type DirViews struct {
	root  string
	index map[string]types.ViewHandle
}

// NewDirViews walks root and indexes every file matching pattern
func NewDirViews(root, pattern string) (*DirViews, error) {
	if pattern == "" {
		pattern = DefaultViewPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid view pattern %q", pattern)
	}

	var (
		mu    sync.Mutex
		index = make(map[string]types.ViewHandle)
		base  = filepath.Base(root)
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		ok, err := doublestar.Match(pattern, rel)
		if err != nil || !ok {
			return err
		}

		key := "/" + strings.TrimSuffix(rel, path.Ext(rel))
		mu.Lock()
		index[key] = types.ViewHandle(path.Join(base, rel))
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to index views in %s: %w", root, err)
	}

	return &DirViews{root: root, index: index}, nil
}

// Resolve implements ViewResolver
func (v *DirViews) Resolve(p string) (types.ViewHandle, error) {
	if h, ok := v.index[p]; ok {
		return h, nil
	}
	return "", fmt.Errorf("%w: %s", ErrViewNotFound, p)
}

// Len returns the number of indexed views
func (v *DirViews) Len() int {
	return len(v.index)
}
