package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/microshell/internal/shared/codec"
	"github.com/GriffinCanCode/microshell/internal/shared/types"
)

// DefaultPattern matches every descriptor file the codec can decode
const DefaultPattern = "**/*.{yaml,yml,toml,json}"

// AppsFile is the document layout of an application descriptor file
type AppsFile struct {
	Apps []types.AppSpec `json:"apps" yaml:"apps" toml:"apps"`
}

// SeedResult summarises one seeding run
type SeedResult struct {
	Files  int `json:"files"`
	Loaded int `json:"loaded"`
	Failed int `json:"failed"`
}

// Seeder loads application specs from descriptor files
type Seeder struct {
	manager *Manager
	fsys    fs.FS
	root    string
	pattern string
	logger  *zap.Logger
}

// NewSeeder creates a seeder over the apps directory
func NewSeeder(manager *Manager, appsDir string, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		manager: manager,
		fsys:    os.DirFS(appsDir),
		root:    appsDir,
		pattern: DefaultPattern,
		logger:  logger,
	}
}

// WithFS swaps the filesystem, mainly for tests
func (s *Seeder) WithFS(fsys fs.FS) *Seeder {
	s.fsys = fsys
	return s
}

// Seed registers every spec found. Files are processed in lexical order and
// specs in file order, which fixes registration order.
func (s *Seeder) Seed() (SeedResult, error) {
	var result SeedResult

	if s.root != "" {
		if _, err := os.Stat(s.root); errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Apps directory not found", zap.String("dir", s.root))
			return result, nil
		}
	}

	files, err := doublestar.Glob(s.fsys, s.pattern)
	if err != nil {
		return result, fmt.Errorf("failed to glob %s: %w", s.pattern, err)
	}
	sort.Strings(files)

	for _, name := range files {
		result.Files++

		data, err := fs.ReadFile(s.fsys, name)
		if err != nil {
			s.logger.Warn("Failed to read apps file", zap.String("file", name), zap.Error(err))
			result.Failed++
			continue
		}

		var doc AppsFile
		if err := codec.DecodeFile(name, data, &doc); err != nil {
			s.logger.Warn("Failed to decode apps file", zap.String("file", name), zap.Error(err))
			result.Failed++
			continue
		}

		for _, spec := range doc.Apps {
			app, err := s.manager.Register(spec)
			if err != nil {
				s.logger.Warn("Rejected application spec", zap.String("file", name), zap.Error(err))
				result.Failed++
				continue
			}
			s.logger.Debug("Registered application",
				zap.String("id", app.ID),
				zap.String("rule", app.ActiveRule),
				zap.String("entry", app.Entry),
			)
			result.Loaded++
		}
	}

	s.logger.Info("Seeding complete",
		zap.Int("files", result.Files),
		zap.Int("loaded", result.Loaded),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}
