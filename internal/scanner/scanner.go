// Package scanner walks the component tree and builds component descriptors.
package scanner

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/starford/kitscan/internal/models"
	"github.com/starford/kitscan/internal/parser"
	"github.com/starford/kitscan/internal/projectroot"
	"github.com/starford/kitscan/internal/storage"
)

const (
	// Extension is the suffix of component definition files.
	Extension = ".md"
	// SkillFile marks a directory under skills/ as a skill.
	SkillFile = "SKILL.md"
	// ScriptsDir holds a skill's executable helpers.
	ScriptsDir = "scripts"
	// ReferencesDir holds a skill's reference material.
	ReferencesDir = "references"
	// DefaultModel is reported for agents that do not name a model.
	DefaultModel = "sonnet"
)

// Scanner reads component definitions below <root>/<base>.
type Scanner struct {
	store  storage.Provider
	base   string
	logger *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithBaseDir sets the component directory relative to the project root.
func WithBaseDir(dir string) Option {
	return func(s *Scanner) {
		s.base = dir
	}
}

// WithLogger sets the logger used for per-file warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = l
	}
}

// New creates a Scanner over store.
func New(store storage.Provider, opts ...Option) *Scanner {
	s := &Scanner{
		store:  store,
		base:   projectroot.DefaultMarker,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scanner) dir(c models.Category) string {
	return path.Join(s.base, string(c))
}

// readMetadata reads a file and extracts its header block. Read failures and
// files that are not valid UTF-8 are logged and reported as ok=false so the
// caller can skip the file.
func (s *Scanner) readMetadata(p string) (parser.Metadata, bool) {
	data, err := s.store.Read(p)
	if err != nil {
		s.logger.Warn("scan: read failed", slog.String("path", p), slog.String("error", err.Error()))
		return nil, false
	}
	if !utf8.Valid(data) {
		s.logger.Warn("scan: read failed", slog.String("path", p), slog.String("error", "invalid UTF-8"))
		return nil, false
	}
	return parser.ParseBytes(data), true
}

// Commands scans commands/ recursively. A file directly under commands/ is
// exposed as /<stem>; a file inside a folder as /<folder>:<stem>, where folder
// is the first path segment below commands/.
func (s *Scanner) Commands() ([]models.Command, error) {
	root := s.dir(models.CategoryCommands)
	files, err := s.store.Glob(root, "**/*"+Extension)
	if err != nil {
		return nil, fmt.Errorf("scanner: commands: %w", err)
	}

	out := make([]models.Command, 0, len(files))
	for _, f := range files {
		meta, ok := s.readMetadata(f)
		if !ok {
			continue
		}
		rel := strings.TrimPrefix(f, root+"/")
		if strings.Count(rel, "/") > 1 {
			s.logger.Warn("scan: command nested more than one folder deep; naming by top folder",
				slog.String("path", f))
		}
		out = append(out, models.Command{
			Name:         CommandName(rel),
			Path:         f,
			Description:  meta.Get("description", ""),
			ArgumentHint: meta.Get("argument-hint", ""),
			Testable:     true,
		})
	}

	slices.SortStableFunc(out, func(a, b models.Command) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Path, b.Path))
	})
	return out, nil
}

// CommandName derives the exposed command name from a path relative to
// commands/, e.g. "social.md" -> "/social", "youtube/social.md" -> "/youtube:social".
func CommandName(rel string) string {
	parts := strings.Split(rel, "/")
	stem := strings.TrimSuffix(parts[len(parts)-1], Extension)
	if len(parts) == 1 {
		return "/" + stem
	}
	return "/" + parts[0] + ":" + stem
}

// Agents scans the top level of agents/.
func (s *Scanner) Agents() ([]models.Agent, error) {
	files, err := s.store.Glob(s.dir(models.CategoryAgents), "*"+Extension)
	if err != nil {
		return nil, fmt.Errorf("scanner: agents: %w", err)
	}

	out := make([]models.Agent, 0, len(files))
	for _, f := range files {
		meta, ok := s.readMetadata(f)
		if !ok {
			continue
		}
		out = append(out, models.Agent{
			Name:        stem(f),
			Path:        f,
			Description: meta.Get("description", ""),
			Model:       meta.Get("model", DefaultModel),
			Testable:    true,
		})
	}

	slices.SortStableFunc(out, func(a, b models.Agent) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Path, b.Path))
	})
	return out, nil
}

// Skills scans each immediate subdirectory of skills/ that holds a SKILL.md.
// A skill is testable exactly when its scripts/ directory is non-empty.
func (s *Scanner) Skills() ([]models.Skill, error) {
	root := s.dir(models.CategorySkills)
	entries, err := s.store.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Skill{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanner: skills: %w", err)
	}

	out := make([]models.Skill, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && e.Type()&fs.ModeSymlink == 0 {
			continue
		}
		dir := path.Join(root, e.Name())
		skillFile := path.Join(dir, SkillFile)
		if !s.store.Exists(skillFile) {
			continue
		}
		meta, ok := s.readMetadata(skillFile)
		if !ok {
			continue
		}
		hasScripts := s.store.HasEntries(path.Join(dir, ScriptsDir))
		out = append(out, models.Skill{
			Name:          meta.Get("name", e.Name()),
			Path:          dir,
			Description:   meta.Get("description", ""),
			HasScripts:    hasScripts,
			HasReferences: s.store.HasEntries(path.Join(dir, ReferencesDir)),
			Testable:      hasScripts,
		})
	}

	slices.SortStableFunc(out, func(a, b models.Skill) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Path, b.Path))
	})
	return out, nil
}

// Workflows scans the top level of workflows/. Workflows are documentation
// and never testable.
func (s *Scanner) Workflows() ([]models.Workflow, error) {
	files, err := s.store.Glob(s.dir(models.CategoryWorkflows), "*"+Extension)
	if err != nil {
		return nil, fmt.Errorf("scanner: workflows: %w", err)
	}

	out := make([]models.Workflow, 0, len(files))
	for _, f := range files {
		meta, ok := s.readMetadata(f)
		if !ok {
			continue
		}
		out = append(out, models.Workflow{
			Name:        stem(f),
			Path:        f,
			Description: meta.Get("description", ""),
			Testable:    false,
		})
	}

	slices.SortStableFunc(out, func(a, b models.Workflow) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Path, b.Path))
	})
	return out, nil
}

func stem(p string) string {
	return strings.TrimSuffix(path.Base(p), Extension)
}
