package resources

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maypok86/otter/v2"
	"voightkampff/internal/app/domain/dialog"
)

// ErrResourceNotFound wraps every failed dialog lookup; callers test
// for it with errors.Is.
var ErrResourceNotFound = errors.New("dialog resource not found")

// Loader reads dialog resources for one language and caches compiled
// template sets by resolved file path. Feature files hit the same
// handful of resources across many scenarios, so reads are served
// from cache after the first load.
type Loader struct {
	lang  string
	cache *otter.Cache[string, dialog.TemplateSet]
}

func NewLoader(lang string) *Loader {
	return &Loader{
		lang: lang,
		cache: otter.Must(&otter.Options[string, dialog.TemplateSet]{
			InitialCapacity: 64,
		}),
	}
}

// Load resolves dialogName under skillPath and returns its compiled
// template set. Resolution tries <skill>/dialog/<lang>/ first and
// falls back to <skill>/locale/<lang>/; only when neither holds the
// file does it fail, wrapping ErrResourceNotFound with both attempted
// paths.
func (l *Loader) Load(skillPath, dialogName string) (dialog.TemplateSet, error) {
	candidates := []string{
		filepath.Join(skillPath, "dialog", l.lang, dialogName),
		filepath.Join(skillPath, "locale", l.lang, dialogName),
	}

	for _, path := range candidates {
		if set, ok := l.cache.GetIfPresent(path); ok {
			return set, nil
		}

		lines, err := readDialogFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return dialog.TemplateSet{}, err
		}

		set := dialog.NewTemplateSet(filepath.Base(path), lines)
		l.cache.Set(path, set)
		return set, nil
	}

	return dialog.TemplateSet{}, fmt.Errorf("%w: tried %s and %s",
		ErrResourceNotFound, candidates[0], candidates[1])
}

// LoadAll returns the compiled template set of every *.dialog file
// under the skill's dialog subtree, sorted by file name so best-match
// tie-breaking is stable across runs.
func (l *Loader) LoadAll(skillPath string) ([]dialog.TemplateSet, error) {
	paths, err := l.List(skillPath)
	if err != nil {
		return nil, err
	}

	sets := make([]dialog.TemplateSet, 0, len(paths))
	for _, path := range paths {
		if set, ok := l.cache.GetIfPresent(path); ok {
			sets = append(sets, set)
			continue
		}

		lines, err := readDialogFile(path)
		if err != nil {
			return nil, err
		}

		set := dialog.NewTemplateSet(filepath.Base(path), lines)
		l.cache.Set(path, set)
		sets = append(sets, set)
	}
	return sets, nil
}

// List enumerates the *.dialog files under <skill>/dialog/<lang>/,
// sorted by name.
func (l *Loader) List(skillPath string) ([]string, error) {
	pattern := filepath.Join(skillPath, "dialog", l.lang, "*.dialog")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// Invalidate drops every cached template set, forcing re-reads.
func (l *Loader) Invalidate() {
	l.cache.InvalidateAll()
}

// readDialogFile loads one resource: lines are trimmed and lowercased;
// blank lines and '#' comments are dropped.
func readDialogFile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, strings.ToLower(line))
	}
	return lines, nil
}

// Resolver maps skill names to their root directories under one
// skills directory.
type Resolver struct {
	skillsDir string
}

func NewResolver(skillsDir string) *Resolver {
	return &Resolver{skillsDir: skillsDir}
}

// FindSkill resolves a skill name to its root directory. Matching is
// case-insensitive on the directory basename.
func (r *Resolver) FindSkill(name string) (string, error) {
	entries, err := os.ReadDir(r.skillsDir)
	if err != nil {
		return "", fmt.Errorf("read skills dir: %w", err)
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if strings.EqualFold(e.Name(), name) {
			return filepath.Join(r.skillsDir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("skill %q not found under %s", name, r.skillsDir)
}
