// Package catalog resolves named pattern maps for placement steps. The
// file-backed catalog is a read-only, safely shared cache: many floors may
// load the same pattern concurrently.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/greyhollow/delve/internal/grid"
)

// Catalog looks up named tile maps. Implementations must be safe for
// concurrent use.
type Catalog interface {
	LoadNamedMap(name string) (*grid.Pattern, error)
}

// patternYAML is the on-disk pattern format: a background character plus
// one string per row of tiles.
type patternYAML struct {
	Background string   `yaml:"background"` // Single character, defaults to "."
	Rows       []string `yaml:"rows"`
}

// FileCatalog loads yaml pattern files from a directory and caches them by
// name. Cached patterns are shared; callers must not mutate them.
type FileCatalog struct {
	dir   string
	mu    sync.RWMutex
	cache map[string]*grid.Pattern
}

// NewFileCatalog creates a catalog rooted at the given directory.
func NewFileCatalog(dir string) *FileCatalog {
	return &FileCatalog{
		dir:   dir,
		cache: make(map[string]*grid.Pattern),
	}
}

// LoadNamedMap returns the pattern stored as <dir>/<name>.yaml, loading and
// caching it on first use.
func (c *FileCatalog) LoadNamedMap(name string) (*grid.Pattern, error) {
	c.mu.RLock()
	p, ok := c.cache[name]
	c.mu.RUnlock()
	if ok {
		return p, nil
	}

	path := filepath.Join(c.dir, name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern %q: %w", name, err)
	}

	p, err = ParsePattern(name, data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[name] = p
	c.mu.Unlock()
	return p, nil
}

// ParsePattern parses yaml pattern data into a Pattern.
func ParsePattern(name string, data []byte) (*grid.Pattern, error) {
	var raw patternYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse pattern %q: %w", name, err)
	}
	if len(raw.Rows) == 0 {
		return nil, fmt.Errorf("pattern %q has no rows", name)
	}

	background := grid.TerrainFloor
	if raw.Background != "" {
		bg, ok := grid.TerrainFromRune([]rune(raw.Background)[0])
		if !ok {
			return nil, fmt.Errorf("pattern %q: unknown background character %q", name, raw.Background)
		}
		background = bg
	}

	width := len([]rune(raw.Rows[0]))
	height := len(raw.Rows)
	p := grid.NewPattern(name, width, height, background)

	for y, row := range raw.Rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("pattern %q: row %d is %d wide, want %d", name, y, len(runes), width)
		}
		for x, r := range runes {
			t, ok := grid.TerrainFromRune(r)
			if !ok {
				return nil, fmt.Errorf("pattern %q: unknown tile character %q at (%d, %d)", name, r, x, y)
			}
			p.Set(x, y, t)
		}
	}

	return p, nil
}

// Memory is an in-memory catalog for tests and authored-in-code patterns.
type Memory struct {
	mu       sync.RWMutex
	patterns map[string]*grid.Pattern
}

// NewMemory creates an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{patterns: make(map[string]*grid.Pattern)}
}

// Add registers a pattern under its name.
func (m *Memory) Add(p *grid.Pattern) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns[p.Name] = p
}

// LoadNamedMap returns the registered pattern or an error if unknown.
func (m *Memory) LoadNamedMap(name string) (*grid.Pattern, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.patterns[name]
	if !ok {
		return nil, fmt.Errorf("unknown pattern %q", name)
	}
	return p, nil
}
