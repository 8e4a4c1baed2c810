package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/greyhollow/delve/internal/grid"
)

const poolYAML = `background: "."
rows:
  - ".~."
  - "~~~"
  - ".~."
`

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern("pool", []byte(poolYAML))
	if err != nil {
		t.Fatalf("ParsePattern() failed: %v", err)
	}

	if p.Width != 3 || p.Height != 3 {
		t.Errorf("size = %dx%d, want 3x3", p.Width, p.Height)
	}
	if p.Background != grid.TerrainFloor {
		t.Errorf("background = %v, want floor", p.Background)
	}
	if p.At(1, 1) != grid.TerrainWater {
		t.Errorf("At(1,1) = %v, want water", p.At(1, 1))
	}
	if p.Opaque(0, 0) {
		t.Error("corner floor tile should be transparent")
	}
}

func TestParsePatternErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"no rows", "background: \".\"\n"},
		{"ragged rows", "rows:\n  - \"..\"\n  - \".\"\n"},
		{"unknown char", "rows:\n  - \".z.\"\n"},
		{"bad background", "background: \"z\"\nrows:\n  - \"...\"\n"},
		{"not yaml", ": : :"},
	}

	for _, tc := range cases {
		if _, err := ParsePattern("bad", []byte(tc.data)); err == nil {
			t.Errorf("%s: ParsePattern() succeeded, want error", tc.name)
		}
	}
}

func TestFileCatalogLoadsAndCaches(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pool.yaml"), []byte(poolYAML), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewFileCatalog(dir)
	p1, err := c.LoadNamedMap("pool")
	if err != nil {
		t.Fatalf("LoadNamedMap() failed: %v", err)
	}

	// Remove the file; the cached copy must still be served.
	if err := os.Remove(filepath.Join(dir, "pool.yaml")); err != nil {
		t.Fatal(err)
	}
	p2, err := c.LoadNamedMap("pool")
	if err != nil {
		t.Fatalf("cached LoadNamedMap() failed: %v", err)
	}
	if p1 != p2 {
		t.Error("second load returned a different pattern instance")
	}
}

func TestFileCatalogMissingPattern(t *testing.T) {
	c := NewFileCatalog(t.TempDir())
	if _, err := c.LoadNamedMap("nope"); err == nil {
		t.Error("LoadNamedMap() succeeded for missing pattern, want error")
	}
}

func TestMemoryCatalog(t *testing.T) {
	m := NewMemory()
	m.Add(grid.NewPattern("blob", 2, 2, grid.TerrainFloor))

	if _, err := m.LoadNamedMap("blob"); err != nil {
		t.Errorf("LoadNamedMap(blob) failed: %v", err)
	}
	if _, err := m.LoadNamedMap("ghost"); err == nil {
		t.Error("LoadNamedMap(ghost) succeeded, want error")
	}
}
