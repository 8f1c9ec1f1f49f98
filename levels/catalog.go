package levels

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/milk9111/snowfight/scene"
	"gopkg.in/yaml.v3"
)

const CatalogFile = "catalog.yaml"

var ErrInvalidCatalog = errors.New("levels: invalid catalog")

// Entry is one loadable level.
type Entry struct {
	Name       string `yaml:"name"`
	File       string `yaml:"file"`
	Script     string `yaml:"script,omitempty"`
	Background string `yaml:"background,omitempty"`
}

// Catalog is the ordered list of levels plus the menu index.
type Catalog struct {
	Menu    int     `yaml:"menu"`
	Entries []Entry `yaml:"levels"`
}

func LoadCatalog() (*Catalog, error) {
	data, err := Load(CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("levels: load %s: %w", CatalogFile, err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", CatalogFile, err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Catalog) Validate() error {
	if len(c.Entries) == 0 {
		return fmt.Errorf("%w: no levels", ErrInvalidCatalog)
	}
	if c.Menu < 0 || c.Menu >= len(c.Entries) {
		return fmt.Errorf("%w: menu index %d outside 0..%d", ErrInvalidCatalog, c.Menu, len(c.Entries)-1)
	}
	seen := make(map[string]int, len(c.Entries))
	for i, e := range c.Entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return fmt.Errorf("%w: level %d has no name", ErrInvalidCatalog, i)
		}
		if strings.TrimSpace(e.File) == "" {
			return fmt.Errorf("%w: level %q has no file", ErrInvalidCatalog, name)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%w: level name %q used by %d and %d", ErrInvalidCatalog, name, prev, i)
		}
		seen[name] = i
	}
	return nil
}

func (c *Catalog) Count() int { return len(c.Entries) }

func (c *Catalog) MenuIndex() scene.Index { return scene.Index(c.Menu) }

func (c *Catalog) Entry(i scene.Index) (Entry, bool) {
	if i < 0 || int(i) >= len(c.Entries) {
		return Entry{}, false
	}
	return c.Entries[i], true
}

// Find returns the index of the level called name.
func (c *Catalog) Find(name string) (scene.Index, bool) {
	for i, e := range c.Entries {
		if e.Name == name {
			return scene.Index(i), true
		}
	}
	return scene.NoLevel, false
}

// Library holds the active catalog and lets it be swapped on hot reload
// while the sequencer and the scene host read it from other goroutines.
type Library struct {
	cur atomic.Pointer[Catalog]
}

func NewLibrary(c *Catalog) *Library {
	l := &Library{}
	l.cur.Store(c)
	return l
}

func (l *Library) Catalog() *Catalog { return l.cur.Load() }

// Swap replaces the active catalog with c.
func (l *Library) Swap(c *Catalog) {
	if c == nil {
		return
	}
	l.cur.Store(c)
}

// Reload re-reads catalog.yaml. On error the active catalog is kept.
func (l *Library) Reload() error {
	c, err := LoadCatalog()
	if err != nil {
		return err
	}
	l.Swap(c)
	return nil
}

func (l *Library) Count() int { return l.Catalog().Count() }

func (l *Library) MenuIndex() scene.Index { return l.Catalog().MenuIndex() }

func (l *Library) Entry(i scene.Index) (Entry, bool) { return l.Catalog().Entry(i) }
