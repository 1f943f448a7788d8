package build

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"bennypowers.dev/themec/internal/log"
	"bennypowers.dev/themec/internal/parser/asimonim"
	"bennypowers.dev/themec/internal/parser/css"
	"bennypowers.dev/themec/internal/resolver"
	"bennypowers.dev/themec/internal/theme"
	"golang.org/x/sync/singleflight"
)

// ErrUnsupportedThemeSource indicates a theme source with an unknown extension
var ErrUnsupportedThemeSource = errors.New("unsupported theme source")

// SourceOptions configures how theme sources are read
type SourceOptions struct {
	// RootSelector selects the rule CSS sources declare variables under
	RootSelector string
	// TokenPrefix is the CSS variable prefix for design token sources
	TokenPrefix string
}

// LoadVariables reads a theme source into a raw variable table. CSS files
// contribute the custom properties of their root rules; JSON and YAML files
// are read as design tokens.
func LoadVariables(path string, opts SourceOptions) (*resolver.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme source %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".css":
		sheet, err := css.Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return theme.Collect(sheet, theme.CollectOptions{RootSelector: opts.RootSelector}), nil
	case ".json", ".yaml", ".yml":
		table, err := asimonim.LoadVariables(data, opts.TokenPrefix)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return table, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedThemeSource, path)
	}
}

// sourceCache reads each theme source once per build, however many themes
// share it. Callers always get their own clone of the cached table, since
// resolving seals it.
type sourceCache struct {
	opts   SourceOptions
	group  singleflight.Group
	mu     sync.Mutex
	tables map[string]*resolver.Table
	reads  atomic.Int32
}

func newSourceCache(opts SourceOptions) *sourceCache {
	return &sourceCache{
		opts:   opts,
		tables: make(map[string]*resolver.Table),
	}
}

func (c *sourceCache) cached(path string) (*resolver.Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tables[path]
	return t, ok
}

// Table returns a fresh, unsealed copy of the variables of path
func (c *sourceCache) Table(path string) (*resolver.Table, error) {
	if t, ok := c.cached(path); ok {
		return t.Clone(), nil
	}

	v, err, _ := c.group.Do(path, func() (any, error) {
		if t, ok := c.cached(path); ok {
			return t, nil
		}
		c.reads.Add(1)
		log.Debug("Reading theme source %s", path)
		t, err := LoadVariables(path, c.opts)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.tables[path] = t
		c.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*resolver.Table).Clone(), nil
}

// Forget drops a cached source so the next Table call reads it again
func (c *sourceCache) Forget(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tables, path)
}
