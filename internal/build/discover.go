package build

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"bennypowers.dev/themec/internal/config"
	"github.com/bmatcuk/doublestar/v4"
)

// skipDirs are never searched for units
var skipDirs = []string{"node_modules"}

// shouldSkipDirectory reports directories that are never searched: hidden
// ones, dependency trees and the output directory
func shouldSkipDirectory(d fs.DirEntry, path, outDir string) bool {
	if !d.IsDir() {
		return false
	}
	if path == outDir {
		return true
	}
	if strings.HasPrefix(d.Name(), ".") {
		return true
	}
	return slices.Contains(skipDirs, d.Name())
}

// matchGlobPattern matches a doublestar pattern against a relative path
func matchGlobPattern(pattern, path string) (bool, error) {
	// doublestar.Match expects forward slashes, but Windows paths use backslashes
	return doublestar.Match(pattern, filepath.ToSlash(path))
}

// matchesAnyPattern reports whether relPath matches at least one pattern
func matchesAnyPattern(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := matchGlobPattern(pattern, relPath)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// isUnit reports whether relPath is selected by the include and exclude
// patterns of cfg. Theme sources are never units.
func isUnit(cfg *config.Config, relPath string) bool {
	if !matchesAnyPattern(relPath, cfg.Include) || matchesAnyPattern(relPath, cfg.Exclude) {
		return false
	}
	abs := cfg.ResolvePath(relPath)
	for _, src := range cfg.Themes {
		if cfg.ResolvePath(src) == abs {
			return false
		}
	}
	return true
}

// Discover walks the config directory and returns the unit IDs selected by
// Include minus Exclude, sorted. A unit ID is the slash-separated path of
// the stylesheet relative to the config directory.
func Discover(cfg *config.Config) ([]string, error) {
	for _, pattern := range append(slices.Clone(cfg.Include), cfg.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: bad glob pattern %q", config.ErrInvalidConfig, pattern)
		}
	}

	root := cfg.ResolvePath(".")
	outDir := cfg.ResolvePath(cfg.OutDir)

	var units []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors, continue walking
		}
		if path == root {
			return nil
		}
		if shouldSkipDirectory(d, path, outDir) {
			return filepath.SkipDir
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if isUnit(cfg, relPath) {
			units = append(units, filepath.ToSlash(relPath))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(units)
	return units, nil
}
