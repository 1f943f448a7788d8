// Package build drives a themec build: it discovers stylesheet units,
// extracts their theme partials concurrently, and once every unit is done
// writes one stylesheet per configured theme.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"sync"

	"bennypowers.dev/themec/internal/config"
	"bennypowers.dev/themec/internal/log"
	"bennypowers.dev/themec/internal/stylesheet"
	"bennypowers.dev/themec/internal/theme"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// ErrNoReadableUnits indicates that every discovered unit failed
var ErrNoReadableUnits = errors.New("no unit could be processed")

// ThemeReport describes one theme of a build
type ThemeReport struct {
	Name        string
	Path        string
	Size        int
	Diagnostics []theme.Diagnostic
	Err         error
}

// Report summarizes a build. Unit and theme failures are reported here
// rather than returned, so one broken unit or theme never hides the rest.
type Report struct {
	Units      int
	Partials   int
	UnitErrors []error
	Themes     []ThemeReport
}

// Failed reports whether any unit or theme failed
func (r *Report) Failed() bool {
	if len(r.UnitErrors) > 0 {
		return true
	}
	for _, t := range r.Themes {
		if t.Err != nil {
			return true
		}
	}
	return false
}

// Diagnostics returns the diagnostics of every theme
func (r *Report) Diagnostics() []theme.Diagnostic {
	var all []theme.Diagnostic
	for _, t := range r.Themes {
		all = append(all, t.Diagnostics...)
	}
	return all
}

// Err joins every unit and theme failure, or returns nil
func (r *Report) Err() error {
	errs := slices.Clone(r.UnitErrors)
	for _, t := range r.Themes {
		if t.Err != nil {
			errs = append(errs, t.Err)
		}
	}
	return errors.Join(errs...)
}

// Builder runs builds for one configuration. The partials it collects
// persist between builds, so Rebuild only re-reads what changed.
type Builder struct {
	cfg      *config.Config
	partials *theme.PartialCollector
	sources  *sourceCache
	units    []string
}

// New creates a Builder for cfg. cfg.Dir is made absolute.
func New(cfg *config.Config) *Builder {
	if abs, err := filepath.Abs(cfg.Dir); err == nil {
		cfg.Dir = abs
	}
	return &Builder{
		cfg:      cfg,
		partials: theme.NewPartialCollector(),
		sources: newSourceCache(SourceOptions{
			RootSelector: cfg.RootSelector,
			TokenPrefix:  cfg.TokenPrefix,
		}),
	}
}

// Build discovers every unit, extracts it, and writes the themes
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	units, err := Discover(b.cfg)
	if err != nil {
		return nil, err
	}
	log.Info("Found %d stylesheets", len(units))

	b.units = units
	report, err := b.run(ctx, units)
	if err != nil {
		return nil, err
	}
	if len(units) > 0 && len(report.UnitErrors) == len(units) {
		return nil, fmt.Errorf("%w: %w", ErrNoReadableUnits, errors.Join(report.UnitErrors...))
	}
	return report, nil
}

// Rebuild re-extracts the changed units, drops cached theme sources that
// changed, and writes the themes again. Paths are absolute or relative to
// the config directory; paths that are neither units nor theme sources are
// ignored.
func (b *Builder) Rebuild(ctx context.Context, changed []string) (*Report, error) {
	themeSources := b.themeSourcePaths()
	root := b.cfg.ResolvePath(".")

	var units []string
	for _, path := range changed {
		abs := b.cfg.ResolvePath(path)
		if themeSources[abs] {
			log.Debug("Theme source changed: %s", abs)
			b.sources.Forget(abs)
		}

		rel, err := filepath.Rel(root, abs)
		if err != nil || b.inOutDir(abs) || !isUnit(b.cfg, rel) {
			continue
		}
		id := filepath.ToSlash(rel)
		if _, err := os.Stat(abs); errors.Is(err, os.ErrNotExist) {
			log.Debug("Unit removed: %s", id)
			b.partials.Forget(id)
			b.units = removeString(b.units, id)
			continue
		}
		units = append(units, id)
		b.units = insertString(b.units, id)
	}

	return b.run(ctx, units)
}

func (b *Builder) run(ctx context.Context, units []string) (*Report, error) {
	report := &Report{Units: len(b.units)}

	unitErrs, err := b.extract(ctx, units)
	if err != nil {
		return nil, err
	}
	report.UnitErrors = unitErrs

	// Every unit has finished; the partial set is complete
	partial := b.partials.Concat()
	report.Partials = b.partials.Len()
	if partial == nil {
		log.Info("No themeable declarations found, no themes written")
		return report, nil
	}

	themes, err := b.buildThemes(ctx, partial)
	if err != nil {
		return nil, err
	}
	report.Themes = themes
	return report, nil
}

func (b *Builder) limit() int {
	if b.cfg.Concurrency > 0 {
		return b.cfg.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// extract processes units concurrently. Per-unit failures are collected
// and returned sorted; only cancellation aborts the whole pass.
func (b *Builder) extract(ctx context.Context, units []string) ([]error, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.limit())

	var mu sync.Mutex
	var errs []error
	for _, id := range units {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := b.extractUnit(id); err != nil {
				log.Error("%v", err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(errs, func(i, j int) bool {
		return errs[i].Error() < errs[j].Error()
	})
	return errs, nil
}

func (b *Builder) extractUnit(id string) error {
	path := b.cfg.ResolvePath(id)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", id, err)
	}

	// A unit that lost its last placeholder must not keep an old partial
	b.partials.Forget(id)
	remainder, err := theme.ExtractUnit(id, string(data), b.partials, b.cfg.Marker)
	if err != nil {
		return err
	}

	if b.cfg.EmitRemainder {
		if _, err := b.write(id, remainder); err != nil {
			return err
		}
	}
	return nil
}

// buildThemes builds every configured theme concurrently from one shared
// partial. Theme failures are recorded in the returned reports.
func (b *Builder) buildThemes(ctx context.Context, partial *stylesheet.Stylesheet) ([]ThemeReport, error) {
	names := b.cfg.ThemeNames()
	reports := make([]ThemeReport, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.limit())
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = b.buildTheme(name, partial)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (b *Builder) buildTheme(name string, partial *stylesheet.Stylesheet) ThemeReport {
	report := ThemeReport{Name: name}

	vars, err := b.sources.Table(b.cfg.ResolvePath(b.cfg.Themes[name]))
	if err != nil {
		report.Err = fmt.Errorf("theme %s: %w", name, err)
		log.Error("%v", report.Err)
		return report
	}

	result, err := theme.BuildTheme(name, vars, partial, theme.SubstituteOptions{
		Marker:          b.cfg.Marker,
		NormalizeColors: b.cfg.NormalizeColors,
	})
	if err != nil {
		report.Err = err
		log.Error("%v", err)
		return report
	}

	report.Diagnostics = result.Diagnostics
	for _, d := range result.Diagnostics {
		log.Warn("%s: %s", name, d)
	}

	css := result.CSS()
	path, err := b.write(b.cfg.OutputFilename(name), css)
	if err != nil {
		report.Err = fmt.Errorf("theme %s: %w", name, err)
		log.Error("%v", report.Err)
		return report
	}
	report.Path = path
	report.Size = len(css)
	log.Info("Wrote %s (%s)", path, humanize.Bytes(uint64(len(css))))
	return report
}

// write stores contents under the output directory and returns its path
func (b *Builder) write(name, contents string) (string, error) {
	path := filepath.Join(b.cfg.ResolvePath(b.cfg.OutDir), filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// inOutDir reports whether path is inside the output directory
func (b *Builder) inOutDir(path string) bool {
	rel, err := filepath.Rel(b.cfg.ResolvePath(b.cfg.OutDir), path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// themeSourcePaths returns the absolute paths of every theme source
func (b *Builder) themeSourcePaths() map[string]bool {
	paths := make(map[string]bool, len(b.cfg.Themes))
	for _, src := range b.cfg.Themes {
		paths[b.cfg.ResolvePath(src)] = true
	}
	return paths
}

func removeString(list []string, s string) []string {
	i := sort.SearchStrings(list, s)
	if i < len(list) && list[i] == s {
		return append(list[:i], list[i+1:]...)
	}
	return list
}

func insertString(list []string, s string) []string {
	i := sort.SearchStrings(list, s)
	if i < len(list) && list[i] == s {
		return list
	}
	list = append(list, "")
	copy(list[i+1:], list[i:])
	list[i] = s
	return list
}
