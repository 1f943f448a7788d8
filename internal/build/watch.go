package build

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"bennypowers.dev/themec/internal/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for changes to settle
const DefaultDebounce = 100 * time.Millisecond

// Watch builds once, then rebuilds whenever a unit or theme source changes,
// until ctx is done. Bursts of events within debounce are batched into one
// rebuild. onBuild, if not nil, receives every report; the first arrives
// once the watcher is in place.
func (b *Builder) Watch(ctx context.Context, debounce time.Duration, onBuild func(*Report)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	report, err := b.Build(ctx)
	if err != nil {
		return err
	}

	for _, dir := range b.watchDirs() {
		if err := watcher.Add(dir); err != nil {
			log.Warn("Failed to watch %s: %v", dir, err)
		}
	}
	log.Info("Watching for changes")
	if onBuild != nil {
		onBuild(report)
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if event.Has(fsnotify.Create) && b.isWatchableDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					log.Warn("Failed to watch %s: %v", event.Name, err)
				}
			}
			if b.relevant(event.Name) {
				pending[event.Name] = true
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("Watcher error: %v", err)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			sort.Strings(changed)
			clear(pending)

			log.Debug("Rebuilding after %d changes", len(changed))
			report, err := b.Rebuild(ctx, changed)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Error("Rebuild failed: %v", err)
				continue
			}
			if onBuild != nil {
				onBuild(report)
			}
		}
	}
}

// relevant reports whether a change to path affects the build
func (b *Builder) relevant(path string) bool {
	if b.themeSourcePaths()[path] {
		return true
	}
	if b.inOutDir(path) {
		return false
	}
	rel, err := filepath.Rel(b.cfg.ResolvePath("."), path)
	return err == nil && isUnit(b.cfg, rel)
}

func (b *Builder) isWatchableDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	return !shouldSkipDirectory(fs.FileInfoToDirEntry(info), path, b.cfg.ResolvePath(b.cfg.OutDir))
}

// watchDirs lists the directories holding units plus those holding theme
// sources. fsnotify does not watch recursively.
func (b *Builder) watchDirs() []string {
	root := b.cfg.ResolvePath(".")
	outDir := b.cfg.ResolvePath(b.cfg.OutDir)
	dirs := map[string]bool{root: true}

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == root {
			return nil
		}
		if shouldSkipDirectory(d, path, outDir) {
			return filepath.SkipDir
		}
		if d.IsDir() {
			dirs[path] = true
		}
		return nil
	})
	for src := range b.themeSourcePaths() {
		dirs[filepath.Dir(src)] = true
	}

	list := make([]string, 0, len(dirs))
	for dir := range dirs {
		list = append(list, dir)
	}
	sort.Strings(list)
	return list
}
