package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/achilleasa/vxgi/texture"
	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli"
)

var (
	ErrNoWatchConfig     = errors.New("watch: a --config file is required")
	ErrRemoteWatchConfig = errors.New("watch: remote configs cannot be watched")
)

// Re-render the scene every time the config file changes. The watch stops
// on SIGINT.
func Watch(ctx *cli.Context) error {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	return watch(ctx, interrupt, nil)
}

// Resolve the config path to watch. Only local files can be watched.
func watchedPath(config string) (string, error) {
	if config == "" {
		return "", ErrNoWatchConfig
	}
	if loc, err := url.Parse(config); err == nil && (loc.Scheme == "http" || loc.Scheme == "https") {
		return "", fmt.Errorf("%w: %s", ErrRemoteWatchConfig, config)
	}
	return filepath.Abs(config)
}

// Render once and then again after every write to the config file until
// stop fires. The outcome of each render is sent to rendered if it is not
// nil.
func watch(ctx *cli.Context, stop <-chan os.Signal, rendered chan<- error) error {
	path, err := watchedPath(ctx.String("config"))
	if err != nil {
		return err
	}
	if _, err = os.Stat(path); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Editors often replace files instead of writing them in place so the
	// parent directory is watched.
	if err = watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	render := func() {
		err := renderOnce(ctx)
		if err != nil {
			logger.Errorf("render failed: %v", err)
		}
		if rendered != nil {
			rendered <- err
		}
	}

	render()
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Noticef("%s changed; re-rendering", path)
			render()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warningf("watcher error: %v", err)
		case <-stop:
			return nil
		}
	}
}

// Render and save a frame sequence. The watch keeps running when this
// fails so the config can be fixed in place.
func renderOnce(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	setupLogging(ctx, cfg)

	s, err := newSession(cfg)
	if err != nil {
		return fmt.Errorf("could not set up renderer: %w", err)
	}
	defer s.Close()

	frames := ctx.Int("frames")
	if frames < 1 {
		frames = 1
	}
	for frame := 0; frame < frames; frame++ {
		img, err := s.renderFrame(frame)
		if err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		if frame == frames-1 {
			if err = texture.Save(img, ctx.String("out")); err != nil {
				return fmt.Errorf("could not save frame: %w", err)
			}
		}
	}
	displayFrameStats(s.renderer.Stats())
	return nil
}
