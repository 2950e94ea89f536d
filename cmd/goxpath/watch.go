package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// debounce is how long a file must stay quiet after a change before it is
// evaluated again. Changes inside the window restart it.
const debounce = 100 * time.Millisecond

// watch evaluates query against files once, then again for every file that
// changes, until ctx is cancelled. Directories are watched rather than the
// files themselves so that editors replacing a file by rename are noticed.
func (a *app) watch(ctx context.Context, query string, files []string) error {
	expr, err := a.ev.Compile(query)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()

	watched := make(map[string]string, len(files)) // absolute path -> as given
	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return errors.Wrapf(err, "resolve %s", file)
		}
		watched[abs] = file
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := w.Add(dir); err != nil {
				return errors.Wrapf(err, "watch %s", dir)
			}
			dirs[dir] = true
		}
	}

	label := func(file string) string {
		if len(files) > 1 {
			return file
		}
		return ""
	}
	evaluate := func(file string) {
		if err := a.evalFile(expr, file, label(file)); err != nil {
			fmt.Fprintf(a.stderr, "goxpath: %s: %v\n", file, err)
		}
	}

	for _, file := range files {
		evaluate(file)
	}

	// Timers fire on their own goroutines; evaluation stays on this one so
	// results are never interleaved.
	fired := make(chan string)
	stop := make(chan struct{})
	timers := make(map[string]*time.Timer)
	defer func() {
		close(stop)
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := watched[abs]; !ok {
				continue
			}
			if t, ok := timers[abs]; ok {
				t.Reset(debounce)
				continue
			}
			timers[abs] = time.AfterFunc(debounce, func() {
				select {
				case fired <- abs:
				case <-stop:
				}
			})

		case abs := <-fired:
			delete(timers, abs)
			file := watched[abs]
			a.logger.Info("file changed", "file", file)
			evaluate(file)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.logger.Error("watcher error", "error", err)
		}
	}
}
