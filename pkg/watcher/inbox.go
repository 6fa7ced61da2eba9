package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/0xmhha/labseat/pkg/exchange"
	"github.com/0xmhha/labseat/pkg/logger"
	"github.com/0xmhha/labseat/pkg/storage"
)

// Inbox imports documents that settle in a watched directory.
type Inbox struct {
	watcher  Watcher
	importFn ImportFunc
	logger   logger.Logger

	mu       sync.Mutex
	imported int
	rejected int
}

// NewInbox creates an inbox that applies documents with fn.
func NewInbox(w Watcher, fn ImportFunc, log logger.Logger) *Inbox {
	return &Inbox{
		watcher:  w,
		importFn: fn,
		logger:   log.Component("inbox"),
	}
}

// Run imports documents already in dir, then every document that settles
// there until ctx is cancelled or the watcher is closed.
func (in *Inbox) Run(ctx context.Context, dir string) error {
	if err := in.watcher.Start(ctx, dir); err != nil {
		return err
	}

	if err := in.drain(storage.ExpandHome(dir)); err != nil {
		in.logger.Warn("failed to scan inbox", "dir", dir, "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-in.watcher.Events():
			if !ok {
				return nil
			}
			if event.Op == OpRemove || event.Op == OpRename {
				continue
			}
			if _, err := in.Process(event.Path); err != nil && !os.IsNotExist(err) {
				in.logger.Warn("failed to process document", "path", event.Path, "error", err)
			}

		case err, ok := <-in.watcher.Errors():
			if !ok {
				return nil
			}
			in.logger.Warn("inbox watcher error", "error", err)
		}
	}
}

// drain processes documents present before the watch began, oldest name first.
func (in *Inbox) drain(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read inbox: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), DocumentSuffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := in.Process(path); err != nil {
			in.logger.Warn("failed to process document", "path", path, "error", err)
		}
	}
	return nil
}

// Process imports one document and renames it with ImportedSuffix or
// RejectedSuffix depending on the outcome.
func (in *Inbox) Process(path string) (exchange.Result, error) {
	// #nosec G304: path is inside the configured inbox
	raw, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		return exchange.Result{}, err
	}

	res := in.importFn(raw)

	suffix := ImportedSuffix
	in.mu.Lock()
	if res.Success {
		in.imported++
	} else {
		in.rejected++
		suffix = RejectedSuffix
	}
	in.mu.Unlock()

	if res.Success {
		in.logger.Info("document imported", "path", path)
	} else {
		in.logger.Warn("document rejected", "path", path, "reason", res.Message)
	}

	if err := os.Rename(path, path+suffix); err != nil {
		return res, fmt.Errorf("failed to archive document: %w", err)
	}
	return res, nil
}

// Counts returns how many documents were imported and rejected.
func (in *Inbox) Counts() (imported, rejected int) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.imported, in.rejected
}
