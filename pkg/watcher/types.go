// Package watcher turns a directory into an import inbox for the board.
//
// It uses fsnotify to watch one directory for export documents (*.json)
// and debounces rapid writes so a file is imported once it has settled.
// Inbox feeds every settled file to an importer such as board.Import and
// renames it so it is not picked up again.
//
// Example usage:
//
//	w, err := watcher.New(watcher.Config{
//	    DebounceInterval: 500 * time.Millisecond,
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	inbox := watcher.NewInbox(w, b.Import, logger.Default())
//	if err := inbox.Run(ctx, "~/.config/labseat/inbox"); err != nil {
//	    log.Fatal(err)
//	}
package watcher

import (
	"context"
	"time"

	"github.com/0xmhha/labseat/pkg/exchange"
)

// Op describes a file operation type.
type Op uint32

// File operation types.
const (
	OpCreate Op = 1 << iota // File created
	OpWrite                 // File modified
	OpRemove                // File deleted
	OpRename                // File renamed/moved
)

// String returns a human-readable operation name.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	default:
		return "UNKNOWN"
	}
}

// Event is a debounced change to an inbox document.
type Event struct {
	// Path is the absolute path to the document.
	Path string

	// Op is the last operation seen for the path within the debounce window.
	Op Op

	// Timestamp is when the operation was observed.
	Timestamp time.Time
}

// Watcher provides file system monitoring of a single directory.
type Watcher interface {
	// Start begins watching dir and returns once the watch is registered.
	// Events are delivered until ctx is cancelled or Stop is called.
	Start(ctx context.Context, dir string) error

	// Stop ends event delivery. The watcher cannot be restarted.
	Stop() error

	// Events returns the channel of debounced document events.
	// The channel is closed by Close.
	Events() <-chan Event

	// Errors returns the channel of non-fatal watcher errors.
	// The channel is closed by Close.
	Errors() <-chan error

	// Close releases the underlying fsnotify watcher.
	Close() error
}

// Config contains watcher configuration.
type Config struct {
	// DebounceInterval is the quiet time required before a document is
	// emitted. Events for the same file within the interval are coalesced.
	// Default: 100ms.
	DebounceInterval time.Duration

	// CircuitBreakerThreshold is the number of fsnotify failures after
	// which ErrCircuitBreakerOpen is reported instead of the raw error.
	// Default: 5.
	CircuitBreakerThreshold int
}

// Suffixes of inbox files.
const (
	// DocumentSuffix marks files that are imported.
	DocumentSuffix = ".json"

	// ImportedSuffix is appended to a document after a successful import.
	ImportedSuffix = ".imported"

	// RejectedSuffix is appended to a document the board refused.
	RejectedSuffix = ".rejected"
)

// ImportFunc applies a raw export document, as board.Import does.
type ImportFunc func(raw []byte) exchange.Result
