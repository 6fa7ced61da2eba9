// Package config provides configuration management for labseat.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Configuration file
// 4. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Seats: %v\n", cfg.Board.Seats)
package config

import (
	"time"

	"github.com/0xmhha/labseat/pkg/calendar"
	"github.com/0xmhha/labseat/pkg/scheduler"
)

// Config represents the complete application configuration.
//
// Invariants:
// - Board.Seats has at least one seat and no duplicates
// - Board.Timezone names a loadable location
// - Schedule.ResetStart and Schedule.ResetEnd are "HH:MM"
// - TickInterval, TimelineBucket and OpenTimeout must be > 0
// - BatchWindow must be > 0 so saves stay off the mutation path.
type Config struct {
	// Seat layout and calendar settings
	Board BoardConfig `yaml:"board"`

	// Rollover and nightly reset settings
	Schedule ScheduleConfig `yaml:"schedule"`

	// Storage settings
	Storage StorageConfig `yaml:"storage"`

	// HTTP server settings
	Server ServerConfig `yaml:"server"`

	// Import inbox settings
	Inbox InboxConfig `yaml:"inbox"`

	// Display settings
	Display DisplayConfig `yaml:"display"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// BoardConfig describes the lab.
type BoardConfig struct {
	// Seat ids in display order
	Seats []string `yaml:"seats"`

	// IANA time zone dates and weeks are derived in ("Local" for the host zone)
	Timezone string `yaml:"timezone"`

	// Width of one timeline slice
	TimelineBucket time.Duration `yaml:"timeline_bucket"`
}

// ScheduleConfig contains scheduler settings.
type ScheduleConfig struct {
	// How often the scheduler checks for rollover and reset
	TickInterval time.Duration `yaml:"tick_interval"`

	// Start of the nightly reset window ("HH:MM")
	ResetStart string `yaml:"reset_start"`

	// End of the nightly reset window ("HH:MM"), may be past midnight
	ResetEnd string `yaml:"reset_end"`
}

// StorageConfig contains storage-related settings.
type StorageConfig struct {
	// Path to BoltDB database file
	DBPath string `yaml:"db_path"`

	// Database write batching window
	BatchWindow time.Duration `yaml:"batch_window"`

	// How long to wait for the database file lock
	OpenTimeout time.Duration `yaml:"open_timeout"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Listen address
	Addr string `yaml:"addr"`
}

// InboxConfig contains import inbox settings.
type InboxConfig struct {
	// Directory watched for export documents; empty disables the inbox
	Dir string `yaml:"dir"`

	// Quiet period before a changed file is imported
	Debounce time.Duration `yaml:"debounce"`
}

// DisplayConfig contains display-related settings.
type DisplayConfig struct {
	// Default output format (table, simple, json)
	Format string `yaml:"format"`

	// Enable colored output
	ColorEnabled bool `yaml:"color_enabled"`

	// Redraw interval of the live board
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level"`

	// Log output destination (stdout, stderr, file path)
	Output string `yaml:"output"`

	// Log format (text, json)
	Format string `yaml:"format"`
}

// Validate checks if the configuration is usable.
//
// Thread-safety: This method is read-only and thread-safe.
func (c *Config) Validate() error {
	// Validate board config
	if len(c.Board.Seats) == 0 {
		return ErrNoSeats
	}
	seen := make(map[string]bool, len(c.Board.Seats))
	for _, id := range c.Board.Seats {
		if id == "" || seen[id] {
			return ErrDuplicateSeat
		}
		seen[id] = true
	}
	if _, err := calendar.Load(c.Board.Timezone); err != nil {
		return ErrInvalidTimezone
	}
	if c.Board.TimelineBucket <= 0 || c.Board.TimelineBucket > 24*time.Hour {
		return ErrInvalidTimelineBucket
	}

	// Validate schedule config
	if c.Schedule.TickInterval <= 0 {
		return ErrInvalidTickInterval
	}
	if _, err := c.ResetWindow(); err != nil {
		return ErrInvalidResetWindow
	}

	// Validate storage config
	if c.Storage.DBPath == "" {
		return ErrNoDBPath
	}
	if c.Storage.BatchWindow <= 0 {
		return ErrInvalidBatchWindow
	}
	if c.Storage.OpenTimeout <= 0 {
		return ErrInvalidOpenTimeout
	}

	if c.Server.Addr == "" {
		return ErrNoServerAddr
	}

	if c.Inbox.Dir != "" && c.Inbox.Debounce <= 0 {
		return ErrInvalidDebounce
	}

	// Validate display config
	validFormats := map[string]bool{
		"table":  true,
		"simple": true,
		"json":   true,
	}
	if !validFormats[c.Display.Format] {
		return ErrInvalidDisplayFormat
	}
	if c.Display.RefreshInterval <= 0 {
		return ErrInvalidRefreshInterval
	}

	// Validate logging config
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}

// ResetWindow parses the configured nightly reset window.
func (c *Config) ResetWindow() (scheduler.ResetWindow, error) {
	return scheduler.ParseResetWindow(c.Schedule.ResetStart, c.Schedule.ResetEnd)
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		Board: BoardConfig{
			Seats:          defaultSeats(),
			Timezone:       "Local",
			TimelineBucket: 30 * time.Minute,
		},
		Schedule: ScheduleConfig{
			TickInterval: 1 * time.Minute,
			ResetStart:   scheduler.DefaultResetWindow.Start.String(),
			ResetEnd:     scheduler.DefaultResetWindow.End.String(),
		},
		Storage: StorageConfig{
			DBPath:      defaultDBPath(),
			BatchWindow: 100 * time.Millisecond,
			OpenTimeout: 1 * time.Second,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Inbox: InboxConfig{
			Debounce: 500 * time.Millisecond,
		},
		Display: DisplayConfig{
			Format:          "table",
			ColorEnabled:    true,
			RefreshInterval: 1 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
			Format: "text",
		},
	}
}
