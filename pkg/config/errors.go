package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrNoSeats is returned when the seat layout is empty.
	ErrNoSeats = errors.New("no seats configured")

	// ErrDuplicateSeat is returned when a seat id is empty or repeated.
	ErrDuplicateSeat = errors.New("invalid seat layout: seat ids must be unique and non-empty")

	// ErrInvalidTimezone is returned when the time zone cannot be loaded.
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrInvalidTimelineBucket is returned when the timeline bucket is <= 0 or longer than a day.
	ErrInvalidTimelineBucket = errors.New("invalid timeline bucket: must be > 0 and <= 24h")

	// ErrInvalidTickInterval is returned when tick interval is <= 0.
	ErrInvalidTickInterval = errors.New("invalid tick interval: must be > 0")

	// ErrInvalidResetWindow is returned when the reset window bounds are not HH:MM.
	ErrInvalidResetWindow = errors.New("invalid reset window: bounds must be HH:MM")

	// ErrNoDBPath is returned when no database path is configured.
	ErrNoDBPath = errors.New("no database path configured")

	// ErrInvalidBatchWindow is returned when batch window is <= 0.
	ErrInvalidBatchWindow = errors.New("invalid batch window: must be > 0")

	// ErrInvalidOpenTimeout is returned when the database open timeout is <= 0.
	ErrInvalidOpenTimeout = errors.New("invalid open timeout: must be > 0")

	// ErrNoServerAddr is returned when the server address is empty.
	ErrNoServerAddr = errors.New("no server address configured")

	// ErrInvalidDebounce is returned when the inbox is enabled with a debounce <= 0.
	ErrInvalidDebounce = errors.New("invalid inbox debounce: must be > 0")

	// ErrInvalidDisplayFormat is returned when display format is not recognized.
	ErrInvalidDisplayFormat = errors.New("invalid display format: must be table, simple, or json")

	// ErrInvalidRefreshInterval is returned when the live refresh interval is <= 0.
	ErrInvalidRefreshInterval = errors.New("invalid refresh interval: must be > 0")

	// ErrInvalidLogLevel is returned when log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")
)
