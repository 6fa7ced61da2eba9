// Package exchange converts board state to and from its JSON documents.
//
// The same record codecs serve two callers: the storage layer, which keeps
// one JSON value per concern, and export/import, which bundles every concern
// into a single versioned document. Decoding is lenient per record: a
// malformed session, member or seat is dropped and reported, while the
// remaining records are kept.
//
// Example usage:
//
//	data, err := exchange.Export(exchange.Payload{
//	    Members:  roster.List(),
//	    Seats:    grid.Snapshot(),
//	    Sessions: store.Snapshot(),
//	})
//
//	imported, err := exchange.Parse(data)
//	if err != nil {
//	    return err // not a JSON object
//	}
//	for _, dropped := range imported.Dropped {
//	    log.Debug("record dropped", "error", dropped)
//	}
package exchange

import (
	"github.com/0xmhha/labseat/pkg/ledger"
	"github.com/0xmhha/labseat/pkg/roster"
	"github.com/0xmhha/labseat/pkg/seat"
)

// Version is the export document version written by Export.
const Version = 2

// SessionRecord is the wire form of a session. Times are Unix milliseconds.
type SessionRecord struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	SeatID string `json:"seatId"`
	Start  int64  `json:"start"`
	End    *int64 `json:"end"`
}

// MemberRecord is the wire form of a member.
type MemberRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// SeatRecord is the wire form of one seat, keyed by seat id.
type SeatRecord struct {
	UserID    *string `json:"userId"`
	Status    string  `json:"status"`
	StartedAt *int64  `json:"startedAt"`
}

// TelemetryConfig holds the connection settings of the lab's sensor feed.
// The board only stores and exchanges them.
type TelemetryConfig struct {
	ServerURL      string `json:"serverUrl"`
	ClientName     string `json:"clientName"`
	ClientPassword string `json:"clientPassword"`
}

// Valid reports whether enough is set to connect.
func (c TelemetryConfig) Valid() bool {
	return c.ServerURL != "" && c.ClientName != ""
}

// Document is the export document.
type Document struct {
	Version         int                   `json:"version"`
	Members         []MemberRecord        `json:"members"`
	SeatStates      map[string]SeatRecord `json:"seatStates"`
	Sessions        []SessionRecord       `json:"sessions"`
	LastResetDate   *string               `json:"lastResetDate"`
	TelemetryConfig TelemetryConfig       `json:"telemetryConfig"`
}

// Payload is the board state carried by an export.
type Payload struct {
	Members       []roster.Member
	Seats         []seat.State
	Sessions      []ledger.Session
	LastResetDate string
	Telemetry     TelemetryConfig
}

// Imported is a parsed import document.
type Imported struct {
	Payload

	// HasMembers is false when the document carried no member list; the
	// current roster is then kept.
	HasMembers bool

	// Dropped describes every record that failed validation.
	Dropped []error
}

// Result is reported back to the caller of an import.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
