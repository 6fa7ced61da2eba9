package exchange

import (
	"encoding/json"
	"fmt"
)

// Export renders payload as an indented version 2 document.
func Export(p Payload) ([]byte, error) {
	doc := Document{
		Version:         Version,
		Members:         EncodeMembers(p.Members),
		SeatStates:      EncodeSeats(p.Seats),
		Sessions:        EncodeSessions(p.Sessions),
		TelemetryConfig: p.Telemetry,
	}
	if p.LastResetDate != "" {
		date := p.LastResetDate
		doc.LastResetDate = &date
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export document: %w", err)
	}
	return data, nil
}

// Parse reads an export document. It fails only when raw is not valid JSON
// or not an object; malformed records inside are dropped and listed in
// Imported.Dropped. The version field is not enforced.
func Parse(raw []byte) (Imported, error) {
	var top interface{}
	if err := json.Unmarshal(raw, &top); err != nil {
		return Imported{}, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if _, ok := top.(map[string]interface{}); !ok {
		return Imported{}, ErrInvalidDocument
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Imported{}, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	var imp Imported

	membersRaw, ok := fields["members"]
	if !ok {
		membersRaw = fields["users"]
	}
	members, hasMembers, dropped := DecodeMembers(membersRaw)
	imp.Members = members
	imp.HasMembers = hasMembers
	imp.Dropped = append(imp.Dropped, dropped...)

	seats, dropped := DecodeSeats(fields["seatStates"])
	imp.Seats = seats
	imp.Dropped = append(imp.Dropped, dropped...)

	sessions, dropped := DecodeSessions(fields["sessions"])
	imp.Sessions = sessions
	imp.Dropped = append(imp.Dropped, dropped...)

	if raw, ok := fields["lastResetDate"]; ok {
		if date, ok := str(raw); ok {
			imp.LastResetDate = date
		}
	}

	telemetryRaw, ok := fields["telemetryConfig"]
	if !ok {
		telemetryRaw = fields["mqttConfig"]
	}
	imp.Telemetry = DecodeTelemetry(telemetryRaw)

	return imp, nil
}

// Failure builds an unsuccessful Result from err.
func Failure(err error) Result {
	return Result{Success: false, Message: err.Error()}
}

// Success builds a successful Result.
func Success(imp Imported) Result {
	msg := fmt.Sprintf("imported %d sessions, %d seats", len(imp.Sessions), len(imp.Seats))
	if imp.HasMembers {
		msg = fmt.Sprintf("imported %d members, %d sessions, %d seats", len(imp.Members), len(imp.Sessions), len(imp.Seats))
	}
	if n := len(imp.Dropped); n > 0 {
		msg += fmt.Sprintf(" (%d invalid records dropped)", n)
	}
	return Result{Success: true, Message: msg}
}
