package exchange

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/0xmhha/labseat/pkg/ledger"
	"github.com/0xmhha/labseat/pkg/roster"
	"github.com/0xmhha/labseat/pkg/seat"
)

// EncodeSessions converts sessions to wire records.
func EncodeSessions(sessions []ledger.Session) []SessionRecord {
	out := make([]SessionRecord, 0, len(sessions))
	for _, s := range sessions {
		rec := SessionRecord{
			ID:     s.ID,
			UserID: s.MemberID,
			SeatID: s.SeatID,
			Start:  s.Start.UnixMilli(),
		}
		if s.End != nil {
			end := s.End.UnixMilli()
			rec.End = &end
		}
		out = append(out, rec)
	}
	return out
}

// DecodeSessions decodes a JSON array of session records. A record is kept
// when userId and seatId are strings, start is a number and end is a
// number, null or absent. Records without a string id get a fresh one. A
// value that is not an array yields no sessions.
func DecodeSessions(raw json.RawMessage) ([]ledger.Session, []error) {
	items, ok := decodeArray(raw)
	if !ok {
		return []ledger.Session{}, nil
	}

	sessions := make([]ledger.Session, 0, len(items))
	var dropped []error
	for i, item := range items {
		s, err := decodeSession(item)
		if err != nil {
			dropped = append(dropped, withKey(err, "sessions", strconv.Itoa(i)))
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions, dropped
}

func decodeSession(item json.RawMessage) (ledger.Session, error) {
	fields, ok := decodeObject(item)
	if !ok {
		return ledger.Session{}, &RecordError{Err: ErrNotObject}
	}

	userID, ok := stringField(fields, "userId")
	if !ok {
		return ledger.Session{}, &RecordError{Field: "userId", Err: ErrFieldType}
	}
	seatID, ok := stringField(fields, "seatId")
	if !ok {
		return ledger.Session{}, &RecordError{Field: "seatId", Err: ErrFieldType}
	}
	start, ok := numberField(fields, "start")
	if !ok || !validMillis(start) {
		return ledger.Session{}, &RecordError{Field: "start", Err: ErrFieldType}
	}

	s := ledger.Session{
		MemberID: userID,
		SeatID:   seatID,
		Start:    fromMillis(start),
	}

	if rawEnd, present := fields["end"]; present && !isNull(rawEnd) {
		end, ok := number(rawEnd)
		if !ok || !validMillis(end) {
			return ledger.Session{}, &RecordError{Field: "end", Err: ErrFieldType}
		}
		t := fromMillis(end)
		s.End = &t
	}

	if id, ok := stringField(fields, "id"); ok && id != "" {
		s.ID = id
	} else {
		s.ID = uuid.NewString()
	}
	return s, nil
}

// EncodeMembers converts members to wire records.
func EncodeMembers(members []roster.Member) []MemberRecord {
	out := make([]MemberRecord, 0, len(members))
	for _, m := range members {
		out = append(out, MemberRecord{ID: m.ID, Name: m.Name, Category: string(m.Category)})
	}
	return out
}

// DecodeMembers decodes a JSON array of member records. A record is kept
// when id and name are strings; unknown categories become Other. The
// second result is false when raw is not an array.
func DecodeMembers(raw json.RawMessage) ([]roster.Member, bool, []error) {
	items, ok := decodeArray(raw)
	if !ok {
		return nil, false, nil
	}

	members := make([]roster.Member, 0, len(items))
	var dropped []error
	for i, item := range items {
		key := strconv.Itoa(i)
		fields, ok := decodeObject(item)
		if !ok {
			dropped = append(dropped, &RecordError{Kind: "members", Key: key, Err: ErrNotObject})
			continue
		}
		id, ok := stringField(fields, "id")
		if !ok {
			dropped = append(dropped, &RecordError{Kind: "members", Key: key, Field: "id", Err: ErrFieldType})
			continue
		}
		name, ok := stringField(fields, "name")
		if !ok {
			dropped = append(dropped, &RecordError{Kind: "members", Key: key, Field: "name", Err: ErrFieldType})
			continue
		}
		category, _ := stringField(fields, "category")
		members = append(members, roster.Member{
			ID:       id,
			Name:     name,
			Category: roster.NormalizeCategory(category),
		})
	}
	return members, true, dropped
}

// EncodeSeats converts seat states to a map keyed by seat id. Empty seats
// are written with a null userId.
func EncodeSeats(states []seat.State) map[string]SeatRecord {
	out := make(map[string]SeatRecord, len(states))
	for _, st := range states {
		rec := SeatRecord{Status: string(st.Status)}
		if rec.Status == "" {
			rec.Status = string(seat.StatusPresent)
		}
		if st.Occupied() {
			id := st.OccupantID
			rec.UserID = &id
		}
		if st.OccupiedSince != nil {
			ms := st.OccupiedSince.UnixMilli()
			rec.StartedAt = &ms
		}
		out[st.SeatID] = rec
	}
	return out
}

// DecodeSeats decodes a JSON object of seat records keyed by seat id. A
// record is kept when userId is a string or null; anything other than
// "away" is present. Seats are returned sorted by id. A value that is not
// an object yields no seats.
func DecodeSeats(raw json.RawMessage) ([]seat.State, []error) {
	entries, ok := decodeObject(raw)
	if !ok {
		return []seat.State{}, nil
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	states := make([]seat.State, 0, len(ids))
	var dropped []error
	for _, id := range ids {
		fields, ok := decodeObject(entries[id])
		if !ok {
			dropped = append(dropped, &RecordError{Kind: "seats", Key: id, Err: ErrNotObject})
			continue
		}

		st := seat.Empty(id)
		if rawUser, present := fields["userId"]; present && !isNull(rawUser) {
			user, ok := str(rawUser)
			if !ok {
				dropped = append(dropped, &RecordError{Kind: "seats", Key: id, Field: "userId", Err: ErrFieldType})
				continue
			}
			st.OccupantID = user
		}
		if status, _ := stringField(fields, "status"); status == string(seat.StatusAway) {
			st.Status = seat.StatusAway
		}
		if ms, ok := numberField(fields, "startedAt"); ok && validMillis(ms) && st.Occupied() {
			t := fromMillis(ms)
			st.OccupiedSince = &t
		}
		if !st.Occupied() {
			st = seat.Empty(id)
		}
		states = append(states, st)
	}
	return states, dropped
}

// DecodeTelemetry overlays the fields present in raw onto the zero config.
func DecodeTelemetry(raw json.RawMessage) TelemetryConfig {
	var cfg TelemetryConfig
	fields, ok := decodeObject(raw)
	if !ok {
		return cfg
	}
	if v, ok := stringField(fields, "serverUrl"); ok {
		cfg.ServerURL = v
	}
	if v, ok := stringField(fields, "clientName"); ok {
		cfg.ClientName = v
	}
	if v, ok := stringField(fields, "clientPassword"); ok {
		cfg.ClientPassword = v
	}
	return cfg
}

func withKey(err error, kind, key string) error {
	if re, ok := err.(*RecordError); ok {
		re.Kind = kind
		re.Key = key
		return re
	}
	return &RecordError{Kind: kind, Key: key, Err: err}
}

func decodeArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}

func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

func str(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func number(raw json.RawMessage) (float64, bool) {
	if isNull(raw) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, true
}

func stringField(fields map[string]json.RawMessage, name string) (string, bool) {
	raw, ok := fields[name]
	if !ok {
		return "", false
	}
	return str(raw)
}

func numberField(fields map[string]json.RawMessage, name string) (float64, bool) {
	raw, ok := fields[name]
	if !ok {
		return 0, false
	}
	return number(raw)
}

// maxMillis bounds exported timestamps to the range a JavaScript Date holds.
const maxMillis = 8.64e15

func validMillis(ms float64) bool {
	return !math.IsNaN(ms) && ms >= -maxMillis && ms <= maxMillis
}

func fromMillis(ms float64) time.Time {
	return time.UnixMilli(int64(ms)).UTC()
}
