// Package httpapi exposes the board over HTTP for the seat-board UI.
//
// All bodies are JSON. Validation failures answer 400 and unknown seats,
// members or sessions answer 404, both with {"error": "..."}. Session
// times use Unix milliseconds, as in export documents.
//
// Example usage:
//
//	srv := httpapi.New(b, log)
//	http.ListenAndServe(":8080", srv.Handler(os.Stdout))
package httpapi

import "github.com/0xmhha/labseat/pkg/notify"

// maxBodyBytes bounds request bodies, import documents included.
const maxBodyBytes = 16 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type memberRequest struct {
	MemberID string `json:"memberId"`
}

type moveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type moveResponse struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Mover     string `json:"mover"`
	Displaced string `json:"displaced,omitempty"`
}

type addMemberRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// sessionBody is the session record shape of export documents.
type sessionBody struct {
	UserID string `json:"userId"`
	SeatID string `json:"seatId"`
	Start  int64  `json:"start"`
	End    *int64 `json:"end"`
}

type statusResponse struct {
	SeatID string `json:"seatId"`
	Status string `json:"status"`
}

type resetResponse struct {
	Cleared int `json:"cleared"`
}

type tickResponse struct {
	At        int64  `json:"at"`
	Rollover  bool   `json:"rollover"`
	Week      string `json:"week"`
	Reset     bool   `json:"reset"`
	ResetDate string `json:"resetDate,omitempty"`
	Closed    int    `json:"closed"`
	Reopened  int    `json:"reopened"`
	Cleared   int    `json:"cleared"`
}

type timelineResponse struct {
	Date  string      `json:"date"`
	Seats interface{} `json:"seats"`
}

type notificationsResponse struct {
	Notifications []notify.Notification `json:"notifications"`
}
