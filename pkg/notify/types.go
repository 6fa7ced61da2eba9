// Package notify holds the notifications the board raises for the UI layer
// and the arrival/departure greetings that produce some of them.
//
// Notifications stay pending until a caller drains them with Consume; they
// are never cleared automatically.
package notify

import "time"

// Kind classifies a notification.
type Kind string

// Notification kinds.
const (
	KindStreak          Kind = "streak"
	KindWeeklyGreeting  Kind = "weekly_greeting"
	KindFirstArrival    Kind = "first_arrival"
	KindFirstWeekly     Kind = "first_weekly_combined"
	KindWeekendFarewell Kind = "weekend_farewell"
)

// Notification is one message waiting to be shown.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	MemberID  string    `json:"memberId,omitempty"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

// Sink accepts new notifications.
type Sink interface {
	Push(n Notification) Notification
}
