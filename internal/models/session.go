package models

import "time"

// Session represents an opaque bearer token bound to a user account.
// A session is valid while the row exists and revoked once it is deleted.
type Session struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
}
