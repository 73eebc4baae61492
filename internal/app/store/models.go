/*
Package store implements the relational data layer backing the Alive service.

Identities live apart from profiles, mirroring the split between the hosted
auth store and the application's own users table: creating an identity and
inserting its profile row are two separate writes, and the second can fail
without undoing the first.
*/
package store

import "time"

// Identity is an authentication record: who can sign in.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the application-level user record keyed by identity id.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Country   string    `json:"country,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfilePatch carries the updatable profile fields. Nil means "leave as is".
type ProfilePatch struct {
	Username  *string `json:"username,omitempty"`
	Country   *string `json:"country,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Visit is a write-mostly telemetry row recording a virtual country visit.
type Visit struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Country         string    `json:"country"`
	DurationMinutes int       `json:"duration_minutes"`
	VisitedAt       time.Time `json:"visited_at"`
}

// Friend relationship statuses.
const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
)

// Friend is a relationship row keyed by the (user, friend) pair.
type Friend struct {
	UserID    string    `json:"user_id"`
	FriendID  string    `json:"friend_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// FriendEntry is a friend row joined with the counterpart's profile.
type FriendEntry struct {
	FriendID  string `json:"friend_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Message is a direct message between two users.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// RoomMessage is a message in the shared community room. SenderEmail is
// denormalized so the room list renders without a join per row.
type RoomMessage struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	SenderEmail string    `json:"sender_email"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}
