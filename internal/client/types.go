package client

import "time"

// User is the identity behind a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an authenticated session: the bearer token plus its identity.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Profile is the application-level user record.
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

// Visit is one recorded virtual country visit.
type Visit struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Country         string    `json:"country"`
	DurationMinutes int       `json:"duration_minutes"`
	VisitedAt       time.Time `json:"visited_at"`
}

// Friend is a relationship row between two users.
type Friend struct {
	UserID    string    `json:"user_id"`
	FriendID  string    `json:"friend_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// FriendEntry is a friend joined with the counterpart's profile.
type FriendEntry struct {
	FriendID  string `json:"friend_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// DirectMessage is a message between two users.
type DirectMessage struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// RoomMessage is a message in the shared community room.
type RoomMessage struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	SenderEmail string    `json:"sender_email"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}
