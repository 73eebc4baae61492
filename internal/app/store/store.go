package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aizatop/alive/internal/pkg/randx"
)

// Store runs the application's queries against a PostgreSQL pool.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an existing connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// CreateIdentity inserts an authentication record.
func (s *Store) CreateIdentity(ctx context.Context, email, passwordHash string) (Identity, error) {
	var ident Identity
	err := s.pool.QueryRow(ctx,
		`INSERT INTO identities (id, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, email, password_hash, created_at`,
		randx.MessageID(), email, passwordHash,
	).Scan(&ident.ID, &ident.Email, &ident.PasswordHash, &ident.CreatedAt)
	if err != nil {
		return Identity{}, fmt.Errorf("create identity: %w", err)
	}
	return ident, nil
}

// IdentityByEmail fetches an identity for credential verification.
func (s *Store) IdentityByEmail(ctx context.Context, email string) (Identity, error) {
	var ident Identity
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at
		 FROM identities WHERE email = $1`,
		email,
	).Scan(&ident.ID, &ident.Email, &ident.PasswordHash, &ident.CreatedAt)
	if err != nil {
		return Identity{}, fmt.Errorf("identity by email: %w", err)
	}
	return ident, nil
}

// IdentityByID fetches an identity by its id.
func (s *Store) IdentityByID(ctx context.Context, id string) (Identity, error) {
	var ident Identity
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at
		 FROM identities WHERE id = $1`,
		id,
	).Scan(&ident.ID, &ident.Email, &ident.PasswordHash, &ident.CreatedAt)
	if err != nil {
		return Identity{}, fmt.Errorf("identity by id: %w", err)
	}
	return ident, nil
}

// CreateProfile inserts the application profile row for an identity.
func (s *Store) CreateProfile(ctx context.Context, id, email, username, country string) (Profile, error) {
	var p Profile
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, username, country)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, email, username, country, avatar_url, created_at`,
		id, email, username, country,
	).Scan(&p.ID, &p.Email, &p.Username, &p.Country, &p.AvatarURL, &p.CreatedAt)
	if err != nil {
		return Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

// ProfileByID fetches a single profile row.
func (s *Store) ProfileByID(ctx context.Context, id string) (Profile, error) {
	var p Profile
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, username, country, avatar_url, created_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Email, &p.Username, &p.Country, &p.AvatarURL, &p.CreatedAt)
	if err != nil {
		return Profile{}, fmt.Errorf("profile by id: %w", err)
	}
	return p, nil
}

// UpdateProfile applies the non-nil patch fields and returns the updated row.
func (s *Store) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (Profile, error) {
	var p Profile
	err := s.pool.QueryRow(ctx,
		`UPDATE users SET
		   username   = COALESCE($2, username),
		   country    = COALESCE($3, country),
		   avatar_url = COALESCE($4, avatar_url)
		 WHERE id = $1
		 RETURNING id, email, username, country, avatar_url, created_at`,
		id, patch.Username, patch.Country, patch.AvatarURL,
	).Scan(&p.ID, &p.Email, &p.Username, &p.Country, &p.AvatarURL, &p.CreatedAt)
	if err != nil {
		return Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

// CreateVisit appends a visit telemetry row.
func (s *Store) CreateVisit(ctx context.Context, userID, country string, durationMinutes int) (Visit, error) {
	var v Visit
	err := s.pool.QueryRow(ctx,
		`INSERT INTO visits (id, user_id, country, duration_minutes)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, country, duration_minutes, visited_at`,
		randx.MessageID(), userID, country, durationMinutes,
	).Scan(&v.ID, &v.UserID, &v.Country, &v.DurationMinutes, &v.VisitedAt)
	if err != nil {
		return Visit{}, fmt.Errorf("create visit: %w", err)
	}
	return v, nil
}

// VisitsByUser lists a user's visits, most recent first.
func (s *Store) VisitsByUser(ctx context.Context, userID string) ([]Visit, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, country, duration_minutes, visited_at
		 FROM visits WHERE user_id = $1
		 ORDER BY visited_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("visits by user: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, func(rows pgx.Rows) (Visit, error) {
		var v Visit
		err := rows.Scan(&v.ID, &v.UserID, &v.Country, &v.DurationMinutes, &v.VisitedAt)
		return v, err
	})
}

// CreateFriendRequest inserts a pending relationship row for the pair.
func (s *Store) CreateFriendRequest(ctx context.Context, userID, friendID string) (Friend, error) {
	var f Friend
	err := s.pool.QueryRow(ctx,
		`INSERT INTO friends (user_id, friend_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING user_id, friend_id, status, created_at`,
		userID, friendID, FriendStatusPending,
	).Scan(&f.UserID, &f.FriendID, &f.Status, &f.CreatedAt)
	if err != nil {
		return Friend{}, fmt.Errorf("create friend request: %w", err)
	}
	return f, nil
}

// AcceptFriendRequest flips the pending row sent by friendID to userID.
func (s *Store) AcceptFriendRequest(ctx context.Context, userID, friendID string) (Friend, error) {
	var f Friend
	err := s.pool.QueryRow(ctx,
		`UPDATE friends SET status = $3
		 WHERE user_id = $1 AND friend_id = $2
		 RETURNING user_id, friend_id, status, created_at`,
		friendID, userID, FriendStatusAccepted,
	).Scan(&f.UserID, &f.FriendID, &f.Status, &f.CreatedAt)
	if err != nil {
		return Friend{}, fmt.Errorf("accept friend request: %w", err)
	}
	return f, nil
}

// FriendsOf lists accepted friends joined with their profiles.
func (s *Store) FriendsOf(ctx context.Context, userID string) ([]FriendEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT f.friend_id, u.username, u.avatar_url
		 FROM friends f
		 JOIN users u ON u.id = f.friend_id
		 WHERE f.user_id = $1 AND f.status = $2`,
		userID, FriendStatusAccepted,
	)
	if err != nil {
		return nil, fmt.Errorf("friends of: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, func(rows pgx.Rows) (FriendEntry, error) {
		var e FriendEntry
		err := rows.Scan(&e.FriendID, &e.Username, &e.AvatarURL)
		return e, err
	})
}

// CreateMessage inserts a direct message row.
func (s *Store) CreateMessage(ctx context.Context, senderID, recipientID, content string) (Message, error) {
	var m Message
	err := s.pool.QueryRow(ctx,
		`INSERT INTO messages (id, sender_id, recipient_id, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, sender_id, recipient_id, content, created_at`,
		randx.MessageID(), senderID, recipientID, content,
	).Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.CreatedAt)
	if err != nil {
		return Message{}, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}

// MessagesBetween lists the conversation between two users, oldest first.
func (s *Store) MessagesBetween(ctx context.Context, userID, otherID string) ([]Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, sender_id, recipient_id, content, created_at
		 FROM messages
		 WHERE (sender_id = $1 AND recipient_id = $2)
		    OR (sender_id = $2 AND recipient_id = $1)
		 ORDER BY created_at ASC`,
		userID, otherID,
	)
	if err != nil {
		return nil, fmt.Errorf("messages between: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, func(rows pgx.Rows) (Message, error) {
		var m Message
		err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.CreatedAt)
		return m, err
	})
}

// CreateRoomMessage inserts a shared-room message row.
func (s *Store) CreateRoomMessage(ctx context.Context, senderID, senderEmail, content string) (RoomMessage, error) {
	var m RoomMessage
	err := s.pool.QueryRow(ctx,
		`INSERT INTO room_messages (id, sender_id, sender_email, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, sender_id, sender_email, content, created_at`,
		randx.MessageID(), senderID, senderEmail, content,
	).Scan(&m.ID, &m.SenderID, &m.SenderEmail, &m.Content, &m.CreatedAt)
	if err != nil {
		return RoomMessage{}, fmt.Errorf("create room message: %w", err)
	}
	return m, nil
}

// RoomMessages lists the full room history, oldest first.
func (s *Store) RoomMessages(ctx context.Context) ([]RoomMessage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, sender_id, sender_email, content, created_at
		 FROM room_messages
		 ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("room messages: %w", err)
	}
	defer rows.Close()

	return scanRows(rows, func(rows pgx.Rows) (RoomMessage, error) {
		var m RoomMessage
		err := rows.Scan(&m.ID, &m.SenderID, &m.SenderEmail, &m.Content, &m.CreatedAt)
		return m, err
	})
}

// scanRows collects every row through the given scan function.
func scanRows[T any](rows pgx.Rows, scan func(pgx.Rows) (T, error)) ([]T, error) {
	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
