package handler

import (
	"context"

	"github.com/aizatop/alive/internal/app/realtime"
	"github.com/aizatop/alive/internal/app/storage"
	"github.com/aizatop/alive/internal/app/store"
	"github.com/aizatop/alive/internal/configs"
)

// Store is the slice of the data layer the handlers use. *store.Store
// satisfies it; tests substitute fakes.
type Store interface {
	CreateIdentity(ctx context.Context, email, passwordHash string) (store.Identity, error)
	IdentityByEmail(ctx context.Context, email string) (store.Identity, error)
	IdentityByID(ctx context.Context, id string) (store.Identity, error)

	CreateProfile(ctx context.Context, id, email, username, country string) (store.Profile, error)
	ProfileByID(ctx context.Context, id string) (store.Profile, error)
	UpdateProfile(ctx context.Context, id string, patch store.ProfilePatch) (store.Profile, error)

	CreateVisit(ctx context.Context, userID, country string, durationMinutes int) (store.Visit, error)
	VisitsByUser(ctx context.Context, userID string) ([]store.Visit, error)

	CreateFriendRequest(ctx context.Context, userID, friendID string) (store.Friend, error)
	AcceptFriendRequest(ctx context.Context, userID, friendID string) (store.Friend, error)
	FriendsOf(ctx context.Context, userID string) ([]store.FriendEntry, error)

	CreateMessage(ctx context.Context, senderID, recipientID, content string) (store.Message, error)
	MessagesBetween(ctx context.Context, userID, otherID string) ([]store.Message, error)

	CreateRoomMessage(ctx context.Context, senderID, senderEmail, content string) (store.RoomMessage, error)
	RoomMessages(ctx context.Context) ([]store.RoomMessage, error)
}

// isUniqueViolation reports whether the data layer rejected a duplicate row.
func isUniqueViolation(err error) bool {
	return store.IsUniqueViolation(err)
}

// isNotFound reports whether the queried row does not exist.
func isNotFound(err error) bool {
	return store.IsNotFound(err)
}

// AppDeps bundles everything the handlers need.
type AppDeps struct {
	Config  *configs.ServerConfig
	DB      Store
	Hub     *realtime.Hub
	Feed    realtime.Feed
	Storage storage.StorageService
}
