package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/aizatop/alive/internal/app/realtime"
	"github.com/aizatop/alive/internal/app/store"
	"github.com/aizatop/alive/internal/configs"
	"github.com/aizatop/alive/internal/pkg/randx"
	"github.com/aizatop/alive/internal/pkg/resp"
)

const testAnonKey = "test-anon-key"

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	mu         sync.Mutex
	identities map[string]store.Identity // keyed by email
	profiles   map[string]store.Profile
	visits     []store.Visit
	friends    map[string]store.Friend // keyed by user_id+friend_id
	messages   []store.Message
	room       []store.RoomMessage
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		identities: make(map[string]store.Identity),
		profiles:   make(map[string]store.Profile),
		friends:    make(map[string]store.Friend),
	}
}

func (f *fakeStore) CreateIdentity(_ context.Context, email, passwordHash string) (store.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.identities[email]; ok {
		return store.Identity{}, &pgconn.PgError{Code: "23505"}
	}
	ident := store.Identity{ID: randx.MessageID(), Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	f.identities[email] = ident
	return ident, nil
}

func (f *fakeStore) IdentityByEmail(_ context.Context, email string) (store.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ident, ok := f.identities[email]
	if !ok {
		return store.Identity{}, pgx.ErrNoRows
	}
	return ident, nil
}

func (f *fakeStore) IdentityByID(_ context.Context, id string) (store.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ident := range f.identities {
		if ident.ID == id {
			return ident, nil
		}
	}
	return store.Identity{}, pgx.ErrNoRows
}

func (f *fakeStore) CreateProfile(_ context.Context, id, email, username, country string) (store.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := store.Profile{ID: id, Email: email, Username: username, Country: country, CreatedAt: time.Now()}
	f.profiles[id] = p
	return p, nil
}

func (f *fakeStore) ProfileByID(_ context.Context, id string) (store.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return store.Profile{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, id string, patch store.ProfilePatch) (store.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return store.Profile{}, pgx.ErrNoRows
	}
	if patch.Username != nil {
		p.Username = *patch.Username
	}
	if patch.Country != nil {
		p.Country = *patch.Country
	}
	if patch.AvatarURL != nil {
		p.AvatarURL = *patch.AvatarURL
	}
	f.profiles[id] = p
	return p, nil
}

func (f *fakeStore) CreateVisit(_ context.Context, userID, country string, durationMinutes int) (store.Visit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := store.Visit{ID: randx.MessageID(), UserID: userID, Country: country, DurationMinutes: durationMinutes, VisitedAt: time.Now()}
	f.visits = append(f.visits, v)
	return v, nil
}

func (f *fakeStore) VisitsByUser(_ context.Context, userID string) ([]store.Visit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.Visit
	for i := len(f.visits) - 1; i >= 0; i-- {
		if f.visits[i].UserID == userID {
			out = append(out, f.visits[i])
		}
	}
	return out, nil
}

func (f *fakeStore) CreateFriendRequest(_ context.Context, userID, friendID string) (store.Friend, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := userID + "|" + friendID
	if _, ok := f.friends[key]; ok {
		return store.Friend{}, &pgconn.PgError{Code: "23505"}
	}
	fr := store.Friend{UserID: userID, FriendID: friendID, Status: store.FriendStatusPending, CreatedAt: time.Now()}
	f.friends[key] = fr
	return fr, nil
}

func (f *fakeStore) AcceptFriendRequest(_ context.Context, userID, friendID string) (store.Friend, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := friendID + "|" + userID
	fr, ok := f.friends[key]
	if !ok {
		return store.Friend{}, pgx.ErrNoRows
	}
	fr.Status = store.FriendStatusAccepted
	f.friends[key] = fr
	return fr, nil
}

func (f *fakeStore) FriendsOf(_ context.Context, userID string) ([]store.FriendEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.FriendEntry
	for _, fr := range f.friends {
		if fr.UserID == userID && fr.Status == store.FriendStatusAccepted {
			entry := store.FriendEntry{FriendID: fr.FriendID}
			if p, ok := f.profiles[fr.FriendID]; ok {
				entry.Username = p.Username
				entry.AvatarURL = p.AvatarURL
			}
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateMessage(_ context.Context, senderID, recipientID, content string) (store.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := store.Message{ID: randx.MessageID(), SenderID: senderID, RecipientID: recipientID, Content: content, CreatedAt: time.Now()}
	f.messages = append(f.messages, m)
	return m, nil
}

func (f *fakeStore) MessagesBetween(_ context.Context, userID, otherID string) ([]store.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.Message
	for _, m := range f.messages {
		if (m.SenderID == userID && m.RecipientID == otherID) || (m.SenderID == otherID && m.RecipientID == userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateRoomMessage(_ context.Context, senderID, senderEmail, content string) (store.RoomMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := store.RoomMessage{ID: randx.MessageID(), SenderID: senderID, SenderEmail: senderEmail, Content: content, CreatedAt: time.Now()}
	f.room = append(f.room, m)
	return m, nil
}

func (f *fakeStore) RoomMessages(_ context.Context) ([]store.RoomMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.RoomMessage(nil), f.room...), nil
}

// fakeFeed records published insert events.
type fakeFeed struct {
	mu     sync.Mutex
	events []realtime.InsertEvent
}

func (f *fakeFeed) Publish(ev realtime.InsertEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeFeed) published(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ev := range f.events {
		if ev.Table == table {
			n++
		}
	}
	return n
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeStore, *fakeFeed) {
	t.Helper()

	cfg := &configs.ServerConfig{
		Environment: "development",
		Port:        8080,
		JWTSecret:   "test-secret",
		AnonKey:     testAnonKey,
	}

	db := newFakeStore()
	feed := &fakeFeed{}
	hub := realtime.NewHub()
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	deps := &AppDeps{Config: cfg, DB: db, Hub: hub, Feed: feed}
	ts := httptest.NewServer(Router(deps))
	t.Cleanup(ts.Close)

	return ts, db, feed
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body any) resp.JSONResponse {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", testAnonKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	var envelope resp.JSONResponse
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope
}

func registerUser(t *testing.T, ts *httptest.Server, email string) (token, id string) {
	t.Helper()

	envelope := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "abcdefgh",
	})
	if envelope.Code != 0 {
		t.Fatalf("register failed: %+v", envelope)
	}

	data := envelope.Data.(map[string]any)
	token = data["token"].(string)
	id = data["user"].(map[string]any)["id"].(string)
	return token, id
}

func TestRegisterLoginAndMe(t *testing.T) {
	ts, db, _ := newTestServer(t)

	token, id := registerUser(t, ts, "user@example.com")
	if token == "" || id == "" {
		t.Fatal("expected token and id from registration")
	}

	// stored hash must verify against the original password
	ident := db.identities["user@example.com"]
	if err := bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte("abcdefgh")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	envelope := doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "user@example.com",
		"password": "abcdefgh",
	})
	if envelope.Code != 0 {
		t.Fatalf("login failed: %+v", envelope)
	}

	envelope = doJSON(t, ts, http.MethodGet, "/api/auth/me", token, nil)
	if envelope.Code != 0 {
		t.Fatalf("me failed: %+v", envelope)
	}
	user := envelope.Data.(map[string]any)["user"].(map[string]any)
	if user["email"] != "user@example.com" {
		t.Fatalf("unexpected me payload: %v", user)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts, _, _ := newTestServer(t)

	registerUser(t, ts, "dup@example.com")

	envelope := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "dup@example.com",
		"password": "abcdefgh",
	})
	if envelope.Code != 3002 {
		t.Fatalf("expected already-registered code 3002, got %+v", envelope)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	ts, _, _ := newTestServer(t)

	envelope := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "short@example.com",
		"password": "short",
	})
	if envelope.Code != 3004 {
		t.Fatalf("expected invalid-password code 3004, got %+v", envelope)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts, _, _ := newTestServer(t)

	registerUser(t, ts, "user@example.com")

	envelope := doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "user@example.com",
		"password": "wrong-password",
	})
	if envelope.Code != 3001 {
		t.Fatalf("expected invalid-credentials code 3001, got %+v", envelope)
	}
	if envelope.Message != "Invalid login credentials" {
		t.Fatalf("unexpected message %q", envelope.Message)
	}
}

func TestMissingAPIKeyRejected(t *testing.T) {
	ts, _, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/room/messages", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
}

func TestRoomMessageFlow(t *testing.T) {
	ts, _, feed := newTestServer(t)

	token, id := registerUser(t, ts, "chatter@example.com")

	envelope := doJSON(t, ts, http.MethodPost, "/api/room/messages", token, map[string]string{
		"content": "  hello room  ",
	})
	if envelope.Code != 0 {
		t.Fatalf("send room message failed: %+v", envelope)
	}

	message := envelope.Data.(map[string]any)["message"].(map[string]any)
	if message["content"] != "hello room" {
		t.Fatalf("expected trimmed content, got %q", message["content"])
	}
	if message["sender_id"] != id {
		t.Fatalf("unexpected sender id %v", message["sender_id"])
	}

	if feed.published("room_messages") != 1 {
		t.Fatal("expected one room_messages insert event on the feed")
	}

	envelope = doJSON(t, ts, http.MethodGet, "/api/room/messages", token, nil)
	if envelope.Code != 0 {
		t.Fatalf("list room messages failed: %+v", envelope)
	}
	messages := envelope.Data.(map[string]any)["messages"].([]any)
	if len(messages) != 1 {
		t.Fatalf("expected one message, got %d", len(messages))
	}
}

func TestRoomMessageRequiresIdentity(t *testing.T) {
	ts, _, _ := newTestServer(t)

	envelope := doJSON(t, ts, http.MethodPost, "/api/room/messages", "", map[string]string{
		"content": "anonymous shout",
	})
	if envelope.Code != 3005 {
		t.Fatalf("expected unauthorized code 3005, got %+v", envelope)
	}
}

func TestRoomMessageRejectsEmptyAndTooLong(t *testing.T) {
	ts, _, _ := newTestServer(t)

	token, _ := registerUser(t, ts, "chatter@example.com")

	envelope := doJSON(t, ts, http.MethodPost, "/api/room/messages", token, map[string]string{
		"content": "   ",
	})
	if envelope.Code != 2202 {
		t.Fatalf("expected empty-message code 2202, got %+v", envelope)
	}

	long := make([]byte, MaxMessageLength+1)
	for i := range long {
		long[i] = 'a'
	}
	envelope = doJSON(t, ts, http.MethodPost, "/api/room/messages", token, map[string]string{
		"content": string(long),
	})
	if envelope.Code != 2201 {
		t.Fatalf("expected too-long code 2201, got %+v", envelope)
	}
}

func TestProfileLifecycle(t *testing.T) {
	ts, _, _ := newTestServer(t)

	token, id := registerUser(t, ts, "profile@example.com")

	envelope := doJSON(t, ts, http.MethodPost, "/api/users/", token, map[string]string{
		"username": "traveler",
		"country":  "Italy",
	})
	if envelope.Code != 0 {
		t.Fatalf("create profile failed: %+v", envelope)
	}

	envelope = doJSON(t, ts, http.MethodGet, fmt.Sprintf("/api/users/%s", id), token, nil)
	if envelope.Code != 0 {
		t.Fatalf("get profile failed: %+v", envelope)
	}
	profile := envelope.Data.(map[string]any)["profile"].(map[string]any)
	if profile["username"] != "traveler" || profile["country"] != "Italy" {
		t.Fatalf("unexpected profile %v", profile)
	}

	envelope = doJSON(t, ts, http.MethodPatch, fmt.Sprintf("/api/users/%s", id), token, map[string]string{
		"country": "Japan",
	})
	if envelope.Code != 0 {
		t.Fatalf("update profile failed: %+v", envelope)
	}
	profile = envelope.Data.(map[string]any)["profile"].(map[string]any)
	if profile["country"] != "Japan" || profile["username"] != "traveler" {
		t.Fatalf("patch should keep unset fields, got %v", profile)
	}
}

func TestFriendRequestFlow(t *testing.T) {
	ts, _, feed := newTestServer(t)

	aliceToken, _ := registerUser(t, ts, "alice@example.com")
	bobToken, bobID := registerUser(t, ts, "bob@example.com")

	envelope := doJSON(t, ts, http.MethodPost, "/api/friends/request", aliceToken, map[string]string{
		"friendId": bobID,
	})
	if envelope.Code != 0 {
		t.Fatalf("send friend request failed: %+v", envelope)
	}
	if feed.published("friends") != 1 {
		t.Fatal("expected a friends insert event on the feed")
	}

	// duplicate request for the same pair
	envelope = doJSON(t, ts, http.MethodPost, "/api/friends/request", aliceToken, map[string]string{
		"friendId": bobID,
	})
	if envelope.Code != 2401 {
		t.Fatalf("expected duplicate-request code 2401, got %+v", envelope)
	}

	// bob accepts alice's request
	envelope = doJSON(t, ts, http.MethodPost, "/api/friends/accept", bobToken, map[string]string{
		"friendId": mustOtherID(t, ts, aliceToken),
	})
	if envelope.Code != 0 {
		t.Fatalf("accept friend request failed: %+v", envelope)
	}
	friend := envelope.Data.(map[string]any)["friend"].(map[string]any)
	if friend["status"] != store.FriendStatusAccepted {
		t.Fatalf("expected accepted status, got %v", friend["status"])
	}
}

// mustOtherID resolves the id behind a token via the me endpoint.
func mustOtherID(t *testing.T, ts *httptest.Server, token string) string {
	t.Helper()

	envelope := doJSON(t, ts, http.MethodGet, "/api/auth/me", token, nil)
	if envelope.Code != 0 {
		t.Fatalf("me failed: %+v", envelope)
	}
	return envelope.Data.(map[string]any)["user"].(map[string]any)["id"].(string)
}

func TestDirectMessageFlow(t *testing.T) {
	ts, _, feed := newTestServer(t)

	aliceToken, aliceID := registerUser(t, ts, "alice@example.com")
	_, bobID := registerUser(t, ts, "bob@example.com")

	envelope := doJSON(t, ts, http.MethodPost, "/api/messages/", aliceToken, map[string]string{
		"recipientId": bobID,
		"content":     "hi bob",
	})
	if envelope.Code != 0 {
		t.Fatalf("send message failed: %+v", envelope)
	}
	if feed.published("messages") != 1 {
		t.Fatal("expected a messages insert event on the feed")
	}

	envelope = doJSON(t, ts, http.MethodGet, "/api/messages/?with="+bobID, aliceToken, nil)
	if envelope.Code != 0 {
		t.Fatalf("list messages failed: %+v", envelope)
	}
	messages := envelope.Data.(map[string]any)["messages"].([]any)
	if len(messages) != 1 {
		t.Fatalf("expected one message, got %d", len(messages))
	}
	first := messages[0].(map[string]any)
	if first["sender_id"] != aliceID || first["content"] != "hi bob" {
		t.Fatalf("unexpected message %v", first)
	}
}

func TestVisitRecordingAndListing(t *testing.T) {
	ts, _, feed := newTestServer(t)

	token, _ := registerUser(t, ts, "visitor@example.com")

	envelope := doJSON(t, ts, http.MethodPost, "/api/visits/", token, map[string]any{
		"country":         "Япония",
		"durationMinutes": 30,
	})
	if envelope.Code != 0 {
		t.Fatalf("record visit failed: %+v", envelope)
	}
	if feed.published("visits") != 1 {
		t.Fatal("expected a visits insert event on the feed")
	}

	envelope = doJSON(t, ts, http.MethodGet, "/api/visits/", token, nil)
	if envelope.Code != 0 {
		t.Fatalf("list visits failed: %+v", envelope)
	}
	visits := envelope.Data.(map[string]any)["visits"].([]any)
	if len(visits) != 1 {
		t.Fatalf("expected one visit, got %d", len(visits))
	}
}
