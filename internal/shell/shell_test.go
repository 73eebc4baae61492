package shell

import (
	"context"
	"testing"

	"github.com/aizatop/alive/internal/client"
	"github.com/aizatop/alive/internal/pkg/errs"
)

// fakeBackend satisfies the full screen surface with canned data.
type fakeBackend struct {
	user         *client.User
	panicCurrent bool
	roomMessages []client.RoomMessage
}

func (f *fakeBackend) SignIn(ctx context.Context, email, password string) (*client.Session, *errs.CustomError) {
	return &client.Session{Token: "t", User: client.User{ID: "u1", Email: email}}, nil
}

func (f *fakeBackend) SignUp(ctx context.Context, email, password, username, country string) (*client.Session, *errs.CustomError) {
	return &client.Session{Token: "t", User: client.User{ID: "u1", Email: email}}, nil
}

func (f *fakeBackend) CurrentUser(ctx context.Context) *client.User {
	if f.panicCurrent {
		panic("session store corrupted")
	}
	return f.user
}

func (f *fakeBackend) SignOut(ctx context.Context) *errs.CustomError {
	f.user = nil
	return nil
}

func (f *fakeBackend) RecordVisit(ctx context.Context, country string, durationMinutes int) *errs.CustomError {
	return nil
}

func (f *fakeBackend) RoomMessages(ctx context.Context) ([]client.RoomMessage, *errs.CustomError) {
	return f.roomMessages, nil
}

func (f *fakeBackend) SendRoomMessage(ctx context.Context, content string) (*client.RoomMessage, *errs.CustomError) {
	return &client.RoomMessage{ID: "m1", SenderID: "u1", Content: content}, nil
}

func (f *fakeBackend) SubscribeToRoomMessages(handler func(client.RoomMessage)) (*client.Subscription, *errs.CustomError) {
	return &client.Subscription{}, nil
}

func TestResolve(t *testing.T) {
	tests := []struct {
		path string
		want Page
	}{
		{"/", PageHome},
		{"/home", PageHome},
		{"/auth", PageAuth},
		{"/chat", PageChat},
		{"/404", PageNotFound},
		{"/definitely/not/a/page", PageNotFound},
	}

	for _, tt := range tests {
		if got := Resolve(tt.path); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestNavigateHome(t *testing.T) {
	s := New(&fakeBackend{})

	if got := s.Navigate(context.Background(), "/"); got != PageHome {
		t.Fatalf("expected home page, got %q", got)
	}
	if s.Home() == nil {
		t.Fatal("expected a home flow")
	}
	if s.Home().State().Loading {
		t.Fatal("expected the home flow to be loaded")
	}
}

func TestChatGuardRedirectsVisitors(t *testing.T) {
	s := New(&fakeBackend{})

	if got := s.Navigate(context.Background(), "/chat"); got != PageAuth {
		t.Fatalf("expected redirect to the auth page, got %q", got)
	}
	if s.Path() != AuthPath {
		t.Fatalf("expected path %q, got %q", AuthPath, s.Path())
	}
	if s.Chat() != nil {
		t.Fatal("no chat flow must survive the redirect")
	}
	if s.Auth() == nil {
		t.Fatal("expected an auth flow")
	}
}

func TestChatOpensForSignedInUser(t *testing.T) {
	backend := &fakeBackend{
		user: &client.User{ID: "u1", Email: "me@example.com"},
		roomMessages: []client.RoomMessage{
			{ID: "m1", SenderID: "u2", SenderEmail: "other@example.com", Content: "привет"},
		},
	}
	s := New(backend)

	if got := s.Navigate(context.Background(), "/chat"); got != PageChat {
		t.Fatalf("expected chat page, got %q", got)
	}

	chat := s.Chat()
	if chat == nil {
		t.Fatal("expected a chat flow")
	}
	if got := len(chat.State().Messages); got != 1 {
		t.Fatalf("expected the history to be loaded, got %d messages", got)
	}

	// leaving the chat tears the flow down
	s.Navigate(context.Background(), "/home")
	if s.Chat() != nil {
		t.Fatal("expected the chat flow to be closed on leave")
	}
}

func TestPanicDuringActivationIsContained(t *testing.T) {
	backend := &fakeBackend{panicCurrent: true}
	s := New(backend)

	if got := s.Navigate(context.Background(), "/"); got != PageError {
		t.Fatalf("expected the error page, got %q", got)
	}

	// the shell survives and can navigate on
	backend.panicCurrent = false
	if got := s.Navigate(context.Background(), "/auth"); got != PageAuth {
		t.Fatalf("expected the auth page after recovery, got %q", got)
	}
}

func TestUnknownPathShows404(t *testing.T) {
	s := New(&fakeBackend{})

	if got := s.Navigate(context.Background(), "/nope"); got != PageNotFound {
		t.Fatalf("expected the 404 page, got %q", got)
	}
}
