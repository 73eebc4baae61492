package authflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aizatop/alive/internal/client"
	"github.com/aizatop/alive/internal/pkg/errs"
)

// fakeAuth scripts the backend facade.
type fakeAuth struct {
	mu          sync.Mutex
	signInCalls int
	signUpCalls int
	gotCountry  string
	signInErr   *errs.CustomError
	signUpErr   *errs.CustomError
	block       chan struct{} // when set, SignIn parks until closed
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (*client.Session, *errs.CustomError) {
	f.mu.Lock()
	f.signInCalls++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &client.Session{Token: "t", User: client.User{ID: "u1", Email: email}}, nil
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password, username, country string) (*client.Session, *errs.CustomError) {
	f.mu.Lock()
	f.signUpCalls++
	f.gotCountry = country
	f.mu.Unlock()

	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &client.Session{Token: "t", User: client.User{ID: "u1", Email: email}}, nil
}

func (f *fakeAuth) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signInCalls, f.signUpCalls
}

func fillLogin(f *Flow, email, password string) {
	f.SetEmail(email)
	f.SetPassword(password)
}

func fillRegister(f *Flow, email, password, confirm, username string) {
	f.SwitchMode(ModeRegister)
	f.SetEmail(email)
	f.SetPassword(password)
	f.SetConfirmPassword(confirm)
	f.SetUsername(username)
}

func TestLoginValidationOrder(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     string
	}{
		{"all empty", "", "", errorPrefix + msgFillAllFields},
		{"missing password", "a@b.c", "", errorPrefix + msgFillAllFields},
		{"missing email", "", "password123", errorPrefix + msgFillAllFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{}
			f := NewFlow(auth, nil)
			fillLogin(f, tt.email, tt.password)

			f.Submit(context.Background())

			if got := f.State().ErrorText; got != tt.want {
				t.Fatalf("expected error %q, got %q", tt.want, got)
			}
			if in, _ := auth.calls(); in != 0 {
				t.Fatal("validation failures must not reach the network")
			}
		})
	}
}

// Login applies no format checks; the credentials go to the backend as
// typed and the rejection maps to the friendly message.
func TestLoginShortPasswordReachesBackend(t *testing.T) {
	auth := &fakeAuth{signInErr: errs.NewError(errs.ErrInvalidCredentials)}
	f := NewFlow(auth, nil)
	fillLogin(f, "user@example.com", "short")

	f.Submit(context.Background())

	if in, _ := auth.calls(); in != 1 {
		t.Fatalf("expected 1 SignIn call, got %d", in)
	}
	if got := f.State().ErrorText; got != errorPrefix+msgInvalidCredentials {
		t.Fatalf("expected %q, got %q", errorPrefix+msgInvalidCredentials, got)
	}
}

func TestRegisterValidationOrder(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		confirm  string
		username string
		want     string
	}{
		{"missing username", "a@b.c", "password123", "password123", "", errorPrefix + msgFillRequiredFields},
		{"short username", "a@b.c", "password123", "password123", "ab", errorPrefix + msgUsernameTooShort},
		{"bad email", "nope", "password123", "password123", "abc", errorPrefix + msgInvalidEmail},
		{"short password", "a@b.c", "short", "short", "abc", errorPrefix + msgPasswordTooShort},
		{"mismatch", "a@b.c", "password123", "password124", "abc", errorPrefix + msgPasswordsDiffer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{}
			f := NewFlow(auth, nil)
			fillRegister(f, tt.email, tt.password, tt.confirm, tt.username)

			f.Submit(context.Background())

			if got := f.State().ErrorText; got != tt.want {
				t.Fatalf("expected error %q, got %q", tt.want, got)
			}
			if _, up := auth.calls(); up != 0 {
				t.Fatal("validation failures must not reach the network")
			}
		})
	}
}

func TestLoginSuccessRedirectsAfterDelay(t *testing.T) {
	auth := &fakeAuth{}

	navigated := make(chan string, 1)
	f := NewFlow(auth, func(path string) { navigated <- path })
	f.redirectDelay = 10 * time.Millisecond
	fillLogin(f, "a@b.c", "password123")

	f.Submit(context.Background())

	state := f.State()
	if state.SuccessText != msgLoginSucceeded {
		t.Fatalf("expected success text, got %q / error %q", state.SuccessText, state.ErrorText)
	}

	select {
	case navigated := <-navigated:
		if navigated != HomePath {
			t.Fatalf("expected redirect to %q, got %q", HomePath, navigated)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the redirect")
	}
}

func TestLoginFailureShowsFriendlyMessage(t *testing.T) {
	auth := &fakeAuth{signInErr: errs.NewError(errs.ErrInvalidCredentials)}
	f := NewFlow(auth, nil)
	fillLogin(f, "a@b.c", "password123")

	f.Submit(context.Background())

	state := f.State()
	if state.ErrorText != errorPrefix+msgInvalidCredentials {
		t.Fatalf("expected %q, got %q", errorPrefix+msgInvalidCredentials, state.ErrorText)
	}
	if state.Submitting {
		t.Fatal("flow must leave the submitting state after a failure")
	}
}

func TestRegisterDuplicateEmailMessage(t *testing.T) {
	auth := &fakeAuth{signUpErr: errs.NewError(errs.ErrEmailAlreadyRegistered)}
	f := NewFlow(auth, nil)
	fillRegister(f, "a@b.c", "password123", "password123", "abc")

	f.Submit(context.Background())

	if got := f.State().ErrorText; got != errorPrefix+msgEmailTaken {
		t.Fatalf("expected %q, got %q", errorPrefix+msgEmailTaken, got)
	}
}

func TestRegisterSuccessClearsFieldsAndRevertsToLogin(t *testing.T) {
	auth := &fakeAuth{}
	f := NewFlow(auth, nil)
	f.revertDelay = 10 * time.Millisecond
	fillRegister(f, "a@b.c", "password123", "password123", "abc")
	f.SetCountry("Италия")

	f.Submit(context.Background())

	auth.mu.Lock()
	gotCountry := auth.gotCountry
	auth.mu.Unlock()
	if gotCountry != "Италия" {
		t.Fatalf("expected the country to reach the backend, got %q", gotCountry)
	}

	state := f.State()
	if state.SuccessText != msgRegistrationSucceeded {
		t.Fatalf("expected success text, got %q / error %q", state.SuccessText, state.ErrorText)
	}
	if state.Email != "" || state.Password != "" || state.ConfirmPassword != "" ||
		state.Username != "" || state.Country != "" {
		t.Fatalf("expected cleared form, got %+v", state)
	}

	deadline := time.After(time.Second)
	for f.State().Mode != ModeLogin {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for the flow to revert to login")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if f.State().SuccessText != "" {
		t.Fatal("success text must be cleared when the form reverts")
	}
}

func TestSwitchModeClearsFeedbackButKeepsFields(t *testing.T) {
	auth := &fakeAuth{signInErr: errs.NewError(errs.ErrInvalidCredentials)}
	f := NewFlow(auth, nil)
	fillLogin(f, "a@b.c", "password123")

	f.Submit(context.Background())
	if f.State().ErrorText == "" {
		t.Fatal("expected an error before the switch")
	}

	f.SwitchMode(ModeRegister)

	state := f.State()
	if state.ErrorText != "" || state.SuccessText != "" {
		t.Fatalf("expected cleared feedback, got %+v", state)
	}
	if state.Email != "a@b.c" || state.Password != "password123" {
		t.Fatalf("expected fields to survive the switch, got %+v", state)
	}
}

func TestSubmitIgnoredWhileInFlight(t *testing.T) {
	auth := &fakeAuth{block: make(chan struct{})}
	f := NewFlow(auth, nil)
	fillLogin(f, "a@b.c", "password123")

	done := make(chan struct{})
	go func() {
		f.Submit(context.Background())
		close(done)
	}()

	deadline := time.After(time.Second)
	for !f.State().Submitting {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for the flow to enter the submitting state")
		case <-time.After(time.Millisecond):
		}
	}

	f.Submit(context.Background()) // must be a no-op

	close(auth.block)
	<-done

	if in, _ := auth.calls(); in != 1 {
		t.Fatalf("expected a single sign-in call, got %d", in)
	}
}
