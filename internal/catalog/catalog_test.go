package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/aizatop/alive/internal/client"
	"github.com/aizatop/alive/internal/pkg/errs"
)

type recordedVisit struct {
	country string
	minutes int
}

type fakeBackend struct {
	mu     sync.Mutex
	user   *client.User
	visits []recordedVisit
}

func (f *fakeBackend) CurrentUser(ctx context.Context) *client.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user
}

func (f *fakeBackend) SignOut(ctx context.Context) *errs.CustomError {
	f.mu.Lock()
	f.user = nil
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) RecordVisit(ctx context.Context, country string, durationMinutes int) *errs.CustomError {
	f.mu.Lock()
	f.visits = append(f.visits, recordedVisit{country, durationMinutes})
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) recorded() []recordedVisit {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedVisit(nil), f.visits...)
}

func signedInFlow(t *testing.T) (*Flow, *fakeBackend) {
	t.Helper()

	backend := &fakeBackend{user: &client.User{ID: "u1", Email: "me@example.com"}}
	f := NewFlow(backend)
	f.Load(context.Background())
	return f, backend
}

func TestCatalogContent(t *testing.T) {
	if len(Countries) != 4 {
		t.Fatalf("expected four countries, got %d", len(Countries))
	}

	wantNames := []string{"Япония", "Франция", "Италия", "Соединённое Королевство"}
	for i, want := range wantNames {
		if Countries[i].Name != want {
			t.Errorf("country %d: expected %q, got %q", i, want, Countries[i].Name)
		}
		if len(Countries[i].Attractions) != 5 {
			t.Errorf("country %q: expected five attractions, got %d", want, len(Countries[i].Attractions))
		}
		if Countries[i].VideoURL == "" || Countries[i].ImageURL == "" {
			t.Errorf("country %q: missing media URLs", want)
		}
	}

	if _, ok := CountryByID("japan"); !ok {
		t.Fatal("expected japan to resolve")
	}
	if _, ok := CountryByID("atlantis"); ok {
		t.Fatal("unknown id must not resolve")
	}
}

func TestToggleIsExclusive(t *testing.T) {
	f, _ := signedInFlow(t)

	f.Toggle("japan")
	if got := f.State().ExpandedCountryID; got != "japan" {
		t.Fatalf("expected japan expanded, got %q", got)
	}

	f.Toggle("france")
	if got := f.State().ExpandedCountryID; got != "france" {
		t.Fatalf("expanding a second card must collapse the first, got %q", got)
	}

	f.Toggle("france")
	if got := f.State().ExpandedCountryID; got != "" {
		t.Fatalf("toggling the expanded card must collapse it, got %q", got)
	}

	f.Toggle("atlantis")
	if got := f.State().ExpandedCountryID; got != "" {
		t.Fatalf("unknown ids must be ignored, got %q", got)
	}
}

func TestVideoClickRecordsVisitForSignedInUser(t *testing.T) {
	f, backend := signedInFlow(t)

	f.VideoClick(context.Background(), "japan")

	visits := backend.recorded()
	if len(visits) != 1 {
		t.Fatalf("expected one visit, got %d", len(visits))
	}
	if visits[0].country != "Япония" || visits[0].minutes != VisitDurationMinutes {
		t.Fatalf("unexpected visit %+v", visits[0])
	}
}

func TestVideoClickWithoutSessionRecordsNothing(t *testing.T) {
	backend := &fakeBackend{}
	f := NewFlow(backend)
	f.Load(context.Background())

	f.VideoClick(context.Background(), "japan")

	if got := len(backend.recorded()); got != 0 {
		t.Fatalf("visitors must not produce visit rows, got %d", got)
	}
}

func TestChromeFollowsSession(t *testing.T) {
	backend := &fakeBackend{}
	f := NewFlow(backend)

	if !f.State().Loading {
		t.Fatal("expected the flow to start loading")
	}

	f.Load(context.Background())
	state := f.State()
	if state.Loading {
		t.Fatal("expected loading to finish")
	}
	if state.User != nil {
		t.Fatal("expected a visitor state")
	}

	f.OpenLoginModal()
	if !f.State().LoginModalOpen {
		t.Fatal("visitors must be able to open the login modal")
	}

	// sign-in happens inside the modal, then the screen re-checks
	backend.mu.Lock()
	backend.user = &client.User{ID: "u1", Email: "me@example.com"}
	backend.mu.Unlock()
	f.LoginSucceeded(context.Background())

	state = f.State()
	if state.LoginModalOpen {
		t.Fatal("expected the modal to close after login")
	}
	if state.User == nil {
		t.Fatal("expected the session to be picked up")
	}

	f.OpenLoginModal()
	if f.State().LoginModalOpen {
		t.Fatal("signed-in users have no login modal")
	}
}

func TestSignOutCollapsesExpandedCard(t *testing.T) {
	f, backend := signedInFlow(t)

	f.Toggle("italy")
	f.SignOut(context.Background())

	state := f.State()
	if state.User != nil {
		t.Fatal("expected the session to be cleared")
	}
	if state.ExpandedCountryID != "" {
		t.Fatal("sign-out must collapse the expanded card")
	}
	if backend.CurrentUser(context.Background()) != nil {
		t.Fatal("expected the backend sign-out to run")
	}
}
