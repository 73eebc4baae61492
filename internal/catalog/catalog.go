/*
Package catalog implements the home screen: the static country catalog and
the surrounding auth-dependent chrome.

Visitors see the hero banner, the call-to-action block, and the login
modal; a signed-in user sees the header instead. The cards themselves are
the same for everybody.
*/
package catalog

import (
	"context"
	"sync"

	"github.com/aizatop/alive/internal/client"
	"github.com/aizatop/alive/internal/pkg/errs"
)

// VisitDurationMinutes is the duration recorded for every video view.
const VisitDurationMinutes = 30

// Backend is the slice of the backend facade the screen needs.
type Backend interface {
	CurrentUser(ctx context.Context) *client.User
	SignOut(ctx context.Context) *errs.CustomError
	RecordVisit(ctx context.Context, country string, durationMinutes int) *errs.CustomError
}

// State is a render-ready snapshot of the home screen.
type State struct {
	Loading bool

	// User is nil for visitors. It decides which chrome renders: header
	// for users, hero plus call-to-action plus login modal for visitors.
	User *client.User

	// ExpandedCountryID is the single expanded card, or "".
	ExpandedCountryID string

	LoginModalOpen bool

	Countries []Country
}

// Flow drives the home screen. Safe for concurrent use.
type Flow struct {
	mu      sync.Mutex
	backend Backend

	loading   bool
	user      *client.User
	expanded  string
	modalOpen bool
}

// NewFlow builds an unloaded home screen flow.
func NewFlow(backend Backend) *Flow {
	return &Flow{backend: backend, loading: true}
}

// Load resolves the session. The screen works either way; the result only
// selects the chrome.
func (f *Flow) Load(ctx context.Context) {
	user := f.backend.CurrentUser(ctx)

	f.mu.Lock()
	f.user = user
	f.loading = false
	f.mu.Unlock()
}

// State returns a snapshot of the current screen state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{
		Loading:           f.loading,
		User:              f.user,
		ExpandedCountryID: f.expanded,
		LoginModalOpen:    f.modalOpen,
		Countries:         Countries,
	}
}

// Toggle expands the given card, collapsing whichever was open. Toggling
// the expanded card collapses it. Unknown ids are ignored.
func (f *Flow) Toggle(countryID string) {
	if _, ok := CountryByID(countryID); !ok {
		return
	}

	f.mu.Lock()
	if f.expanded == countryID {
		f.expanded = ""
	} else {
		f.expanded = countryID
	}
	f.mu.Unlock()
}

// VideoClick records a visit for the clicked country's video. The video
// opens regardless of the session; the telemetry row is only written for
// signed-in users, and a failed write never surfaces.
func (f *Flow) VideoClick(ctx context.Context, countryID string) {
	country, ok := CountryByID(countryID)
	if !ok {
		return
	}

	f.mu.Lock()
	signedIn := f.user != nil
	f.mu.Unlock()

	if !signedIn {
		return
	}

	f.backend.RecordVisit(ctx, country.Name, VisitDurationMinutes)
}

// OpenLoginModal shows the login modal. Signed-in users have no modal.
func (f *Flow) OpenLoginModal() {
	f.mu.Lock()
	if f.user == nil {
		f.modalOpen = true
	}
	f.mu.Unlock()
}

// CloseLoginModal hides the login modal.
func (f *Flow) CloseLoginModal() {
	f.mu.Lock()
	f.modalOpen = false
	f.mu.Unlock()
}

// LoginSucceeded closes the modal and re-resolves the session.
func (f *Flow) LoginSucceeded(ctx context.Context) {
	f.mu.Lock()
	f.modalOpen = false
	f.mu.Unlock()

	user := f.backend.CurrentUser(ctx)

	f.mu.Lock()
	f.user = user
	f.mu.Unlock()
}

// SignOut ends the session and collapses any expanded card.
func (f *Flow) SignOut(ctx context.Context) {
	f.backend.SignOut(ctx)

	f.mu.Lock()
	f.user = nil
	f.expanded = ""
	f.mu.Unlock()
}
