/*
Package shell ties the screens together: it resolves paths to pages,
constructs each page's flow on entry, and tears the previous one down.

A panic while activating a page is contained to that navigation; the shell
survives and shows the error page instead.
*/
package shell

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aizatop/alive/internal/catalog"
	"github.com/aizatop/alive/internal/client"
	"github.com/aizatop/alive/internal/flow/authflow"
	"github.com/aizatop/alive/internal/flow/chatflow"
	"github.com/aizatop/alive/internal/pkg/logx"
)

// Page identifies which screen is active.
type Page string

const (
	PageHome     Page = "home"
	PageAuth     Page = "auth"
	PageChat     Page = "chat"
	PageNotFound Page = "not-found"
	PageError    Page = "error"
)

// User-facing texts of the terminal pages.
const (
	NotFoundTitle = "404"
	NotFoundText  = "Страница не найдена"
	ErrorText     = "Что-то пошло не так"
)

// AuthPath is where the chat guard sends visitors.
const AuthPath = "/auth"

// Backend is everything the screens collectively need. *client.Client
// satisfies it.
type Backend interface {
	authflow.Authenticator
	catalog.Backend
	chatflow.Backend
}

var _ Backend = (*client.Client)(nil)

// Resolve maps a path to its page. Unknown paths land on the 404 page.
func Resolve(path string) Page {
	switch path {
	case "/", "/home":
		return PageHome
	case "/auth":
		return PageAuth
	case "/chat":
		return PageChat
	default:
		return PageNotFound
	}
}

// Shell is the navigation root. Safe for concurrent use.
type Shell struct {
	mu      sync.Mutex
	backend Backend

	path string
	page Page

	home *catalog.Flow
	auth *authflow.Flow
	chat *chatflow.Flow
}

// New builds a shell with no active page; call Navigate to enter one.
func New(backend Backend) *Shell {
	return &Shell{backend: backend}
}

// Navigate activates the page behind the path and returns it. Entering
// the chat without a session lands on the auth page instead.
func (s *Shell) Navigate(ctx context.Context, path string) Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigateLocked(ctx, path)
}

func (s *Shell) navigateLocked(ctx context.Context, path string) (page Page) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error(fmt.Errorf("page activation panicked: %v", r), "Recovered from page panic", "path", path)
			s.closeChatLocked()
			s.path = path
			s.page = PageError
			page = PageError
		}
	}()

	s.closeChatLocked()

	target := Resolve(path)
	switch target {
	case PageHome:
		s.home = catalog.NewFlow(s.backend)
		s.home.Load(ctx)
	case PageAuth:
		s.auth = authflow.NewFlow(s.backend, func(next string) {
			s.Navigate(context.Background(), next)
		})
	case PageChat:
		chat := chatflow.NewFlow(s.backend, nil)
		if err := chat.Load(ctx); errors.Is(err, chatflow.ErrUnauthenticated) {
			return s.navigateLocked(ctx, AuthPath)
		}
		s.chat = chat
	}

	s.path = path
	s.page = target
	return target
}

// closeChatLocked detaches the chat flow when leaving the chat page, so
// its subscription does not outlive the screen.
func (s *Shell) closeChatLocked() {
	if s.chat != nil {
		s.chat.Close()
		s.chat = nil
	}
}

// CurrentPage returns the active page.
func (s *Shell) CurrentPage() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Path returns the path of the active page.
func (s *Shell) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Home returns the active home flow, or nil.
func (s *Shell) Home() *catalog.Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.home
}

// Auth returns the active auth flow, or nil.
func (s *Shell) Auth() *authflow.Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth
}

// Chat returns the active chat flow, or nil.
func (s *Shell) Chat() *chatflow.Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat
}
