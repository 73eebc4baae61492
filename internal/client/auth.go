package client

import (
	"context"
	"net/http"

	"github.com/aizatop/alive/internal/pkg/errs"
	"github.com/aizatop/alive/internal/pkg/logx"
)

// SignUp creates a new identity and its profile row. The profile insert is
// a separate write after the identity exists: when it fails, the identity
// stays behind and the error is returned, matching the service's two-step
// registration model. The session is kept either way.
func (c *Client) SignUp(ctx context.Context, email, password, username, country string) (*Session, *errs.CustomError) {
	var session Session
	customErr := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    email,
		"password": password,
	}, &session)
	if customErr != nil {
		return nil, customErr
	}

	c.setSession(&session)

	if _, customErr := c.CreateProfile(ctx, username, country); customErr != nil {
		logx.Warn("Profile insert failed after registration; identity left in place",
			"user_id", session.User.ID, "code", customErr.Code)
		return nil, customErr
	}

	return &session, nil
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, *errs.CustomError) {
	var session Session
	customErr := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &session)
	if customErr != nil {
		return nil, customErr
	}

	c.setSession(&session)
	return &session, nil
}

// SignOut ends the session. The local session is cleared even when the
// service call fails, and calling it while signed out is a no-op, so the
// operation is idempotent.
func (c *Client) SignOut(ctx context.Context) *errs.CustomError {
	if c.Session() == nil {
		return nil
	}

	if customErr := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); customErr != nil {
		logx.Warn("Sign-out call failed; clearing local session anyway", "code", customErr.Code)
	}

	c.setSession(nil)
	return nil
}

// CurrentUser returns the identity behind the active session, or nil when
// there is none. It never fails the caller: a dead session, a network
// problem, or a rejected token all read as "nobody is signed in".
func (c *Client) CurrentUser(ctx context.Context) *User {
	if c.token() == "" {
		return nil
	}

	var payload struct {
		User User `json:"user"`
	}
	if customErr := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &payload); customErr != nil {
		return nil
	}

	return &payload.User
}
