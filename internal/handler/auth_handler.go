/*
Package handler provides the HTTP handlers and routing setup for the Alive server.

This file covers the identity operations: register, login, logout, and
current-identity lookup.
*/
package handler

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/aizatop/alive/internal/pkg/auth/jwt"
	"github.com/aizatop/alive/internal/pkg/errs"
	"github.com/aizatop/alive/internal/pkg/logx"
	"github.com/aizatop/alive/internal/pkg/req"
	"github.com/aizatop/alive/internal/pkg/resp"
)

const minPasswordLength = 8

// AuthUser is the identity payload returned by the auth endpoints.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new identity. The profile row is a separate
// follow-up insert by the client, so a profile failure leaves the identity
// in place, exactly as the hosted backend behaved.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		email := strings.TrimSpace(input.Email)
		if !strings.Contains(email, "@") {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidEmail))
			return
		}

		if utf8.RuneCountInString(input.Password) < minPasswordLength {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		ident, err := deps.DB.CreateIdentity(r.Context(), email, string(hashedPassword))
		if err != nil {
			if isUniqueViolation(err) {
				logx.Warn("registration conflict: email already registered", "email", email)
				resp.RespondError(w, r, errs.NewError(errs.ErrEmailAlreadyRegistered))
				return
			}

			logx.Error(err, "failed to create identity")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		token, err := jwt.GenerateToken(&jwt.Payload{ID: ident.ID, Email: ident.Email}, deps.Config.JWTSecret, jwt.SessionExpiration)
		if err != nil {
			logx.Error(err, "failed to generate token after registration")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
			"user":  AuthUser{ID: ident.ID, Email: ident.Email},
		})
	}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and issues a session token.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		ident, err := deps.DB.IdentityByEmail(r.Context(), strings.TrimSpace(input.Email))
		if err != nil {
			logx.Warn("login: identity fetch failed", "email", input.Email, "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "email", input.Email)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		token, err := jwt.GenerateToken(&jwt.Payload{ID: ident.ID, Email: ident.Email}, deps.Config.JWTSecret, jwt.SessionExpiration)
		if err != nil {
			logx.Error(err, "login: jwt generation failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
			"user":  AuthUser{ID: ident.ID, Email: ident.Email},
		})
	}
}

// HandleLogout invalidates the session. Tokens are stateless, so the server
// side has nothing to tear down; the endpoint exists so sign-out is an
// explicit, idempotent call rather than a client-only convention.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, nil)
	}
}

// HandleCurrentUser returns the identity behind the request's token.
func HandleCurrentUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user": AuthUser{ID: identity.ID, Email: identity.Email},
		})
	}
}
