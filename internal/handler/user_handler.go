/*
Package handler provides HTTP handlers for profile reads and writes.

Profiles live in the users table keyed by identity id. Creating the profile
is the follow-up step of registration; the avatar endpoints hand out
presigned object-store URLs instead of proxying bytes.
*/
package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/aizatop/alive/internal/app/store"
	"github.com/aizatop/alive/internal/pkg/auth/jwt"
	"github.com/aizatop/alive/internal/pkg/errs"
	"github.com/aizatop/alive/internal/pkg/logx"
	"github.com/aizatop/alive/internal/pkg/req"
	"github.com/aizatop/alive/internal/pkg/resp"
)

const (
	minUsernameLength = 3

	// presignDuration bounds how long an avatar upload URL stays usable.
	presignDuration = 10 * time.Minute

	maxAvatarBytes = 5 << 20
)

type CreateProfileInput struct {
	Username string `json:"username"`
	Country  string `json:"country"`
}

// HandleCreateProfile inserts the profile row for the authenticated
// identity. This is the second half of sign-up; when it fails the identity
// stays behind, orphaned, and the caller sees a profile error.
func HandleCreateProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input CreateProfileInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		username := strings.TrimSpace(input.Username)
		if utf8.RuneCountInString(username) < minUsernameLength {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		profile, err := deps.DB.CreateProfile(r.Context(), identity.ID, identity.Email, username, strings.TrimSpace(input.Country))
		if err != nil {
			logx.Error(err, "failed to create profile", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrProfileWriteFailed))
			return
		}

		publishInsert(deps.Feed, "users", profile)

		resp.RespondSuccess(w, r, map[string]any{"profile": profile})
	}
}

// HandleGetProfile retrieves a single profile row by id.
func HandleGetProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")

		profile, err := deps.DB.ProfileByID(r.Context(), userID)
		if err != nil {
			if isNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrProfileNotFound))
				return
			}

			logx.Error(err, "failed to fetch profile", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"profile": profile})
	}
}

// HandleUpdateProfile applies a partial update to the caller's own profile.
func HandleUpdateProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if chi.URLParam(r, "id") != identity.ID {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var patch store.ProfilePatch
		if customErr := req.BindJSON(r, &patch); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if patch.Username != nil && utf8.RuneCountInString(strings.TrimSpace(*patch.Username)) < minUsernameLength {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		profile, err := deps.DB.UpdateProfile(r.Context(), identity.ID, patch)
		if err != nil {
			if isNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrProfileNotFound))
				return
			}

			logx.Error(err, "failed to update profile", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrProfileWriteFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"profile": profile})
	}
}

type PresignAvatarInput struct {
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

// HandlePresignAvatarURL hands out a presigned upload URL for the caller's
// avatar object. Disabled when the server runs without storage settings.
func HandlePresignAvatarURL(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if deps.Storage == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		var input PresignAvatarInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !strings.HasPrefix(input.MimeType, "image/") || input.FileSize <= 0 || input.FileSize > maxAvatarBytes {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		key := fmt.Sprintf("avatars/%s", identity.ID)

		url, err := deps.Storage.PresignUpload(r.Context(), key, input.MimeType, input.FileSize, presignDuration)
		if err != nil {
			logx.Error(err, "failed to presign avatar upload", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"uploadUrl": url,
			"key":       key,
		})
	}
}
