package handler

import (
	"net/http"

	"github.com/aizatop/alive/internal/pkg/auth/jwt"
	"github.com/aizatop/alive/internal/pkg/errs"
	"github.com/aizatop/alive/internal/pkg/logx"
	"github.com/aizatop/alive/internal/pkg/req"
	"github.com/aizatop/alive/internal/pkg/resp"
)

type FriendRequestInput struct {
	FriendID string `json:"friendId"`
}

// HandleSendFriendRequest creates a pending relationship row from the
// caller to the given user.
func HandleSendFriendRequest(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input FriendRequestInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.FriendID == "" || input.FriendID == identity.ID {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		friend, err := deps.DB.CreateFriendRequest(r.Context(), identity.ID, input.FriendID)
		if err != nil {
			if isUniqueViolation(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrFriendRequestExists))
				return
			}

			logx.Error(err, "failed to create friend request", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		publishInsert(deps.Feed, "friends", friend)

		resp.RespondSuccess(w, r, map[string]any{"request": friend})
	}
}

// HandleAcceptFriendRequest flips the pending request sent to the caller
// into an accepted relationship.
func HandleAcceptFriendRequest(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input FriendRequestInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		friend, err := deps.DB.AcceptFriendRequest(r.Context(), identity.ID, input.FriendID)
		if err != nil {
			if isNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrFriendRequestNotFound))
				return
			}

			logx.Error(err, "failed to accept friend request", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"friend": friend})
	}
}

// HandleListFriends returns the caller's accepted friends with profile data.
func HandleListFriends(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		friends, err := deps.DB.FriendsOf(r.Context(), identity.ID)
		if err != nil {
			logx.Error(err, "failed to list friends", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"friends": friends})
	}
}
