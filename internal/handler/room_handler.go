package handler

import (
	"net/http"

	"github.com/aizatop/alive/internal/pkg/auth/jwt"
	"github.com/aizatop/alive/internal/pkg/errs"
	"github.com/aizatop/alive/internal/pkg/logx"
	"github.com/aizatop/alive/internal/pkg/req"
	"github.com/aizatop/alive/internal/pkg/resp"
)

// HandleListRoomMessages returns the full shared-room history, oldest
// first. The room carries no pagination; the community is small and the
// client renders everything.
func HandleListRoomMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := deps.DB.RoomMessages(r.Context())
		if err != nil {
			logx.Error(err, "failed to list room messages")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"messages": messages})
	}
}

type SendRoomMessageInput struct {
	Content string `json:"content"`
}

// HandleSendRoomMessage inserts a shared-room message from the caller and
// pushes it onto the realtime feed.
func HandleSendRoomMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input SendRoomMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		content, customErr := validateContent(input.Content)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		message, err := deps.DB.CreateRoomMessage(r.Context(), identity.ID, identity.Email, content)
		if err != nil {
			logx.Error(err, "failed to create room message", "sender_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageSendFailed))
			return
		}

		publishInsert(deps.Feed, "room_messages", message)

		resp.RespondSuccess(w, r, map[string]any{"message": message})
	}
}
