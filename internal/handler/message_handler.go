package handler

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/aizatop/alive/internal/pkg/auth/jwt"
	"github.com/aizatop/alive/internal/pkg/errs"
	"github.com/aizatop/alive/internal/pkg/logx"
	"github.com/aizatop/alive/internal/pkg/req"
	"github.com/aizatop/alive/internal/pkg/resp"
)

// MaxMessageLength caps message content, matching the client-side limit.
const MaxMessageLength = 1000

type SendMessageInput struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

// HandleSendMessage inserts a direct message from the caller.
func HandleSendMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input SendMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		content, customErr := validateContent(input.Content)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.RecipientID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		message, err := deps.DB.CreateMessage(r.Context(), identity.ID, input.RecipientID, content)
		if err != nil {
			logx.Error(err, "failed to create message", "sender_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageSendFailed))
			return
		}

		publishInsert(deps.Feed, "messages", message)

		resp.RespondSuccess(w, r, map[string]any{"message": message})
	}
}

// HandleListMessages returns the conversation between the caller and the
// user in the query string, oldest first.
func HandleListMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		otherID := r.URL.Query().Get("with")
		if otherID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		messages, err := deps.DB.MessagesBetween(r.Context(), identity.ID, otherID)
		if err != nil {
			logx.Error(err, "failed to list messages", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"messages": messages})
	}
}

// validateContent trims and bounds message content.
func validateContent(raw string) (string, *errs.CustomError) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", errs.NewError(errs.ErrMessageEmpty)
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return "", errs.NewError(errs.ErrMessageContentTooLong)
	}
	return content, nil
}
