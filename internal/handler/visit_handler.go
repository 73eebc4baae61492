package handler

import (
	"net/http"
	"strings"

	"github.com/aizatop/alive/internal/pkg/auth/jwt"
	"github.com/aizatop/alive/internal/pkg/errs"
	"github.com/aizatop/alive/internal/pkg/logx"
	"github.com/aizatop/alive/internal/pkg/req"
	"github.com/aizatop/alive/internal/pkg/resp"
)

type RecordVisitInput struct {
	Country         string `json:"country"`
	DurationMinutes int    `json:"durationMinutes"`
}

// HandleRecordVisit appends a visit telemetry row for the caller.
func HandleRecordVisit(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input RecordVisitInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		country := strings.TrimSpace(input.Country)
		if country == "" || input.DurationMinutes < 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		visit, err := deps.DB.CreateVisit(r.Context(), identity.ID, country, input.DurationMinutes)
		if err != nil {
			logx.Error(err, "failed to record visit", "user_id", identity.ID, "country", country)
			resp.RespondError(w, r, errs.NewError(errs.ErrVisitWriteFailed))
			return
		}

		publishInsert(deps.Feed, "visits", visit)

		resp.RespondSuccess(w, r, map[string]any{"visit": visit})
	}
}

// HandleListVisits returns the caller's visit history, most recent first.
func HandleListVisits(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		visits, err := deps.DB.VisitsByUser(r.Context(), identity.ID)
		if err != nil {
			logx.Error(err, "failed to list visits", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"visits": visits})
	}
}
