/*
Package handler provides the HTTP handlers and routing setup for the Alive server.

This file defines the main Router, applying logging, CORS, API-key and
rate-limiting middleware before delegating to the specific handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/aizatop/alive/internal/pkg/auth/jwt"
	"github.com/aizatop/alive/internal/pkg/errs"
	"github.com/aizatop/alive/internal/pkg/limiter"
	"github.com/aizatop/alive/internal/pkg/logx"
	"github.com/aizatop/alive/internal/pkg/resp"
)

const (
	AuthRate  = 0.2
	AuthBurst = 5
	FeedRate  = 0.5
	FeedBurst = 10
)

// Router sets up the HTTP routing table for the application.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	feedLimiter := limiter.NewIPRateLimiter(rate.Limit(FeedRate), FeedBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("Realtime feed connection rejected: origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "apikey"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "Alive Server",
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(requireAPIKey(deps.Config.AnonKey))
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			rateLimited := func(h http.HandlerFunc) http.Handler {
				return authLimiter.Middleware(h)
			}

			auth.Method(http.MethodPost, "/register", rateLimited(HandleRegister(deps)))
			auth.Method(http.MethodPost, "/login", rateLimited(HandleLogin(deps)))
			auth.Post("/logout", HandleLogout(deps))
			auth.Get("/me", HandleCurrentUser(deps))
		})

		api.Route("/users", func(users chi.Router) {
			users.Post("/", HandleCreateProfile(deps))
			users.Get("/{id}", HandleGetProfile(deps))
			users.Patch("/{id}", HandleUpdateProfile(deps))
			users.Post("/avatar/presign", HandlePresignAvatarURL(deps))
		})

		api.Route("/visits", func(visits chi.Router) {
			visits.Post("/", HandleRecordVisit(deps))
			visits.Get("/", HandleListVisits(deps))
		})

		api.Route("/friends", func(friends chi.Router) {
			friends.Post("/request", HandleSendFriendRequest(deps))
			friends.Post("/accept", HandleAcceptFriendRequest(deps))
			friends.Get("/", HandleListFriends(deps))
		})

		api.Route("/messages", func(messages chi.Router) {
			messages.Post("/", HandleSendMessage(deps))
			messages.Get("/", HandleListMessages(deps))
		})

		api.Route("/room", func(room chi.Router) {
			room.Get("/messages", HandleListRoomMessages(deps))
			room.Post("/messages", HandleSendRoomMessage(deps))
		})
	})

	r.Get("/realtime", HandleRealtimeFeed(wsUpgrader, feedLimiter, deps))

	return r
}

// requireAPIKey rejects requests missing the public API key header. The key
// is not a secret; it marks traffic as coming from a known client build.
func requireAPIKey(anonKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("apikey") != anonKey {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
