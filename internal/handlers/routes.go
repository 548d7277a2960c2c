package handlers

import (
	"net/http"
	"time"

	"eggadventure/internal/security"
)

// NewRouter wires every HTTP route. Auth endpoints that accept
// credentials sit behind a per-IP rate limit.
func NewRouter(auth *AuthHandler, gameHandler *GameHandler, parent *ParentHandler, mw *Middleware) *http.ServeMux {
	mux := http.NewServeMux()

	authLimiter := security.NewRateLimiter(10, time.Minute)

	// Accounts and sessions
	mux.HandleFunc("POST /api/auth/register", mw.RateLimit(authLimiter, auth.Register))
	mux.HandleFunc("POST /api/auth/login", mw.RateLimit(authLimiter, auth.Login))
	mux.HandleFunc("POST /api/auth/anonymous", mw.RateLimit(authLimiter, auth.LoginAnonymous))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("GET /api/auth/me", mw.RequireAuth(auth.Me))
	mux.HandleFunc("GET /auth/google/start", auth.StartGoogleOAuth)
	mux.HandleFunc("GET /auth/google/callback", auth.GoogleOAuthCallback)

	// Game state and quiz flow
	mux.HandleFunc("GET /api/game/state", mw.RequireAuth(gameHandler.State))
	mux.HandleFunc("GET /api/game/events", mw.RequireAuth(gameHandler.Events))
	mux.HandleFunc("POST /api/game/challenge", mw.RequireAuth(gameHandler.StartChallenge))
	mux.HandleFunc("POST /api/game/answer", mw.RequireAuth(gameHandler.Answer))
	mux.HandleFunc("POST /api/game/summary/ack", mw.RequireAuth(gameHandler.AcknowledgeSummary))
	mux.HandleFunc("POST /api/game/room", mw.RequireAuth(gameHandler.SetRoom))
	mux.HandleFunc("POST /api/game/role/toggle", mw.RequireAuth(gameHandler.ToggleRole))
	mux.HandleFunc("GET /api/game/rooms", gameHandler.Rooms)
	mux.HandleFunc("GET /api/game/catalog", gameHandler.Catalog)

	// Parent mode and rewards
	mux.HandleFunc("POST /api/parent/email", mw.RequireAuth(parent.SetParentEmail))
	mux.HandleFunc("POST /api/parent/rewards", mw.RequireAuth(parent.AddReward))
	mux.HandleFunc("DELETE /api/parent/rewards/{id}", mw.RequireAuth(parent.RemoveReward))
	mux.HandleFunc("POST /api/rewards/{id}/redeem", mw.RequireAuth(parent.RedeemReward))

	return mux
}
