package api

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/izgubljeno/internal/auth"
	"github.com/erazemk/izgubljeno/internal/claims"
	"github.com/erazemk/izgubljeno/internal/store"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, svc *claims.Service, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	resolver := auth.NewResolver(jwtSecret, func(ctx context.Context, jti string) (bool, error) {
		return store.IsTokenRevoked(ctx, db, jti)
	})

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret, Logger: logger}
	itemsHandler := &ItemsHandler{DB: db, Logger: logger}
	claimsHandler := &ClaimsHandler{Service: svc, Logger: logger}

	authMW := AuthMiddleware(resolver, logger)

	// Public.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Lost items.
	mux.Handle("GET /api/lost-items", authMW(http.HandlerFunc(itemsHandler.ListLost)))
	mux.Handle("POST /api/lost-items", authMW(http.HandlerFunc(itemsHandler.CreateLost)))
	mux.Handle("GET /api/lost-items/{id}", authMW(http.HandlerFunc(itemsHandler.GetLost)))
	mux.Handle("DELETE /api/lost-items/{id}", authMW(http.HandlerFunc(itemsHandler.DeleteLost)))

	// Found items.
	mux.Handle("GET /api/found-items", authMW(http.HandlerFunc(itemsHandler.ListFound)))
	mux.Handle("POST /api/found-items", authMW(http.HandlerFunc(itemsHandler.CreateFound)))
	mux.Handle("GET /api/found-items/{id}", authMW(http.HandlerFunc(itemsHandler.GetFound)))
	mux.Handle("DELETE /api/found-items/{id}", authMW(http.HandlerFunc(itemsHandler.DeleteFound)))

	// Claims.
	mux.Handle("POST /api/claims", authMW(http.HandlerFunc(claimsHandler.Request)))
	mux.Handle("POST /api/claims/verify-request", authMW(http.HandlerFunc(claimsHandler.Verify)))
	mux.Handle("POST /api/claims/notify-owner", authMW(http.HandlerFunc(claimsHandler.Notify)))
	mux.Handle("PATCH /api/claims/{id}/claimer-confirm", authMW(claimsHandler.ClaimerConfirm()))
	mux.Handle("PATCH /api/claims/{id}/finder-returned", authMW(claimsHandler.FinderReturned()))
	mux.Handle("PATCH /api/claims/{id}/approve", authMW(claimsHandler.Approve()))
	mux.Handle("PATCH /api/claims/{id}/reject", authMW(claimsHandler.Reject()))
	mux.Handle("GET /api/claims/{id}/history", authMW(http.HandlerFunc(claimsHandler.History)))
	mux.Handle("GET /api/claims/my", authMW(http.HandlerFunc(claimsHandler.Mine)))
	mux.Handle("GET /api/claims/finder/pending", authMW(http.HandlerFunc(claimsHandler.FinderPending)))
	mux.Handle("GET /api/claims/found/locked", authMW(http.HandlerFunc(claimsHandler.LockedFound)))
	mux.Handle("GET /api/claims/lost/locked", authMW(http.HandlerFunc(claimsHandler.LockedLost)))

	return mux
}
