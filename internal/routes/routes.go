package routes

import (
	"context"
	"net/http"

	"github.com/templui/profile/internal/app"
	"github.com/templui/profile/internal/handler"
	"github.com/templui/profile/internal/middleware"
	"github.com/templui/profile/internal/storage"
)

// bodySlack covers form fields and multipart framing around the avatar file.
const bodySlack = 1 << 20

// SetupRoutes builds the application handler. Background work started for
// it, like rate limiter cleanup, stops when ctx is done.
func SetupRoutes(ctx context.Context, app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler()
	auth := handler.NewAuthHandler(app.AuthService)
	profile := handler.NewProfileHandler(app.UserService, app.AvatarService, app.Cfg.AvatarMaxSize)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Stored files (local driver only, S3 serves its own URLs)
	if local, ok := app.Storage.(*storage.LocalStorage); ok {
		mux.Handle("GET "+storage.LocalURLPrefix, local.Handler())
	}

	// Home
	mux.HandleFunc("GET /{$}", home.HomePage)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth(ctx)

	mux.HandleFunc("GET /auth/login", middleware.RequireGuest(auth.LoginPage))
	mux.HandleFunc("GET /auth/register", middleware.RequireGuest(auth.RegisterPage))
	mux.HandleFunc("POST /auth/login", rateLimiter(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("POST /auth/register", rateLimiter(middleware.RequireGuest(auth.Register)))
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	mux.HandleFunc("GET /profile", middleware.RequireAuth(profile.ProfilePage))

	// A user may only change their own profile
	self := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireAuth(middleware.RequireSelf(h))
	}

	mux.HandleFunc("PATCH /user/{userId}", self(profile.UpdateProfile))
	mux.HandleFunc("POST /user/{userId}/password", self(profile.UpdatePassword))
	mux.HandleFunc("PUT /user/{userId}/avatar", self(profile.UploadAvatar))
	mux.HandleFunc("PATCH /user/{userId}/avatar/{avatarId}", self(profile.ActivateAvatar))
	mux.HandleFunc("DELETE /user/{userId}/avatar/{avatarId}", self(profile.DeleteAvatar))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // Config must be first (needed by SecurityHeaders for S3 endpoint)
		middleware.NonceMiddleware, // Generate CSP nonce for each request (must be before SecurityHeaders)
		middleware.SecurityHeaders,
		middleware.MaxBodySize(2*app.Cfg.AvatarMaxSize+bodySlack),
		middleware.MethodOverride, // Must run before the mux picks a route
		middleware.AuthMiddleware(app.AuthService, app.UserService),
		middleware.RequestLogging, // After auth so the user id is logged
		middleware.CSRFProtection, // After MethodOverride so PUT/PATCH/DELETE forms are checked
		middleware.WithURLPath,
		middleware.Flash,
	)

	return handler
}
