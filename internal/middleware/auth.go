package middleware

import (
	"log/slog"
	"net/http"

	"github.com/templui/profile/internal/ctxkeys"
	"github.com/templui/profile/internal/service"
)

const (
	loginPath   = "/auth/login"
	profilePath = "/profile"
)

// AuthMiddleware checks for JWT token and adds the user to context if valid
func AuthMiddleware(authService *service.AuthService, userService *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Get JWT from cookie
			cookie, err := r.Cookie(service.AuthCookieName)
			if err != nil {
				// No cookie, continue without auth
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authService.VerifyJWT(cookie.Value)
			if err != nil {
				// Invalid token, clear cookie and continue
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			userID, err := service.UserIDFromClaims(claims)
			if err != nil {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			user, err := userService.ByID(r.Context(), userID)
			if err != nil {
				slog.Debug("session user not found", "user_id", userID, "error", err)
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			// Security: Remove password hash from context
			user.PasswordHash = nil

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the user is authenticated
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			redirect(w, r, loginPath)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireGuest ensures the user is not authenticated
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user != nil {
			redirect(w, r, profilePath)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireSelf allows the request only when the {userId} path segment is the
// signed-in user. Must run inside RequireAuth.
func RequireSelf(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil || r.PathValue("userId") != user.ID {
			slog.Warn("forbidden profile access",
				"path", r.URL.Path,
				"method", r.Method,
				"target_user_id", r.PathValue("userId"),
			)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// redirect sends a full page redirect, using HX-Redirect for HTMX requests
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}
