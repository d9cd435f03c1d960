package middleware

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/templui/profile/internal/ctxkeys"
)

// NonceMiddleware generates a random nonce per request for the
// Content-Security-Policy header. It is stored both in templ's context
// (templ.GetNonce for <script nonce>) and under ctxkeys for SecurityHeaders.
func NonceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce, err := generateNonce()
		if err != nil {
			// Continue without nonce, SecurityHeaders then blocks inline scripts entirely
			slog.Error("failed to generate csp nonce", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := templ.WithNonce(r.Context(), nonce)
		ctx = ctxkeys.WithNonce(ctx, nonce)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// generateNonce returns 16 random bytes, base64 encoded
func generateNonce() (string, error) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
