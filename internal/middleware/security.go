package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/templui/profile/internal/ctxkeys"
)

// SecurityHeaders sets the CSP and the usual hardening headers.
// Needs Config and NonceMiddleware earlier in the chain.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", contentSecurityPolicy(r))
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		cfg := ctxkeys.Config(r.Context())
		if cfg != nil && cfg.IsProduction() {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

func contentSecurityPolicy(r *http.Request) string {
	scriptSrc := "'self'"
	if nonce := ctxkeys.Nonce(r.Context()); nonce != "" {
		scriptSrc += fmt.Sprintf(" 'nonce-%s'", nonce)
	}

	// Avatars may be served from the bucket endpoint
	imgSrc := "'self' data:"
	cfg := ctxkeys.Config(r.Context())
	if cfg != nil && cfg.S3Endpoint != "" {
		imgSrc += " " + strings.TrimSuffix(cfg.S3Endpoint, "/")
	} else if cfg != nil && cfg.StorageDriver == "s3" {
		imgSrc += " https://*.amazonaws.com"
	}

	directives := []string{
		"default-src 'self'",
		"script-src " + scriptSrc,
		"style-src 'self' 'unsafe-inline'",
		"img-src " + imgSrc,
		"form-action 'self'",
		"frame-ancestors 'none'",
		"base-uri 'self'",
	}
	return strings.Join(directives, "; ")
}
