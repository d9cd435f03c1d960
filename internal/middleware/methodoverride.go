package middleware

import (
	"net/http"
	"strings"
)

const methodOverrideField = "_method"

var overridableMethods = map[string]bool{
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// MethodOverride lets HTML forms reach PUT, PATCH and DELETE routes by
// posting a hidden _method field. It must run before the mux matches a route.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			method := strings.ToUpper(r.PostFormValue(methodOverrideField))
			if overridableMethods[method] {
				r.Method = method
			}
		}
		next.ServeHTTP(w, r)
	})
}

// MaxBodySize caps request bodies at limit bytes.
func MaxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
