package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/templui/profile/internal/ctxkeys"
)

const (
	flashCookieName = "flash"

	FlashSuccess = "success"
	FlashError   = "error"
)

// SetFlash stores a message to be shown on the next page view.
func SetFlash(w http.ResponseWriter, kind, message string) {
	data, err := json.Marshal(ctxkeys.Flash{Type: kind, Message: message})
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}

// Flash moves a pending flash message from its cookie into the context
// and clears the cookie so it is shown once.
func Flash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(flashCookieName)
		if err != nil || r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     flashCookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})

		flash := decodeFlash(cookie.Value)
		if flash == nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxkeys.WithFlash(r.Context(), flash)))
	})
}

func decodeFlash(value string) *ctxkeys.Flash {
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}

	flash := &ctxkeys.Flash{}
	err = json.Unmarshal(data, flash)
	if err != nil || flash.Message == "" {
		return nil
	}
	return flash
}
