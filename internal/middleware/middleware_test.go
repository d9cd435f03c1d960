package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/profile/internal/config"
	"github.com/templui/profile/internal/ctxkeys"
	"github.com/templui/profile/internal/model"
)

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestMethodOverride(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /user/{userId}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("patched " + r.PostFormValue("name")))
	})
	mux.HandleFunc("DELETE /user/{userId}/avatar/{avatarId}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("deleted " + r.PathValue("avatarId")))
	})
	h := MethodOverride(mux)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, formRequest(http.MethodPost, "/user/u1", url.Values{"_method": {"patch"}, "name": {"Ada"}}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "patched Ada", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, formRequest(http.MethodPost, "/user/u1/avatar/a1", url.Values{"_method": {"DELETE"}}))
	assert.Equal(t, "deleted a1", rec.Body.String())

	// only PUT, PATCH and DELETE can be requested
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, formRequest(http.MethodPost, "/user/u1", url.Values{"_method": {"GET"}}))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMaxBodySize(t *testing.T) {
	var parseErr error
	h := MaxBodySize(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parseErr = r.ParseForm()
	}))

	h.ServeHTTP(httptest.NewRecorder(), formRequest(http.MethodPost, "/", url.Values{"name": {"far too long"}}))
	require.Error(t, parseErr)
}

func withUser(r *http.Request, id string) *http.Request {
	return r.WithContext(ctxkeys.WithUser(r.Context(), &model.User{ID: id}))
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, loginPath, rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, loginPath, rec.Header().Get("HX-Redirect"))

	rec = httptest.NewRecorder()
	h(rec, withUser(httptest.NewRequest(http.MethodGet, "/profile", nil), "u1"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireGuest(t *testing.T) {
	h := RequireGuest(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	h(rec, withUser(httptest.NewRequest(http.MethodGet, "/auth/login", nil), "u1"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, profilePath, rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireSelf(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /user/{userId}", RequireSelf(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodPatch, "/user/u1", nil), "u1"))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodPatch, "/user/u2", nil), "u1"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/user/u1", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFProtection(t *testing.T) {
	h := CSRFProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(ctxkeys.CSRFToken(r.Context())))
	}))

	// GET issues a token cookie and exposes it in the context
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	token := cookies[0].Value
	assert.Equal(t, token, rec.Body.String())

	// missing token
	rec = httptest.NewRecorder()
	req := formRequest(http.MethodPatch, "/user/u1", url.Values{"name": {"x"}})
	req.AddCookie(cookies[0])
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// form field
	rec = httptest.NewRecorder()
	req = formRequest(http.MethodPatch, "/user/u1", url.Values{"csrf_token": {token}})
	req.AddCookie(cookies[0])
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// header
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/user/u1/avatar/a1", nil)
	req.Header.Set(csrfHeader, token)
	req.AddCookie(cookies[0])
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// wrong token
	rec = httptest.NewRecorder()
	req = formRequest(http.MethodPost, "/auth/logout", url.Values{"csrf_token": {"forged"}})
	req.AddCookie(cookies[0])
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := newRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("1.2.3.4"))

	now = now.Add(10 * time.Minute)
	rl.cleanup()
	assert.Empty(t, rl.requests)
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)
	h := rl.Middleware(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")

	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", getClientIP(req))

	req.Header.Set("X-Real-IP", " 198.51.100.7 ")
	assert.Equal(t, "198.51.100.7", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 198.51.100.7")
	assert.Equal(t, "203.0.113.9", getClientIP(req))
}

func TestFlash_RoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	SetFlash(rec, FlashError, "Error updating avatar: file too large")
	cookie := rec.Result().Cookies()[0]

	var got *ctxkeys.Flash
	h := Flash(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ctxkeys.FlashMessage(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.NotNil(t, got)
	assert.Equal(t, FlashError, got.Type)
	assert.Equal(t, "Error updating avatar: file too large", got.Message)

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)

	// garbage is ignored
	got = nil
	req = httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: flashCookieName, Value: "%%%"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Nil(t, got)
}

func TestSecurityHeaders(t *testing.T) {
	cfg := &config.Config{AppEnv: "production", StorageDriver: "s3", S3Endpoint: "https://minio.example.com/"}
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		Config(cfg),
		NonceMiddleware,
		SecurityHeaders,
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))

	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "script-src 'self' 'nonce-")
	assert.Contains(t, csp, "img-src 'self' data: https://minio.example.com;")
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestRateLimiter_CleanupLoopStopsWithContext(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := newRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }
	require.True(t, rl.Allow("1.2.3.4"))

	// idle long enough for the entry to be dropped
	now = now.Add(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.cleanupLoop(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		rl.mu.Lock()
		defer rl.mu.Unlock()
		return len(rl.requests) == 0
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop still running after cancel")
	}
}
