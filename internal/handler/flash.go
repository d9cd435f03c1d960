package handler

import (
	"net/http"
	"net/url"

	"github.com/templui/profile/internal/middleware"
)

// redirectBack returns to the Referer when it points at this site,
// otherwise to the profile page.
func redirectBack(w http.ResponseWriter, r *http.Request) {
	target := "/profile"
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Path != "" && (ref.Host == "" || ref.Host == r.Host) {
		target = ref.RequestURI()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// fail flashes "Error updating <resource>: <message>" and goes back.
func fail(w http.ResponseWriter, r *http.Request, resource, message string) {
	middleware.SetFlash(w, middleware.FlashError, "Error updating "+resource+": "+message)
	redirectBack(w, r)
}

// succeed flashes message and shows the profile.
func succeed(w http.ResponseWriter, r *http.Request, message string) {
	middleware.SetFlash(w, middleware.FlashSuccess, message)
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
