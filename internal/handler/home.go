package handler

import (
	"net/http"

	"github.com/templui/profile/internal/ui"
)

type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// HomePage sends visitors to their profile; guests end up on the login page.
func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, ui.NotFoundPage())
}
