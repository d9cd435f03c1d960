package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/templui/profile/internal/model"
	"github.com/templui/profile/internal/service"
	"github.com/templui/profile/internal/ui"
	"github.com/templui/profile/internal/validation"
)

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{
		authService: authService,
	}
}

func (h *authHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.LoginPage(ui.AuthForm{}))
}

func (h *authHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.RegisterPage(ui.AuthForm{}))
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	form := ui.AuthForm{Email: email}

	if email == "" || password == "" {
		form.Error = "Email and password are required"
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, ui.LoginPage(form))
		return
	}

	user, err := h.authService.Login(r.Context(), email, password)
	if err != nil {
		slog.Warn("password login failed", "error", err)
		form.Error = "Invalid email or password"
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, ui.LoginPage(form))
		return
	}

	h.startSession(w, r, user)
}

func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	form := ui.AuthForm{Name: name, Email: email}

	err := validation.ValidateName(name)
	if err == nil {
		err = validation.ValidateEmail(strings.ToLower(email))
	}
	if err == nil {
		err = validation.ValidatePassword(password)
	}
	if err != nil {
		form.Error = err.Error()
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, ui.RegisterPage(form))
		return
	}

	user, err := h.authService.Register(r.Context(), name, email, password)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			form.Error = "An account with this email already exists"
		} else {
			slog.Error("failed to register user", "error", err)
			form.Error = "An error occurred. Please try again."
		}
		ui.RenderStatus(w, r, http.StatusUnprocessableEntity, ui.RegisterPage(form))
		return
	}

	h.startSession(w, r, user)
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

// startSession sets the auth cookie and sends the user to their profile.
func (h *authHandler) startSession(w http.ResponseWriter, r *http.Request, user *model.User) {
	jwtToken, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		http.Error(w, "An error occurred. Please try again.", http.StatusInternalServerError)
		return
	}

	h.authService.SetJWTCookie(w, jwtToken, time.Now().Add(h.authService.JWTExpiry()))

	slog.Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
