package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/profile/internal/ctxkeys"
	"github.com/templui/profile/internal/model"
	"github.com/templui/profile/internal/repository"
	"github.com/templui/profile/internal/service"
	"github.com/templui/profile/internal/ui"
	"github.com/templui/profile/internal/validation"
)

type ProfileHandler struct {
	userService   *service.UserService
	avatarService *service.AvatarService
	constraints   validation.FileConstraints
}

func NewProfileHandler(userService *service.UserService, avatarService *service.AvatarService, avatarMaxSize int64) *ProfileHandler {
	return &ProfileHandler{
		userService:   userService,
		avatarService: avatarService,
		constraints:   validation.AvatarConstraints(avatarMaxSize),
	}
}

func (h *ProfileHandler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	avatars, err := h.avatarService.List(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to list avatars", "error", err, "user_id", user.ID)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	views := make([]ui.AvatarView, 0, len(avatars))
	for _, a := range avatars {
		views = append(views, ui.AvatarView{Avatar: a, URL: h.avatarService.URL(a)})
	}

	ui.Render(w, r, ui.ProfilePage(ui.ProfileView{
		User:          user,
		Avatars:       views,
		AvatarMaxSize: h.constraints.MaxSize,
	}))
}

// UpdateProfile applies the name and/or email fields that were submitted.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	err := r.ParseForm()
	if err != nil {
		fail(w, r, "profile", "invalid form")
		return
	}

	update := model.UserUpdate{}
	if _, ok := r.PostForm["name"]; ok {
		name := r.PostForm.Get("name")
		update.Name = &name
	}
	if _, ok := r.PostForm["email"]; ok {
		email := r.PostForm.Get("email")
		update.Email = &email
	}

	if update.IsEmpty() {
		fail(w, r, "profile", "nothing to update")
		return
	}

	err = validation.ValidateUserUpdate(update)
	if err != nil {
		fail(w, r, "profile", err.Error())
		return
	}

	_, err = h.userService.Update(r.Context(), userID, update)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			fail(w, r, "profile", "email is already in use")
			return
		}
		slog.Error("failed to update profile", "error", err, "user_id", userID)
		fail(w, r, "profile", err.Error())
		return
	}

	succeed(w, r, "Profile updated.")
}

func (h *ProfileHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	currentPassword := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")

	if currentPassword == "" || newPassword == "" {
		fail(w, r, "password", "current and new password are required")
		return
	}

	err := h.userService.UpdatePassword(r.Context(), userID, currentPassword, newPassword)
	if err != nil {
		slog.Warn("password change rejected", "error", err, "user_id", userID)
		fail(w, r, "password", err.Error())
		return
	}

	slog.Info("password changed", "user_id", userID)
	succeed(w, r, "Password updated.")
}

// UploadAvatar stores the "avatar" file and makes it the active avatar.
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	file, header, err := r.FormFile("avatar")
	if err != nil {
		fail(w, r, "avatar", "no file uploaded")
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close file", "error", closeErr)
		}
	}()

	mimeType, err := validation.ValidateFile(header, h.constraints)
	if err != nil {
		fail(w, r, "avatar", err.Error())
		return
	}

	_, err = h.avatarService.Upload(r.Context(), userID, file, header.Filename, mimeType, header.Size)
	if err != nil {
		slog.Error("failed to upload avatar", "error", err, "user_id", userID)
		fail(w, r, "avatar", err.Error())
		return
	}

	succeed(w, r, "Avatar uploaded.")
}

func (h *ProfileHandler) ActivateAvatar(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	avatar, ok := h.ownedAvatar(w, r, userID)
	if !ok {
		return
	}

	_, err := h.avatarService.Activate(r.Context(), avatar)
	if err != nil {
		slog.Error("failed to activate avatar", "error", err, "user_id", userID, "avatar_id", avatar.ID)
		fail(w, r, "avatar", err.Error())
		return
	}

	succeed(w, r, "Avatar activated.")
}

func (h *ProfileHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")

	avatar, ok := h.ownedAvatar(w, r, userID)
	if !ok {
		return
	}

	err := h.avatarService.Delete(r.Context(), avatar)
	if err != nil {
		slog.Error("failed to delete avatar", "error", err, "user_id", userID, "avatar_id", avatar.ID)
		fail(w, r, "avatar", err.Error())
		return
	}

	slog.Info("avatar deleted", "user_id", userID, "avatar_id", avatar.ID)
	succeed(w, r, "Avatar deleted.")
}

// ownedAvatar loads {avatarId} for userID, answering the request itself on failure.
func (h *ProfileHandler) ownedAvatar(w http.ResponseWriter, r *http.Request, userID string) (*model.Avatar, bool) {
	avatar, err := h.avatarService.ForUser(r.Context(), userID, r.PathValue("avatarId"))
	if err != nil {
		if !errors.Is(err, repository.ErrAvatarNotFound) {
			slog.Error("failed to load avatar", "error", err, "user_id", userID)
		}
		fail(w, r, "avatar", err.Error())
		return nil, false
	}
	return avatar, true
}
