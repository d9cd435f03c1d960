package ui

import (
	"context"
	"strings"
	"unicode"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
	"github.com/templui/profile/internal/model"
)

// AvatarView is an avatar with its resolved public URL.
type AvatarView struct {
	Avatar *model.Avatar
	URL    string
}

type ProfileView struct {
	User          *model.User
	Avatars       []AvatarView
	AvatarMaxSize int64
}

func ProfilePage(v ProfileView) templ.Component {
	return Layout("Profile", component(func(ctx context.Context, h *htmlWriter) {
		user := v.User
		userPath := "/user/" + user.ID

		h.raw(`<div class="space-y-8">`)

		// Header
		h.raw(`<section class="flex items-center gap-4">`)
		avatarImage(h, user, "h-20 w-20 text-2xl")
		h.printf(`<div><h1 class="text-2xl font-semibold">%s</h1><p class="text-gray-600">%s</p></div>`, user.Name, user.Email)
		h.raw(`</section>`)

		// Profile
		h.raw(`<section class="rounded-lg border bg-white p-6"><h2 class="mb-4 text-lg font-semibold">Profile</h2>`)
		formOpen(ctx, h, userPath, "PATCH", false)
		h.raw(`<div class="space-y-4">`)
		field(h, "Name", "name", "text", user.Name, " required maxlength=\"255\"")
		field(h, "Email", "email", "email", user.Email, " required")
		h.printf(`<button type="submit" class="%s">Save</button>`, buttonClass(ButtonPrimary))
		h.raw(`</div></form></section>`)

		// Avatar upload
		h.raw(`<section class="rounded-lg border bg-white p-6"><h2 class="mb-4 text-lg font-semibold">Avatar</h2>`)
		formOpen(ctx, h, userPath+"/avatar", "PUT", true)
		h.raw(`<div class="flex items-center gap-3">`)
		h.raw(`<input type="file" name="avatar" required accept="image/jpeg,image/png,image/gif,image/webp" class="text-sm">`)
		h.printf(`<button type="submit" class="%s">Upload</button>`, buttonClass(ButtonPrimary))
		h.raw(`</div>`)
		h.printf(`<p class="mt-2 text-xs text-gray-500">JPG, PNG, GIF or WebP, up to %s.</p>`, humanize.IBytes(uint64(v.AvatarMaxSize)))
		h.raw(`</form>`)

		if len(v.Avatars) > 0 {
			h.raw(`<ul class="mt-6 grid grid-cols-2 gap-4 sm:grid-cols-3">`)
			for _, av := range v.Avatars {
				avatarItem(ctx, h, userPath, av)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</section>`)

		// Password
		h.raw(`<section class="rounded-lg border bg-white p-6"><h2 class="mb-4 text-lg font-semibold">Password</h2>`)
		formOpen(ctx, h, userPath+"/password", "POST", false)
		h.raw(`<div class="space-y-4">`)
		field(h, "Current password", "current_password", "password", "", ` required autocomplete="current-password"`)
		field(h, "New password", "new_password", "password", "", ` required minlength="12" autocomplete="new-password"`)
		h.printf(`<button type="submit" class="%s">Change password</button>`, buttonClass(ButtonPrimary))
		h.raw(`</div></form></section>`)

		h.raw(`</div>`)
	}))
}

func avatarItem(ctx context.Context, h *htmlWriter, userPath string, av AvatarView) {
	a := av.Avatar
	itemPath := userPath + "/avatar/" + a.ID

	border := "border-gray-200"
	if a.IsActive {
		border = "border-gray-900 ring-2 ring-gray-900"
	}
	h.printf(`<li class="%s" data-avatar-id="%s">`, Class("space-y-2 rounded-md border p-3", border), a.ID)
	if av.URL != "" {
		h.printf(`<img src="%s" alt="%s" class="aspect-square w-full rounded object-cover">`, av.URL, a.DisplayName())
	}
	h.printf(`<p class="truncate text-xs text-gray-600" title="%s">%s</p>`, a.DisplayName(), a.DisplayName())
	if a.Size != nil {
		h.printf(`<p class="text-xs text-gray-400">%s</p>`, humanize.IBytes(uint64(*a.Size)))
	}

	h.raw(`<div class="flex gap-2">`)
	if a.IsActive {
		h.raw(`<span class="rounded bg-gray-900 px-2 py-1 text-xs text-white">Active</span>`)
	} else {
		formOpen(ctx, h, itemPath, "PATCH", false)
		h.printf(`<button type="submit" class="%s">Use</button></form>`, buttonClass(ButtonSecondary, "px-2 py-1 text-xs"))
	}
	formOpen(ctx, h, itemPath, "DELETE", false)
	h.printf(`<button type="submit" class="%s">Delete</button></form>`, buttonClass(ButtonDestructive, "px-2 py-1 text-xs"))
	h.raw(`</div></li>`)
}

// avatarImage shows the active avatar, or the user's initials without one.
func avatarImage(h *htmlWriter, user *model.User, size string) {
	if user.AvatarURL != "" {
		h.printf(`<img src="%s" alt="%s" class="%s">`, user.AvatarURL, user.Name, Class("rounded-full object-cover", size))
		return
	}
	h.printf(`<div class="%s">%s</div>`, Class("flex items-center justify-center rounded-full bg-gray-200 font-semibold text-gray-600", size), Initials(user.Name))
}

// Initials returns up to two uppercase initials of name.
func Initials(name string) string {
	initials := []rune{}
	for _, part := range strings.Fields(name) {
		initials = append(initials, unicode.ToUpper([]rune(part)[0]))
		if len(initials) == 2 {
			break
		}
	}
	if len(initials) == 0 {
		return "?"
	}
	return string(initials)
}
