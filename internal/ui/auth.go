package ui

import (
	"context"

	"github.com/a-h/templ"
)

// AuthForm holds submitted values to re-render after a failed attempt.
type AuthForm struct {
	Name  string
	Email string
	Error string
}

func LoginPage(f AuthForm) templ.Component {
	return Layout("Log in", authCard("Log in", "/auth/login", f, false))
}

func RegisterPage(f AuthForm) templ.Component {
	return Layout("Register", authCard("Create account", "/auth/register", f, true))
}

func authCard(title, action string, f AuthForm, register bool) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<section class="mx-auto max-w-sm rounded-lg border bg-white p-6">`)
		h.printf(`<h1 class="mb-4 text-xl font-semibold">%s</h1>`, title)
		if f.Error != "" {
			h.printf(`<p role="alert" class="mb-4 text-sm text-red-700">%s</p>`, f.Error)
		}

		formOpen(ctx, h, action, "POST", false)
		h.raw(`<div class="space-y-4">`)
		if register {
			field(h, "Name", "name", "text", f.Name, ` required maxlength="255" autocomplete="name"`)
		}
		field(h, "Email", "email", "email", f.Email, ` required autocomplete="email"`)
		autocomplete := "current-password"
		if register {
			autocomplete = "new-password"
		}
		field(h, "Password", "password", "password", "", ` required autocomplete="`+autocomplete+`"`)
		h.printf(`<button type="submit" class="%s">%s</button>`, buttonClass(ButtonPrimary, "w-full"), title)
		h.raw(`</div></form>`)

		if register {
			h.raw(`<p class="mt-4 text-sm text-gray-600">Already have an account? <a class="underline" href="/auth/login">Log in</a></p>`)
		} else {
			h.raw(`<p class="mt-4 text-sm text-gray-600">No account yet? <a class="underline" href="/auth/register">Register</a></p>`)
		}
		h.raw(`</section>`)
	})
}
