package ui

import (
	"context"

	"github.com/a-h/templ"
	"github.com/templui/profile/internal/ctxkeys"
)

// Layout wraps body in the page chrome: head, nav with session actions, flash.
func Layout(title string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		appName := "Profile"
		if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
			appName = cfg.AppName
		}

		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.printf(`<meta name="csrf-token" content="%s">`, ctxkeys.CSRFToken(ctx))
		h.printf(`<title>%s · %s</title>`, title, appName)
		h.raw(`</head><body class="min-h-screen bg-gray-50 text-gray-900">`)

		h.raw(`<nav class="border-b bg-white"><div class="mx-auto flex max-w-3xl items-center justify-between px-4 py-3">`)
		h.printf(`<a href="/" class="font-semibold">%s</a>`, appName)
		if user := ctxkeys.User(ctx); user != nil {
			h.raw(`<div class="flex items-center gap-3">`)
			if user.AvatarURL != "" {
				h.printf(`<img src="%s" alt="" class="h-8 w-8 rounded-full object-cover">`, user.AvatarURL)
			}
			h.printf(`<span class="text-sm">%s</span>`, user.Name)
			formOpen(ctx, h, "/auth/logout", "POST", false)
			h.printf(`<button type="submit" class="%s">Log out</button></form>`, buttonClass(ButtonSecondary, "px-3 py-1"))
			h.raw(`</div>`)
		} else {
			h.raw(`<div class="flex gap-3 text-sm"><a href="/auth/login">Log in</a><a href="/auth/register">Register</a></div>`)
		}
		h.raw(`</div></nav>`)

		h.raw(`<main class="mx-auto max-w-3xl px-4 py-8">`)
		flash(ctx, h)
		h.render(ctx, body)
		h.raw(`</main></body></html>`)
	})
}

func NotFoundPage() templ.Component {
	return Layout("Not found", component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1 class="text-2xl font-semibold">Page not found</h1>`)
		h.raw(`<p class="mt-2 text-gray-600"><a class="underline" href="/">Back to your profile</a></p>`)
	}))
}
