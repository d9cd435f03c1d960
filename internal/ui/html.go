package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
	"github.com/templui/profile/internal/ctxkeys"
)

// Class merges tailwind classes, later classes win over conflicting earlier ones.
func Class(classes ...string) string {
	return twmerge.Merge(strings.Join(classes, " "))
}

// htmlWriter accumulates the first write error so components can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// printf writes format with every argument HTML-escaped.
func (h *htmlWriter) printf(format string, args ...any) {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = templ.EscapeString(fmt.Sprint(a))
	}
	h.raw(fmt.Sprintf(format, escaped...))
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func component(fn func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(ctx, h)
		return h.err
	})
}

// Button variants
const (
	ButtonPrimary     = "primary"
	ButtonSecondary   = "secondary"
	ButtonDestructive = "destructive"
)

func buttonClass(variant string, extra ...string) string {
	base := "inline-flex items-center justify-center rounded-md px-4 py-2 text-sm font-medium cursor-pointer"
	var v string
	switch variant {
	case ButtonDestructive:
		v = "bg-red-600 text-white hover:bg-red-700"
	case ButtonSecondary:
		v = "bg-white text-gray-900 border border-gray-300 hover:bg-gray-50"
	default:
		v = "bg-gray-900 text-white hover:bg-gray-700"
	}
	return Class(append([]string{base, v}, extra...)...)
}

const inputClass = "block w-full rounded-md border border-gray-300 px-3 py-2 text-sm"

// formOpen starts a form posting to action, with the CSRF token and the
// _method override when method is not POST.
func formOpen(ctx context.Context, h *htmlWriter, action, method string, multipart bool) {
	enctype := ""
	if multipart {
		enctype = ` enctype="multipart/form-data"`
	}
	h.printf(`<form action="%s" method="post"`, action)
	h.raw(enctype + ">")
	h.printf(`<input type="hidden" name="csrf_token" value="%s">`, ctxkeys.CSRFToken(ctx))
	if method != "" && method != "POST" {
		h.printf(`<input type="hidden" name="_method" value="%s">`, method)
	}
}

func field(h *htmlWriter, label, name, kind, value string, extra string) {
	h.raw(`<label class="block space-y-1">`)
	h.printf(`<span class="text-sm font-medium text-gray-700">%s</span>`, label)
	h.printf(`<input class="%s" type="%s" name="%s" value="%s"`, inputClass, kind, name, value)
	h.raw(extra + "></label>")
}

func flash(ctx context.Context, h *htmlWriter) {
	f := ctxkeys.FlashMessage(ctx)
	if f == nil {
		return
	}
	variant := "border-green-200 bg-green-50 text-green-800"
	if f.Type == "error" {
		variant = "border-red-200 bg-red-50 text-red-800"
	}
	h.printf(`<div role="alert" class="%s">%s</div>`, Class("mb-6 rounded-md border px-4 py-3 text-sm", variant), f.Message)
}
