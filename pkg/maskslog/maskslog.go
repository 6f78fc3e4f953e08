// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package maskslog provides a slog.Handler which masks sensitive
// values before they are written.
package maskslog

import (
	"context"
	"log/slog"
)

// Option helps configure the Handler.
type Option func(*Handler)

// Message registers a function for masking slog.Record messages.
func Message(f func(string) string) Option {
	return func(h *Handler) {
		h.messages = append(h.messages, f)
	}
}

// Attr registers a function for masking top level slog.Attrs with the given key.
func Attr(key string, f func(slog.Attr) slog.Attr) Option {
	return func(h *Handler) {
		h.attrs[key] = f
	}
}

// Redact replaces the value of a with the string "****",
// regardless of its original type.
func Redact(a slog.Attr) slog.Attr {
	return slog.String(a.Key, "****")
}

// Handler is an slog.Handler which masks messages and attrs.
type Handler struct {
	slog     slog.Handler
	messages []func(string) string
	attrs    map[string]func(slog.Attr) slog.Attr
}

// NewHandler returns a new Handler.
func NewHandler(h slog.Handler, opts ...Option) *Handler {
	mh := &Handler{
		slog:  h,
		attrs: make(map[string]func(slog.Attr) slog.Attr),
	}
	for _, opt := range opts {
		opt(mh)
	}
	return mh
}

// Enabled implements the slog.Handler interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	msg := record.Message
	for _, f := range h.messages {
		msg = f(msg)
	}

	r := slog.NewRecord(record.Time, record.Level, msg, record.PC)
	record.Attrs(func(a slog.Attr) bool {
		r.AddAttrs(h.mask(a))
		return true
	})
	return h.slog.Handle(ctx, r)
}

func (h *Handler) mask(a slog.Attr) slog.Attr {
	f, ok := h.attrs[a.Key]
	if !ok {
		return a
	}
	return f(a)
}

// WithAttrs implements the slog.Handler interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.mask(a)
	}
	return h.with(h.slog.WithAttrs(masked))
}

// WithGroup implements the slog.Handler interface. Attrs added
// after a group are no longer top level and are not masked.
func (h *Handler) WithGroup(name string) slog.Handler {
	nh := h.with(h.slog.WithGroup(name))
	nh.attrs = map[string]func(slog.Attr) slog.Attr{}
	return nh
}

func (h *Handler) with(sh slog.Handler) *Handler {
	return &Handler{
		slog:     sh,
		messages: h.messages,
		attrs:    h.attrs,
	}
}
