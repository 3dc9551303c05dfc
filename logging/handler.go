// Package logging provides the slog.Handler used by the synacorvm command
// line entry point. It is adapted from rcornwell/S370's util/logger package:
// a mutex-guarded text formatter over an optional file, mirrored to stderr
// above a threshold. S370 mirrors warning-and-above records (or everything,
// in debug mode); this handler mirrors fault-and-above records (or
// everything, when verbose is requested), since a VM run has no notion of
// "warning" short of the fault that ends it.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Handler is a slog.Handler that writes formatted records to an optional
// file and mirrors them to stderr, either always (when Verbose is set) or
// only at slog.LevelError and above. It delegates actual formatting to a
// pair of stdlib slog.TextHandlers so that attrs and groups accumulated via
// WithAttrs/WithGroup are carried into both destinations rather than
// silently dropped.
type Handler struct {
	file    slog.Handler // nil if no log file was configured
	stderr  slog.Handler
	mu      *sync.Mutex
	verbose bool
}

// NewHandler constructs a Handler. file may be nil, in which case records
// are only ever mirrored to stderr. opts may be nil.
func NewHandler(file io.Writer, opts *slog.HandlerOptions, verbose bool) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	h := &Handler{
		stderr:  slog.NewTextHandler(os.Stderr, opts),
		mu:      &sync.Mutex{},
		verbose: verbose,
	}
	if file != nil {
		h.file = slog.NewTextHandler(file, opts)
	}
	return h
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.stderr.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	n := &Handler{stderr: h.stderr.WithAttrs(attrs), mu: h.mu, verbose: h.verbose}
	if h.file != nil {
		n.file = h.file.WithAttrs(attrs)
	}
	return n
}

func (h *Handler) WithGroup(name string) slog.Handler {
	n := &Handler{stderr: h.stderr.WithGroup(name), mu: h.mu, verbose: h.verbose}
	if h.file != nil {
		n.file = h.file.WithGroup(name)
	}
	return n
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.file != nil {
		err = h.file.Handle(ctx, r)
	}
	if h.verbose || r.Level >= slog.LevelError {
		if serr := h.stderr.Handle(ctx, r); err == nil {
			err = serr
		}
	}
	return err
}
