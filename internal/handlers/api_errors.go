package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	apierrors "github.com/exampleco/orders-api/internal/shared/errors"
)

// Boundary is the single place where handler failures become responses.
// Tagged errors keep their status; anything else, including a panic, is a
// 500 carrying the failure text.
type Boundary struct {
	responder *apierrors.Responder
	logger    *slog.Logger
}

// NewBoundary builds a boundary. A nil responder means the default one.
func NewBoundary(logger *slog.Logger, responder *apierrors.Responder) *Boundary {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if responder == nil {
		responder = apierrors.DefaultResponder
	}
	return &Boundary{responder: responder, logger: logger}
}

// Wrap applies the boundary to h. The returned handler never returns an error.
func (b *Boundary) Wrap(name string, h Handler) Handler {
	return func(ctx context.Context, req Request) (resp Response, err error) {
		defer func() {
			if r := recover(); r != nil {
				resp, err = b.failure(ctx, name, fmt.Errorf("%v", r), true), nil
			}
		}()
		resp, err = h(ctx, req)
		if err != nil {
			return b.failure(ctx, name, err, false), nil
		}
		return resp, nil
	}
}

func (b *Boundary) failure(ctx context.Context, name string, err error, panicked bool) Response {
	status, payload := b.responder.Render(err)
	if status >= http.StatusInternalServerError {
		b.logger.LogAttrs(ctx, slog.LevelError, "handler failed",
			slog.String("handler", name),
			slog.String("error", err.Error()),
			slog.Bool("panic", panicked),
		)
	}
	body := string(payload)
	return Response{StatusCode: status, Body: &body}
}
