package middleware

import (
	"context"
	"errors"

	"roomdesk/internal/app/commands"
	domainauth "roomdesk/internal/domain/auth"
)

var (
	ErrUnauthenticated = errors.New("middleware: session required")
	ErrForbidden       = errors.New("middleware: insufficient permissions")
)

type sessionKey struct{}

// WithSession attaches the caller's session to ctx for the rest of the pipeline.
func WithSession(ctx context.Context, s *domainauth.Session) context.Context {
	if s == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFrom(ctx context.Context) (*domainauth.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*domainauth.Session)
	return s, ok && s != nil
}

// AdminOnly is implemented by commands that only administrators may issue.
type AdminOnly interface {
	RequiresAdmin() bool
}

// Authorization rejects commands dispatched without a session, and admin-only
// commands dispatched by staff. Commands issued by the system itself (no session,
// marked with WithSystem) pass.
func Authorization() CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if isSystem(ctx) {
				return next.Dispatch(ctx, cmd)
			}
			session, ok := SessionFrom(ctx)
			if !ok {
				return nil, ErrUnauthenticated
			}
			if ao, ok := cmd.(AdminOnly); ok && ao.RequiresAdmin() && !session.IsAdmin() {
				return nil, ErrForbidden
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}

type systemKey struct{}

func WithSystem(ctx context.Context) context.Context {
	return context.WithValue(ctx, systemKey{}, true)
}

func isSystem(ctx context.Context) bool {
	v, _ := ctx.Value(systemKey{}).(bool)
	return v
}
