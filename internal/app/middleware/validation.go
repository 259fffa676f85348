package middleware

import (
	"context"
	"fmt"

	"roomdesk/internal/app/commands"
	"roomdesk/internal/app/queries"
)

// Validator checks the struct tags of commands and queries. Errors it returns
// should unwrap to something the HTTP layer maps to 400.
type Validator interface {
	Validate(ctx context.Context, message any) error
}

// Validation rejects a command before it reaches its handler, so an invalid
// quick booking never calls the hotel backend. The command key prefixes the
// error.
func Validation(v Validator) CommandMiddleware {
	if v == nil {
		panic("middleware: validator required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := v.Validate(ctx, cmd); err != nil {
				return nil, fmt.Errorf("%s: %w", cmd.Key(), err)
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}

func QueryValidation(v Validator) QueryMiddleware {
	if v == nil {
		panic("middleware: validator required")
	}
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := v.Validate(ctx, q); err != nil {
				return nil, fmt.Errorf("%s: %w", q.Key(), err)
			}
			return next.Ask(ctx, q)
		})
	}
}
