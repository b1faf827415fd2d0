package testutil

import (
	"context"

	"github.com/koassets/rights-backend/internal/auth"
	"github.com/koassets/rights-backend/internal/rights"
)

// ContextWithUser builds a context carrying an authenticated portal user
// with the capabilities its permission tokens resolve to.
func ContextWithUser(ctx context.Context, email string, permissions ...string) context.Context {
	return auth.WithAuthenticatedUser(ctx, &auth.AuthenticatedUser{
		Email:        email,
		Permissions:  permissions,
		Capabilities: rights.Resolve(permissions),
	})
}
