package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/koassets/rights-backend/internal/review"
	"github.com/koassets/rights-backend/internal/rights"
)

type contextKey string

const (
	UserClaimsKey contextKey = "user_claims"
)

// AuthenticatedUser is the identity attached to the request context:
// the roster account plus its capability set, resolved once per request.
type AuthenticatedUser struct {
	Email        string
	Permissions  []string
	Capabilities rights.Capabilities
}

// Actor converts the authenticated user into the review engine's actor
// shape.
func (u *AuthenticatedUser) Actor() review.Actor {
	return review.Actor{Email: u.Email, Caps: u.Capabilities}
}

type Authenticator struct {
	jwtService *JWTService
	users      UserDirectory
}

func NewAuthenticator(jwtService *JWTService, users UserDirectory) *Authenticator {
	return &Authenticator{
		jwtService: jwtService,
		users:      users,
	}
}

// Authenticate is the AuthenticationFunc plugged into the OpenAPI
// request validator for every operation secured with BearerAuth.
func (a *Authenticator) Authenticate(ctx context.Context, input *openapi3filter.AuthenticationInput) error {
	if input.SecuritySchemeName != "BearerAuth" {
		return fmt.Errorf("authentication service missing")
	}

	authHeader := input.RequestValidationInput.Request.Header.Get("Authorization")
	if authHeader == "" {
		return fmt.Errorf("authorization header missing")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return fmt.Errorf("invalid authorization header format")
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	claims, err := a.jwtService.ValidateToken(ctx, token)
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}

	email := review.NormalizeEmail(claims.Email)
	user, err := a.users.GetUser(ctx, email)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	authenticatedUser := &AuthenticatedUser{
		Email:        user.Email,
		Permissions:  user.Permissions,
		Capabilities: rights.Resolve(user.Permissions),
	}

	*input.RequestValidationInput.Request = *input.RequestValidationInput.Request.WithContext(
		context.WithValue(input.RequestValidationInput.Request.Context(), UserClaimsKey, authenticatedUser),
	)

	return nil
}

func GetAuthenticatedUser(ctx context.Context) (*AuthenticatedUser, bool) {
	user, ok := ctx.Value(UserClaimsKey).(*AuthenticatedUser)
	return user, ok
}

// WithAuthenticatedUser injects an identity directly; used by tests.
func WithAuthenticatedUser(ctx context.Context, user *AuthenticatedUser) context.Context {
	return context.WithValue(ctx, UserClaimsKey, user)
}
