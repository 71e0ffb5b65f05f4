package auth

import (
	"context"
	"net/http"

	"migration-estimator/core/types"
	"migration-estimator/internal/errors"
)

// ErrorHandler renders an authentication or authorization failure
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// UserLookup resolves token subjects to stored accounts
type UserLookup interface {
	GetUser(ctx context.Context, id uint) (*types.User, error)
}

func plainError(w http.ResponseWriter, _ *http.Request, err error) {
	status := http.StatusUnauthorized
	if errors.IsType(err, errors.TypeForbidden) {
		status = http.StatusForbidden
	}
	http.Error(w, err.Error(), status)
}

// Authenticator turns bearer tokens into request principals
type Authenticator struct {
	verifier *Verifier
	users    UserLookup
	fail     ErrorHandler
}

// NewAuthenticator creates an authenticator. When users is non-nil the token's
// account must exist and be active, and its stored role wins over the token's.
func NewAuthenticator(verifier *Verifier, users UserLookup, fail ErrorHandler) *Authenticator {
	if fail == nil {
		fail = plainError
	}
	return &Authenticator{verifier: verifier, users: users, fail: fail}
}

// Authenticate resolves the principal for an Authorization header value
func (a *Authenticator) Authenticate(ctx context.Context, header string) (types.Principal, error) {
	token, ok := BearerToken(header)
	if !ok {
		return types.Principal{}, errors.Unauthorized("missing bearer token")
	}

	p, err := a.verifier.Verify(token)
	if err != nil {
		return types.Principal{}, err
	}
	if a.users == nil {
		return p, nil
	}

	user, err := a.users.GetUser(ctx, p.UserID)
	if err != nil {
		if errors.IsType(err, errors.TypeNotFound) {
			return types.Principal{}, errors.Unauthorized("user not found or inactive")
		}
		return types.Principal{}, err
	}
	if !user.IsActive {
		return types.Principal{}, errors.Unauthorized("user not found or inactive")
	}
	return types.Principal{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// Middleware requires a valid bearer token on every request
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := a.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			a.fail(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), p)))
	})
}

// RequireRole rejects principals below min. It must run inside Middleware.
func (a *Authenticator) RequireRole(min types.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				a.fail(w, r, errors.Unauthorized("not authenticated"))
				return
			}
			if !p.Can(min) {
				a.fail(w, r, errors.Newf(errors.TypeForbidden, "%s role required", min))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
