package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.hackfix.me/courseapi/db/models"
	dbtypes "go.hackfix.me/courseapi/db/types"
	"go.hackfix.me/courseapi/web/server/types"
)

// NotAuthorizedMsg is the message returned for any failed authentication.
const NotAuthorizedMsg = "Sorry, not Authorized"

// Authenticator validates a request and returns an updated context or an error.
// If authentication is successful, a valid User will be set on the Request.
type Authenticator func(context.Context, types.Request) (context.Context, error)

// BasicAuth creates an authenticator that validates requests using HTTP Basic
// credentials. The username is the user's email address, and the password is
// checked against the stored bcrypt hash. Unknown users and wrong passwords
// fail in the same way.
func BasicAuth(d dbtypes.Querier) Authenticator {
	return func(ctx context.Context, req types.Request) (context.Context, error) {
		email, password, ok := req.GetHTTPRequest().BasicAuth()
		if !ok || email == "" {
			return ctx, types.NewError(http.StatusUnauthorized, NotAuthorizedMsg)
		}

		user := &models.User{EmailAddress: email}
		if err := user.Load(ctx, d); err != nil {
			var errNoRes dbtypes.NoResultError
			if errors.As(err, &errNoRes) {
				return ctx, types.NewError(http.StatusUnauthorized, NotAuthorizedMsg)
			}
			return ctx, fmt.Errorf("failed loading user: %w", err)
		}

		if !user.CheckPassword(password) {
			return ctx, types.NewError(http.StatusUnauthorized, NotAuthorizedMsg)
		}

		req.SetUser(user)

		return ctx, nil
	}
}
