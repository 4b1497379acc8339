package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.hackfix.me/courseapi/db/models"
	dbtypes "go.hackfix.me/courseapi/db/types"
	"go.hackfix.me/courseapi/web/server/types"
)

// DuplicateEmailMsg is returned when creating a user with an email address
// that is already registered.
const DuplicateEmailMsg = "Email address already in use!"

// UsersPost creates a new user account.
func (h *Handler) UsersPost(ctx context.Context, req *types.UserCreateRequest) (*types.CreatedResponse, error) {
	user, err := models.NewUser(req.FirstName, req.LastName, req.EmailAddress, req.Password)
	if err != nil {
		return nil, userError("failed creating user", err)
	}

	if err = user.Save(ctx, h.appCtx.DB, false); err != nil {
		return nil, userError("failed saving user", err)
	}

	h.logger.Debug("created user", "user_id", user.ID)

	return types.NewCreatedResponse("/"), nil
}

// UsersGet returns the authenticated user.
func (h *Handler) UsersGet(_ context.Context, req *types.BaseRequest) (*types.UserListResponse, error) {
	return types.NewUserListResponse(req.User), nil
}

// userError converts errors from creating a user to HTTP errors. Any other
// error is wrapped with msg.
func userError(msg string, err error) error {
	var (
		errValidation dbtypes.ValidationError
		errDuplicate  dbtypes.DuplicateError
	)
	switch {
	case errors.As(err, &errValidation):
		return types.NewError(http.StatusBadRequest, errValidation.Error())
	case errors.As(err, &errDuplicate):
		return types.NewError(http.StatusBadRequest, DuplicateEmailMsg)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
