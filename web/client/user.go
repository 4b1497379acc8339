package client

import (
	"context"
	"errors"
	"net/http"

	stypes "go.hackfix.me/courseapi/web/server/types"
)

// CreateUser creates a new user account.
func (c *Client) CreateUser(ctx context.Context, firstName, lastName, email, password string) error {
	reqData := &stypes.UserCreateRequest{
		FirstName:    firstName,
		LastName:     lastName,
		EmailAddress: email,
		Password:     password,
	}
	_, err := c.do(ctx, http.MethodPost, "/api/users", reqData, nil, http.StatusCreated)

	return err
}

// CurrentUser returns the user the client is authenticated as.
func (c *Client) CurrentUser(ctx context.Context) (*stypes.UserData, error) {
	var users []stypes.UserData
	if _, err := c.do(ctx, http.MethodGet, "/api/users", nil, &users, http.StatusOK); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, errors.New("no user returned")
	}

	return &users[0], nil
}
