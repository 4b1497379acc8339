package api

import (
	"context"

	"go.hackfix.me/courseapi/web/server/types"
)

// WelcomeMsg is the message returned by the root endpoint.
const WelcomeMsg = "Welcome to the REST API project!"

// RootGet returns a welcome message.
func (h *Handler) RootGet(_ context.Context, _ *types.BaseRequest) (*types.MessageResponse, error) {
	return types.NewMessageResponse(WelcomeMsg), nil
}
