package types

import (
	"net/http"

	"go.hackfix.me/courseapi/db/models"
)

// UserCreateRequest is the request data to create a new user account.
type UserCreateRequest struct {
	BaseRequest  `json:"-"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

// Validate checks that the request is valid and ready for processing. Missing
// fields are reported by the model validation instead.
func (r *UserCreateRequest) Validate() error {
	if r.EmailAddress != "" && !models.ValidEmail(r.EmailAddress) {
		return NewError(http.StatusBadRequest, models.InvalidEmailMsg)
	}
	return nil
}

// UserData is the public representation of a user. It never includes the
// password hash or timestamps.
type UserData struct {
	ID           uint64 `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
}

// NewUserData returns the public representation of u.
func NewUserData(u *models.User) UserData {
	return UserData{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		EmailAddress: u.EmailAddress,
	}
}

// UserListResponse is the response to a request for the authenticated user.
type UserListResponse struct {
	BaseResponse
	Users []UserData
}

// NewUserListResponse creates a new UserListResponse with HTTP 200 status.
func NewUserListResponse(users ...*models.User) *UserListResponse {
	data := make([]UserData, 0, len(users))
	for _, u := range users {
		data = append(data, NewUserData(u))
	}
	return &UserListResponse{
		BaseResponse: NewBaseResponse(http.StatusOK, nil),
		Users:        data,
	}
}

// GetData returns the list of users.
func (r *UserListResponse) GetData() any {
	return r.Users
}
