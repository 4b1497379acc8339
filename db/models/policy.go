package models

import (
	"fmt"

	"github.com/zpatrick/rbac"
)

// Action is an operation a user may perform on a course.
type Action string

// Valid actions.
const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Role returns the access role of the user. Every user may read every course,
// and may perform any action on the courses they own.
func (u *User) Role() rbac.Role {
	return rbac.Role{
		RoleID: fmt.Sprintf("user:%d", u.ID),
		Permissions: []rbac.Permission{
			rbac.NewGlobPermission(string(ActionRead), "course:*"),
			rbac.NewGlobPermission("*", courseTarget(u.ID)),
		},
	}
}

// Can reports whether the user is allowed to perform action on course c.
func (u *User) Can(action Action, c *Course) (bool, error) {
	ok, err := u.Role().Can(string(action), courseTarget(c.UserID))
	if err != nil {
		return false, fmt.Errorf("failed checking %s permission on course %d: %w", action, c.ID, err)
	}
	return ok, nil
}

func courseTarget(ownerID uint64) string {
	return fmt.Sprintf("course:owner:%d", ownerID)
}
