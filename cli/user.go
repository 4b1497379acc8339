package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	actx "go.hackfix.me/courseapi/app/context"
	aerrors "go.hackfix.me/courseapi/app/errors"
	"go.hackfix.me/courseapi/db/models"
	dbtypes "go.hackfix.me/courseapi/db/types"
)

// The User command manages user accounts.
type User struct {
	Add UserAdd `kong:"cmd,help='Add a new user.'"`
	Rm  UserRm  `kong:"cmd,help='Remove a user.'"`
	Ls  UserLs  `kong:"cmd,help='List users.'"`
}

// UserAdd creates a new user account.
type UserAdd struct {
	FirstName    string `arg:"" help:"The first name of the user."`
	LastName     string `arg:"" help:"The last name of the user."`
	EmailAddress string `arg:"" type:"email" help:"The unique email address of the user."`
	Password     string `help:"The password of the user. If not set, it's read from stdin."`
}

// Run the user add command.
func (c *UserAdd) Run(appCtx *actx.Context) error {
	password := c.Password
	if password == "" {
		line, err := bufio.NewReader(appCtx.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return aerrors.NewRuntimeError("failed reading password from stdin", err,
				"pass the password with --password, or write it to stdin")
		}
		password = strings.TrimRight(line, "\r\n")
	}

	user, err := models.NewUser(c.FirstName, c.LastName, c.EmailAddress, password)
	if err != nil {
		return aerrors.NewRuntimeError(
			fmt.Sprintf("failed adding user '%s'", c.EmailAddress), err, "")
	}

	if err = user.Save(appCtx.DB.NewContext(), appCtx.DB, false); err != nil {
		return aerrors.NewRuntimeError(
			fmt.Sprintf("failed adding user '%s'", c.EmailAddress), err, "")
	}

	appCtx.Logger.Info("added user", "user.id", user.ID, "user.email", user.EmailAddress)

	return nil
}

// UserRm removes a user account.
type UserRm struct {
	EmailAddress string `arg:"" type:"email" help:"The email address of the user."`
}

// Run the user rm command.
func (c *UserRm) Run(appCtx *actx.Context) error {
	user := &models.User{EmailAddress: c.EmailAddress}
	if err := user.Delete(appCtx.DB.NewContext(), appCtx.DB); err != nil {
		var errRef dbtypes.ReferenceError
		if errors.As(err, &errRef) {
			return aerrors.NewRuntimeError(
				fmt.Sprintf("failed removing user '%s'", c.EmailAddress), err,
				"remove the courses owned by the user first")
		}
		return aerrors.NewRuntimeError(
			fmt.Sprintf("failed removing user '%s'", c.EmailAddress), err, "")
	}

	appCtx.Logger.Info("removed user", "user.email", c.EmailAddress)

	return nil
}

// UserLs lists user accounts.
type UserLs struct{}

// Run the user ls command.
func (c *UserLs) Run(appCtx *actx.Context) error {
	users, err := models.Users(appCtx.DB.NewContext(), appCtx.DB, nil)
	if err != nil {
		return aerrors.NewRuntimeError("failed listing users", err, "")
	}

	data := make([][]string, len(users))
	for i, user := range users {
		data[i] = []string{
			strconv.FormatUint(user.ID, 10),
			user.FirstName,
			user.LastName,
			user.EmailAddress,
			user.CreatedAt.UTC().Format(time.DateTime),
		}
	}

	if len(data) > 0 {
		header := []string{"ID", "First Name", "Last Name", "Email", "Created"}
		if err = renderTable(header, data, appCtx.Stdout); err != nil {
			return aerrors.NewRuntimeError("failed rendering table", err, "")
		}
	}

	return nil
}
