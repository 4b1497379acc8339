package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.hackfix.me/courseapi/crypto"
	"go.hackfix.me/courseapi/db/types"
)

// User is an account that can authenticate to the API and own courses.
type User struct {
	ID           uint64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	FirstName    string `label:"First Name" validate:"required"`
	LastName     string `label:"Last Name" validate:"required"`
	EmailAddress string `label:"Email Address" validate:"required,email_address"`
	// Password is the bcrypt hash of the user's password.
	Password string `label:"Password" validate:"required"`
}

// PasswordTooLongMsg is the validation message for passwords that can't be
// hashed.
var PasswordTooLongMsg = fmt.Sprintf(`"Password" must be at most %d bytes long`, crypto.MaxPasswordLength)

// NewUser returns a new user with the given plaintext password hashed. An
// empty password results in an empty hash, which fails validation on Save. A
// password that is too long is reported as a types.ValidationError.
func NewUser(firstName, lastName, emailAddress, password string) (*User, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		if errors.Is(err, crypto.ErrPasswordTooLong) {
			return nil, types.ValidationError{ModelName: "user", Msgs: []string{PasswordTooLongMsg}}
		}
		return nil, err
	}

	return &User{
		FirstName:    firstName,
		LastName:     lastName,
		EmailAddress: emailAddress,
		Password:     hash,
	}, nil
}

// CheckPassword reports whether password matches the user's stored hash.
func (u *User) CheckPassword(password string) bool {
	return crypto.CheckPassword(u.Password, password)
}

// Save stores the user data in the database. The password hash is written
// only on creation.
func (u *User) Save(ctx context.Context, d types.Querier, update bool) error {
	if err := validateModel("user", u); err != nil {
		return err
	}

	timeNow := d.TimeNow().UTC()
	if update {
		filter, filterStr, err := u.createFilter("")
		if err != nil {
			return err
		}

		args := append([]any{timeNow, u.FirstName, u.LastName, u.EmailAddress}, filter.Args...)
		updateStmt := fmt.Sprintf(`UPDATE users
			SET updated_at = ?,
			    first_name = ?,
			    last_name = ?,
			    email_address = ?
			WHERE %s`, filter.Where)
		res, err := d.ExecContext(ctx, updateStmt, args...)
		if err != nil {
			return types.Err("user", filterStr, err)
		}
		if err = affectedOne(res, "user", filterStr); err != nil {
			return err
		}
		u.UpdatedAt = timeNow

		return nil
	}

	insertStmt := `INSERT INTO users
		(id, created_at, updated_at, first_name, last_name, email_address, password)
		VALUES (NULL, ?, ?, ?, ?, ?, ?)`
	res, err := d.ExecContext(ctx, insertStmt,
		timeNow, timeNow, u.FirstName, u.LastName, u.EmailAddress, u.Password)
	if err != nil {
		return types.Err("user", fmt.Sprintf("email '%s'", u.EmailAddress), err)
	}

	u.ID, err = lastInsertID(res)
	if err != nil {
		return err
	}
	u.CreatedAt = timeNow
	u.UpdatedAt = timeNow

	return nil
}

// Load the user data from the database. Either the user ID or EmailAddress
// must be set for the lookup.
func (u *User) Load(ctx context.Context, d types.Querier) error {
	filter, filterStr, err := u.createFilter("u.")
	if err != nil {
		return err
	}

	users, err := Users(ctx, d, filter)
	if err != nil {
		return err
	}

	if len(users) == 0 {
		return types.NoResultError{ModelName: "user", ID: filterStr}
	}

	// The unique constraints on users.id and users.email_address should return
	// only a single result.
	if len(users) > 1 {
		return types.IntegrityError{Msg: fmt.Sprintf("users query returned %d users", len(users))}
	}
	*u = *users[0]

	return nil
}

// Delete removes the user data from the database. Either the user ID or
// EmailAddress must be set for the lookup. It returns an error if the user
// doesn't exist, or if they still own courses.
func (u *User) Delete(ctx context.Context, d types.Querier) error {
	filter, filterStr, err := u.createFilter("")
	if err != nil {
		return err
	}

	stmt := fmt.Sprintf(`DELETE FROM users WHERE %s`, filter.Where)

	res, err := d.ExecContext(ctx, stmt, filter.Args...)
	if err != nil {
		return types.Err("user", filterStr, err)
	}

	return affectedOne(res, "user", filterStr)
}

func (u *User) createFilter(prefix string) (*types.Filter, string, error) {
	switch {
	case u.ID != 0:
		return types.NewFilter(prefix+"id = ?", []any{u.ID}), fmt.Sprintf("ID %d", u.ID), nil
	case u.EmailAddress != "":
		return types.NewFilter(prefix+"email_address = ?", []any{u.EmailAddress}),
			fmt.Sprintf("email '%s'", u.EmailAddress), nil
	default:
		return nil, "", types.InvalidInputError{Msg: "either user ID or EmailAddress must be set"}
	}
}

// Users returns one or more users from the database. An optional filter can be
// passed to limit the results.
func Users(ctx context.Context, d types.Querier, filter *types.Filter) (users []*User, rerr error) {
	query := `SELECT u.id, u.created_at, u.updated_at, u.first_name, u.last_name,
			u.email_address, u.password
		FROM users u %s
		ORDER BY u.id ASC`

	where := "1=1"
	args := []any{}
	if filter != nil {
		where = filter.Where
		args = filter.Args
	}

	query = fmt.Sprintf(query, fmt.Sprintf("WHERE %s", where))

	rows, err := d.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, types.LoadError{ModelName: "users", Err: err}
	}
	defer func() {
		if err = rows.Close(); err != nil {
			rerr = errors.Join(rerr, fmt.Errorf("failed closing users rows: %w", err))
		}
	}()

	users = make([]*User, 0)
	for rows.Next() {
		var u User
		err = rows.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.FirstName, &u.LastName,
			&u.EmailAddress, &u.Password)
		if err != nil {
			return nil, types.ScanError{ModelName: "user", Err: err}
		}
		users = append(users, &u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating over users rows: %w", err)
	}

	return users, nil
}
