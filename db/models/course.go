package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.hackfix.me/courseapi/db/types"
)

// Course is a course owned by a single user.
type Course struct {
	ID          uint64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Title       string `label:"Title" validate:"required"`
	Description string `label:"Description" validate:"required"`
	UserID      uint64 `label:"User ID" validate:"required"`
	// Owner is populated when the course is loaded from the database.
	Owner *User `validate:"-"`
}

// Save stores the course data in the database. When updating, only the title
// and description are changed, and only if the course is still owned by
// UserID, so that an ownership check made before calling Save holds.
func (c *Course) Save(ctx context.Context, d types.Querier, update bool) error {
	if err := validateModel("course", c); err != nil {
		return err
	}

	timeNow := d.TimeNow().UTC()
	if update {
		if c.ID == 0 {
			return types.InvalidInputError{Msg: "course ID must be set"}
		}
		filterStr := fmt.Sprintf("ID %d", c.ID)

		res, err := d.ExecContext(ctx, `UPDATE courses
			SET updated_at = ?,
			    title = ?,
			    description = ?
			WHERE id = ? AND user_id = ?`,
			timeNow, c.Title, c.Description, c.ID, c.UserID)
		if err != nil {
			return types.Err("course", filterStr, err)
		}
		if err = affectedOne(res, "course", filterStr); err != nil {
			return err
		}
		c.UpdatedAt = timeNow

		return nil
	}

	insertStmt := `INSERT INTO courses
		(id, created_at, updated_at, title, description, user_id)
		VALUES (NULL, ?, ?, ?, ?, ?)`
	res, err := d.ExecContext(ctx, insertStmt,
		timeNow, timeNow, c.Title, c.Description, c.UserID)
	if err != nil {
		return types.Err("course", fmt.Sprintf("owner ID %d", c.UserID), err)
	}

	c.ID, err = lastInsertID(res)
	if err != nil {
		return err
	}
	c.CreatedAt = timeNow
	c.UpdatedAt = timeNow

	return nil
}

// Load the course data, including its owner, from the database. The course ID
// must be set for the lookup.
func (c *Course) Load(ctx context.Context, d types.Querier) error {
	if c.ID == 0 {
		return types.InvalidInputError{Msg: "course ID must be set"}
	}

	courses, err := Courses(ctx, d, types.NewFilter("c.id = ?", []any{c.ID}))
	if err != nil {
		return err
	}

	if len(courses) == 0 {
		return types.NoResultError{ModelName: "course", ID: fmt.Sprintf("ID %d", c.ID)}
	}
	*c = *courses[0]

	return nil
}

// Delete removes the course from the database. If UserID is set, the course is
// only deleted if it's still owned by that user. It returns an error if no
// course was deleted.
func (c *Course) Delete(ctx context.Context, d types.Querier) error {
	if c.ID == 0 {
		return types.InvalidInputError{Msg: "course ID must be set"}
	}

	filter := types.NewFilter("id = ?", []any{c.ID})
	filterStr := fmt.Sprintf("ID %d", c.ID)
	if c.UserID != 0 {
		filter = filter.And(types.NewFilter("user_id = ?", []any{c.UserID}))
	}

	stmt := fmt.Sprintf(`DELETE FROM courses WHERE %s`, filter.Where)
	res, err := d.ExecContext(ctx, stmt, filter.Args...)
	if err != nil {
		return types.Err("course", filterStr, err)
	}

	return affectedOne(res, "course", filterStr)
}

// Courses returns one or more courses joined with their owners. An optional
// filter can be passed to limit the results.
func Courses(ctx context.Context, d types.Querier, filter *types.Filter) (courses []*Course, rerr error) {
	query := `SELECT c.id, c.created_at, c.updated_at, c.title, c.description, c.user_id,
			u.id, u.created_at, u.updated_at, u.first_name, u.last_name,
			u.email_address, u.password
		FROM courses c
		INNER JOIN users u ON u.id = c.user_id
		%s
		ORDER BY c.id ASC`

	where := "1=1"
	args := []any{}
	if filter != nil {
		where = filter.Where
		args = filter.Args
	}

	query = fmt.Sprintf(query, fmt.Sprintf("WHERE %s", where))

	rows, err := d.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, types.LoadError{ModelName: "courses", Err: err}
	}
	defer func() {
		if err = rows.Close(); err != nil {
			rerr = errors.Join(rerr, fmt.Errorf("failed closing courses rows: %w", err))
		}
	}()

	courses = make([]*Course, 0)
	for rows.Next() {
		var (
			c Course
			u User
		)
		err = rows.Scan(
			&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Title, &c.Description, &c.UserID,
			&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.FirstName, &u.LastName,
			&u.EmailAddress, &u.Password,
		)
		if err != nil {
			return nil, types.ScanError{ModelName: "course", Err: err}
		}
		c.Owner = &u
		courses = append(courses, &c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating over courses rows: %w", err)
	}

	return courses, nil
}
