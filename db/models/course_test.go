package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/courseapi/db/models"
	"go.hackfix.me/courseapi/db/types"
)

func TestCourseSave(t *testing.T) {
	t.Parallel()

	d := newTestDB(t)
	joe := newTestUser(t, d, "Joe", "joe@smith.com")

	tests := []struct {
		name   string
		course *models.Course
		expErr string
	}{
		{
			name:   "ok/valid",
			course: &models.Course{Title: "Go", Description: "Learn Go", UserID: joe.ID},
		},
		{
			name:   "err/missing_title",
			course: &models.Course{Description: "Learn Go", UserID: joe.ID},
			expErr: `"Title" is required`,
		},
		{
			name:   "err/missing_all",
			course: &models.Course{},
			expErr: `"Title" is required; "Description" is required; "User ID" is required`,
		},
		{
			name:   "err/unknown_owner",
			course: &models.Course{Title: "Go", Description: "Learn Go", UserID: 999},
			expErr: "course with owner ID 999 is referenced by, or references, another record",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.course.Save(t.Context(), d, false)
			if tt.expErr != "" {
				assert.EqualError(t, err, tt.expErr)
				assert.Zero(t, tt.course.ID)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, tt.course.ID)
			assert.True(t, timeNow.Equal(tt.course.CreatedAt))
		})
	}
}

func TestCourseLoad(t *testing.T) {
	t.Parallel()

	d := newTestDB(t)
	joe := newTestUser(t, d, "Joe", "joe@smith.com")
	sally := newTestUser(t, d, "Sally", "sally@jones.com")

	c1 := &models.Course{Title: "Go", Description: "Learn Go", UserID: joe.ID}
	require.NoError(t, c1.Save(t.Context(), d, false))
	c2 := &models.Course{Title: "SQL", Description: "Learn SQL", UserID: sally.ID}
	require.NoError(t, c2.Save(t.Context(), d, false))

	t.Run("ok/with_owner", func(t *testing.T) {
		c := &models.Course{ID: c2.ID}
		require.NoError(t, c.Load(t.Context(), d))
		assert.Equal(t, "SQL", c.Title)
		assert.Equal(t, sally.ID, c.UserID)
		require.NotNil(t, c.Owner)
		assert.Equal(t, "sally@jones.com", c.Owner.EmailAddress)
	})

	t.Run("err/not_found", func(t *testing.T) {
		err := (&models.Course{ID: 999}).Load(t.Context(), d)
		var nerr types.NoResultError
		require.ErrorAs(t, err, &nerr)
		assert.EqualError(t, err, "course with ID 999 doesn't exist")
	})

	t.Run("ok/list", func(t *testing.T) {
		courses, err := models.Courses(t.Context(), d, nil)
		require.NoError(t, err)
		require.Len(t, courses, 2)
		assert.Equal(t, c1.ID, courses[0].ID)
		assert.Equal(t, "Joe", courses[0].Owner.FirstName)
		assert.Equal(t, c2.ID, courses[1].ID)
	})
}

func TestCourseUpdate(t *testing.T) {
	t.Parallel()

	d := newTestDB(t)
	joe := newTestUser(t, d, "Joe", "joe@smith.com")
	sally := newTestUser(t, d, "Sally", "sally@jones.com")

	c := &models.Course{Title: "Go", Description: "Learn Go", UserID: joe.ID}
	require.NoError(t, c.Save(t.Context(), d, false))

	t.Run("ok/owner", func(t *testing.T) {
		upd := *c
		upd.Title = "Advanced Go"
		require.NoError(t, upd.Save(t.Context(), d, true))

		loaded := &models.Course{ID: c.ID}
		require.NoError(t, loaded.Load(t.Context(), d))
		assert.Equal(t, "Advanced Go", loaded.Title)
		assert.Equal(t, "Learn Go", loaded.Description)
	})

	t.Run("err/not_owner", func(t *testing.T) {
		upd := *c
		upd.UserID = sally.ID
		upd.Title = "Stolen"
		var nerr types.NoResultError
		require.ErrorAs(t, upd.Save(t.Context(), d, true), &nerr)

		loaded := &models.Course{ID: c.ID}
		require.NoError(t, loaded.Load(t.Context(), d))
		assert.Equal(t, "Advanced Go", loaded.Title)
		assert.Equal(t, joe.ID, loaded.UserID)
	})

	t.Run("err/empty_title", func(t *testing.T) {
		upd := *c
		upd.Title = ""
		var verr types.ValidationError
		require.ErrorAs(t, upd.Save(t.Context(), d, true), &verr)
	})
}

func TestCourseDelete(t *testing.T) {
	t.Parallel()

	d := newTestDB(t)
	joe := newTestUser(t, d, "Joe", "joe@smith.com")
	sally := newTestUser(t, d, "Sally", "sally@jones.com")

	c1 := &models.Course{Title: "Go", Description: "Learn Go", UserID: joe.ID}
	require.NoError(t, c1.Save(t.Context(), d, false))
	c2 := &models.Course{Title: "SQL", Description: "Learn SQL", UserID: joe.ID}
	require.NoError(t, c2.Save(t.Context(), d, false))

	t.Run("err/not_owner", func(t *testing.T) {
		err := (&models.Course{ID: c1.ID, UserID: sally.ID}).Delete(t.Context(), d)
		var nerr types.NoResultError
		require.ErrorAs(t, err, &nerr)
		require.NoError(t, (&models.Course{ID: c1.ID}).Load(t.Context(), d))
	})

	t.Run("ok/owner", func(t *testing.T) {
		require.NoError(t, (&models.Course{ID: c1.ID, UserID: joe.ID}).Delete(t.Context(), d))
		var nerr types.NoResultError
		require.ErrorAs(t, (&models.Course{ID: c1.ID}).Load(t.Context(), d), &nerr)
	})

	t.Run("ok/any_owner", func(t *testing.T) {
		require.NoError(t, (&models.Course{ID: c2.ID}).Delete(t.Context(), d))
	})

	t.Run("err/not_found", func(t *testing.T) {
		var nerr types.NoResultError
		require.ErrorAs(t, (&models.Course{ID: c2.ID}).Delete(t.Context(), d), &nerr)
	})
}

func TestUserCan(t *testing.T) {
	t.Parallel()

	owner := &models.User{ID: 1}
	other := &models.User{ID: 12}
	course := &models.Course{ID: 5, UserID: owner.ID}

	tests := []struct {
		name   string
		user   *models.User
		action models.Action
		exp    bool
	}{
		{name: "ok/owner_read", user: owner, action: models.ActionRead, exp: true},
		{name: "ok/owner_update", user: owner, action: models.ActionUpdate, exp: true},
		{name: "ok/owner_delete", user: owner, action: models.ActionDelete, exp: true},
		{name: "ok/other_read", user: other, action: models.ActionRead, exp: true},
		{name: "err/other_update", user: other, action: models.ActionUpdate},
		{name: "err/other_delete", user: other, action: models.ActionDelete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ok, err := tt.user.Can(tt.action, course)
			require.NoError(t, err)
			assert.Equal(t, tt.exp, ok)
		})
	}
}
