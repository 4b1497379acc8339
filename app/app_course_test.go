package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go.hackfix.me/courseapi/db/models"
	"go.hackfix.me/courseapi/db/types"
)

func TestAppCourse(t *testing.T) {
	t.Parallel()

	tctx, cancel, h := newTestContext(t, 5*time.Second)
	defer cancel()

	app, err := newTestApp(tctx)
	h(assert.NoError(t, err))
	h(assert.NoError(t, initTestDB(app.ctx, nil, nil)))

	err = app.Run("course", "ls")
	h(assert.NoError(t, err))
	h(assert.Empty(t, app.stdout.String()))

	jane, err := models.NewUser("Jane", "Doe", "jane@doe.com", "s3cret")
	h(assert.NoError(t, err))
	h(assert.NoError(t, jane.Save(tctx, app.ctx.DB, false)))
	for _, title := range []string{"Build a Basic Bookcase", "Learn How to Program"} {
		c := &models.Course{Title: title, Description: "Description", UserID: jane.ID}
		h(assert.NoError(t, c.Save(tctx, app.ctx.DB, false)))
	}

	err = app.Run("course", "ls")
	h(assert.NoError(t, err))
	stdout := app.stdout.String()
	for _, exp := range []string{
		"Title", "Owner", "Build a Basic Bookcase", "Learn How to Program", "jane@doe.com",
	} {
		h(assert.Contains(t, stdout, exp))
	}

	err = app.Run("course", "rm", "1")
	h(assert.NoError(t, err))
	h(assert.Contains(t, app.stderr.String(), "removed course"))

	err = app.Run("course", "rm", "1")
	h(assert.ErrorContains(t, err, "failed removing course 1"))
	var errNoRes types.NoResultError
	h(assert.ErrorAs(t, err, &errNoRes))

	err = app.Run("course", "ls")
	h(assert.NoError(t, err))
	h(assert.NotContains(t, app.stdout.String(), "Build a Basic Bookcase"))
	h(assert.Contains(t, app.stdout.String(), "Learn How to Program"))

	err = app.Run("course", "rm", "abc")
	h(assert.ErrorContains(t, err, "failed parsing CLI arguments"))
}
