package cli

import (
	"fmt"
	"strconv"
	"time"

	actx "go.hackfix.me/courseapi/app/context"
	aerrors "go.hackfix.me/courseapi/app/errors"
	"go.hackfix.me/courseapi/db/models"
)

// The Course command manages courses.
type Course struct {
	Rm CourseRm `kong:"cmd,help='Remove a course.'"`
	Ls CourseLs `kong:"cmd,help='List courses.'"`
}

// CourseRm removes a course regardless of its owner.
type CourseRm struct {
	ID uint64 `arg:"" help:"The ID of the course."`
}

// Run the course rm command.
func (c *CourseRm) Run(appCtx *actx.Context) error {
	course := &models.Course{ID: c.ID}
	if err := course.Delete(appCtx.DB.NewContext(), appCtx.DB); err != nil {
		return aerrors.NewRuntimeError(fmt.Sprintf("failed removing course %d", c.ID), err, "")
	}

	appCtx.Logger.Info("removed course", "course.id", c.ID)

	return nil
}

// CourseLs lists courses and their owners.
type CourseLs struct{}

// Run the course ls command.
func (c *CourseLs) Run(appCtx *actx.Context) error {
	courses, err := models.Courses(appCtx.DB.NewContext(), appCtx.DB, nil)
	if err != nil {
		return aerrors.NewRuntimeError("failed listing courses", err, "")
	}

	data := make([][]string, len(courses))
	for i, course := range courses {
		data[i] = []string{
			strconv.FormatUint(course.ID, 10),
			course.Title,
			course.Owner.EmailAddress,
			course.CreatedAt.UTC().Format(time.DateTime),
		}
	}

	if len(data) > 0 {
		header := []string{"ID", "Title", "Owner", "Created"}
		if err = renderTable(header, data, appCtx.Stdout); err != nil {
			return aerrors.NewRuntimeError("failed rendering table", err, "")
		}
	}

	return nil
}
