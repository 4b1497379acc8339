package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.hackfix.me/courseapi/db/models"
	dbtypes "go.hackfix.me/courseapi/db/types"
	"go.hackfix.me/courseapi/web/server/handler"
	"go.hackfix.me/courseapi/web/server/types"
)

// Course endpoint error messages.
const (
	CourseNotFoundMsg      = "Course not found"
	CourseGetNotFoundMsg   = "Sorry, Course not found"
	CourseUpdateDeniedMsg  = "Sorry, you are not authorized to make changes to this course"
	CourseDeleteDeniedMsg  = "You are not authorized to Delete this Course"
	CourseEmptyUpdateMsg   = "Please provide an update for the Course Title, Course Description or Both"
	courseLocationTemplate = "/api/courses/%d"
)

// CoursesGet returns all courses with their owners.
func (h *Handler) CoursesGet(ctx context.Context, _ *types.BaseRequest) (*types.CourseListResponse, error) {
	courses, err := models.Courses(ctx, h.appCtx.DB, nil)
	if err != nil {
		return nil, fmt.Errorf("failed loading courses: %w", err)
	}

	return types.NewCourseListResponse(courses), nil
}

// CourseGet returns a single course with its owner.
func (h *Handler) CourseGet(_ context.Context, req *types.CourseRequest) (*types.CourseResponse, error) {
	return types.NewCourseResponse(req.Course), nil
}

// CoursesPost creates a new course owned by the authenticated user.
func (h *Handler) CoursesPost(ctx context.Context, req *types.CourseCreateRequest) (*types.CreatedResponse, error) {
	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.User.ID,
	}

	if err := course.Save(ctx, h.appCtx.DB, false); err != nil {
		return nil, saveError(err)
	}

	h.logger.Debug("created course", "course_id", course.ID, "user_id", req.User.ID)

	return types.NewCreatedResponse(fmt.Sprintf(courseLocationTemplate, course.ID)), nil
}

// CoursePut updates the title and/or description of a course owned by the
// authenticated user.
func (h *Handler) CoursePut(ctx context.Context, req *types.CourseUpdateRequest) (*types.NoContentResponse, error) {
	course := req.Course
	if ok, err := req.User.Can(models.ActionUpdate, course); err != nil {
		return nil, fmt.Errorf("failed checking course permissions: %w", err)
	} else if !ok {
		return nil, types.NewError(http.StatusForbidden, CourseUpdateDeniedMsg)
	}

	if req.Title == "" && req.Description == "" {
		return nil, types.NewError(http.StatusBadRequest, CourseEmptyUpdateMsg)
	}
	if req.Title != "" {
		course.Title = req.Title
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	// The update is conditioned on the owner ID, so a course that changed
	// ownership since it was loaded won't be found.
	course.UserID = req.User.ID

	if err := course.Save(ctx, h.appCtx.DB, true); err != nil {
		return nil, saveError(err)
	}

	return types.NewNoContentResponse(), nil
}

// CourseDelete deletes a course owned by the authenticated user.
func (h *Handler) CourseDelete(ctx context.Context, req *types.CourseRequest) (*types.NoContentResponse, error) {
	course := req.Course
	if ok, err := req.User.Can(models.ActionDelete, course); err != nil {
		return nil, fmt.Errorf("failed checking course permissions: %w", err)
	} else if !ok {
		return nil, types.NewError(http.StatusForbidden, CourseDeleteDeniedMsg)
	}

	course.UserID = req.User.ID
	if err := course.Delete(ctx, h.appCtx.DB); err != nil {
		return nil, saveError(err)
	}

	h.logger.Debug("deleted course", "course_id", course.ID, "user_id", req.User.ID)

	return types.NewNoContentResponse(), nil
}

// loadCourse returns a request processor that loads the course identified by
// the id path value, and sets it on the request. It returns a 404 error with
// notFoundMsg if the ID is invalid or the course doesn't exist.
func (h *Handler) loadCourse(notFoundMsg string) handler.RequestProcessor {
	return func(ctx context.Context, req types.Request) (context.Context, error) {
		creq, ok := req.(interface{ SetCourse(*models.Course) })
		if !ok {
			return ctx, fmt.Errorf("request type %T doesn't accept a course", req)
		}

		id, err := strconv.ParseUint(req.GetHTTPRequest().PathValue("id"), 10, 64)
		if err != nil || id == 0 {
			return ctx, types.NewError(http.StatusNotFound, notFoundMsg)
		}

		course := &models.Course{ID: id}
		if err = course.Load(ctx, h.appCtx.DB); err != nil {
			var errNoRes dbtypes.NoResultError
			if errors.As(err, &errNoRes) {
				return ctx, types.NewError(http.StatusNotFound, notFoundMsg)
			}
			return ctx, fmt.Errorf("failed loading course: %w", err)
		}
		creq.SetCourse(course)

		return ctx, nil
	}
}

// saveError converts errors from saving or deleting a course to HTTP errors.
func saveError(err error) error {
	var (
		errValidation dbtypes.ValidationError
		errNoRes      dbtypes.NoResultError
	)
	switch {
	case errors.As(err, &errValidation):
		return types.NewError(http.StatusBadRequest, errValidation.Error())
	case errors.As(err, &errNoRes):
		return types.NewError(http.StatusNotFound, CourseNotFoundMsg)
	default:
		return fmt.Errorf("failed saving course: %w", err)
	}
}
