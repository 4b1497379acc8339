package client

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strconv"

	stypes "go.hackfix.me/courseapi/web/server/types"
)

type courseData struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Courses returns all courses.
func (c *Client) Courses(ctx context.Context) ([]stypes.CourseData, error) {
	var resp stypes.CourseListResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/courses", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}

	return resp.Courses, nil
}

// Course returns the course with the given ID.
func (c *Client) Course(ctx context.Context, id uint64) (*stypes.CourseData, error) {
	var course stypes.CourseData
	_, err := c.do(ctx, http.MethodGet, coursePath(id), nil, &course, http.StatusOK)
	if err != nil {
		return nil, err
	}

	return &course, nil
}

// CreateCourse creates a new course owned by the authenticated user, and
// returns its ID.
func (c *Client) CreateCourse(ctx context.Context, title, description string) (uint64, error) {
	reqData := &courseData{Title: title, Description: description}
	hdr, err := c.do(ctx, http.MethodPost, "/api/courses", reqData, nil, http.StatusCreated)
	if err != nil {
		return 0, err
	}

	location := hdr.Get("Location")
	id, err := strconv.ParseUint(path.Base(location), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed parsing course ID from location '%s': %w", location, err)
	}

	return id, nil
}

// UpdateCourse changes the title and/or description of a course. Empty values
// are left unchanged.
func (c *Client) UpdateCourse(ctx context.Context, id uint64, title, description string) error {
	reqData := &courseData{Title: title, Description: description}
	_, err := c.do(ctx, http.MethodPut, coursePath(id), reqData, nil, http.StatusNoContent)

	return err
}

// DeleteCourse deletes a course.
func (c *Client) DeleteCourse(ctx context.Context, id uint64) error {
	_, err := c.do(ctx, http.MethodDelete, coursePath(id), nil, nil, http.StatusNoContent)

	return err
}

func coursePath(id uint64) string {
	return fmt.Sprintf("/api/courses/%d", id)
}
