package types

import (
	"net/http"

	"go.hackfix.me/courseapi/db/models"
)

// CourseCreateRequest is the request data to create a new course. The owner is
// always the authenticated user, so a userId in the body is ignored.
type CourseCreateRequest struct {
	BaseRequest `json:"-"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Validate checks that the request is valid and ready for processing.
func (r *CourseCreateRequest) Validate() error {
	if r.User == nil {
		return NewError(http.StatusUnauthorized, "user object not found in the request context")
	}
	return nil
}

// CourseRequest is a request for a single course, identified by the id path
// value. The course is loaded before the endpoint handler runs.
type CourseRequest struct {
	BaseRequest `json:"-"`
	Course      *models.Course `json:"-"`
}

// SetCourse sets the course targeted by this request.
func (r *CourseRequest) SetCourse(c *models.Course) {
	r.Course = c
}

// CourseUpdateRequest is the request data to update the title and/or
// description of a course.
type CourseUpdateRequest struct {
	CourseRequest `json:"-"`
	Title         string `json:"title"`
	Description   string `json:"description"`
}

// Validate checks that the request is valid and ready for processing. Whether
// the update is empty is checked by the handler, after the course lookup and
// ownership check.
func (r *CourseUpdateRequest) Validate() error {
	if r.User == nil {
		return NewError(http.StatusUnauthorized, "user object not found in the request context")
	}
	return nil
}

// CourseData is the public representation of a course and its owner.
type CourseData struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	UserID      uint64   `json:"userId"`
	User        UserData `json:"User"`
}

// NewCourseData returns the public representation of c.
func NewCourseData(c *models.Course) CourseData {
	cd := CourseData{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		UserID:      c.UserID,
	}
	if c.Owner != nil {
		cd.User = NewUserData(c.Owner)
	}
	return cd
}

// CourseResponse is the response to a request for a single course.
type CourseResponse struct {
	BaseResponse
	Course CourseData
}

// NewCourseResponse creates a new CourseResponse with HTTP 200 status.
func NewCourseResponse(c *models.Course) *CourseResponse {
	return &CourseResponse{
		BaseResponse: NewBaseResponse(http.StatusOK, nil),
		Course:       NewCourseData(c),
	}
}

// GetData returns the course.
func (r *CourseResponse) GetData() any {
	return r.Course
}

// CourseListResponse is the response to a request for all courses.
type CourseListResponse struct {
	BaseResponse
	Courses []CourseData `json:"courses"`
}

// NewCourseListResponse creates a new CourseListResponse with HTTP 200 status.
func NewCourseListResponse(courses []*models.Course) *CourseListResponse {
	data := make([]CourseData, 0, len(courses))
	for _, c := range courses {
		data = append(data, NewCourseData(c))
	}
	return &CourseListResponse{
		BaseResponse: NewBaseResponse(http.StatusOK, nil),
		Courses:      data,
	}
}

// GetData returns the response itself, which wraps the courses in an object.
func (r *CourseListResponse) GetData() any {
	return r
}
