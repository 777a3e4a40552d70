package schoolapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/volatiletech/null/v8"
)

type (
	// ClassSubject links a subject (and optionally its teacher) to a class.
	ClassSubject struct {
		ID        int       `json:"id"`
		SchoolID  int       `json:"school_id"`
		ClassID   int       `json:"class_id"`
		SubjectID int       `json:"subject_id"`
		TeacherID null.Int  `json:"teacher_id"`
		CreatedAt null.Time `json:"created_at"`
	}

	NewClassSubject struct {
		ClassID   int  `json:"class_id" validate:"required"`
		SubjectID int  `json:"subject_id" validate:"required"`
		TeacherID *int `json:"teacher_id,omitempty"`
	}

	// ClassTeacher is a class-teacher assignment.
	ClassTeacher struct {
		ID         int       `json:"id"`
		SchoolID   int       `json:"school_id"`
		ClassID    int       `json:"class_id"`
		TeacherID  int       `json:"teacher_id"`
		AssignedAt null.Time `json:"assigned_at"`
	}

	NewClassTeacher struct {
		ClassID   int `json:"class_id" validate:"required"`
		TeacherID int `json:"teacher_id" validate:"required"`
	}
)

// ClassSubjects lists the subject links of a school, optionally narrowed to
// one class.
func (c *Client) ClassSubjects(ctx context.Context, schoolID int, classID ...int) ([]ClassSubject, error) {
	var query url.Values
	if len(classID) > 0 {
		query = url.Values{"class_id": []string{strconv.Itoa(classID[0])}}
	}
	var links []ClassSubject
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/class-subjects/%d", schoolID), query, nil, &links)
	return links, err
}

func (c *Client) CreateClassSubject(ctx context.Context, schoolID int, data NewClassSubject) (ClassSubject, error) {
	var link ClassSubject
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/class-subjects/%d", schoolID), nil, data, &link)
	return link, err
}

func (c *Client) UpdateClassSubject(ctx context.Context, schoolID, id int, data NewClassSubject) (ClassSubject, error) {
	var link ClassSubject
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/class-subjects/%d/%d", schoolID, id), nil, data, &link)
	return link, err
}

func (c *Client) DeleteClassSubject(ctx context.Context, schoolID, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/class-subjects/%d/%d", schoolID, id), nil, nil, nil)
}

func (c *Client) ClassTeachers(ctx context.Context, schoolID int) ([]ClassTeacher, error) {
	var assignments []ClassTeacher
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/class-teachers/%d/all", schoolID), nil, nil, &assignments)
	return assignments, err
}

func (c *Client) AssignClassTeacher(ctx context.Context, schoolID int, data NewClassTeacher) (ClassTeacher, error) {
	var assignment ClassTeacher
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/class-teachers/%d", schoolID), nil, data, &assignment)
	return assignment, err
}

func (c *Client) UnassignClassTeacher(ctx context.Context, schoolID, classID, teacherID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/class-teachers/%d/%d/%d", schoolID, classID, teacherID), nil, nil, nil)
}
