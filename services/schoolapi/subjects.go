package schoolapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/volatiletech/null/v8"
)

type (
	Subject struct {
		ID          int         `json:"subject_id"`
		SchoolID    int         `json:"school_id"`
		Name        string      `json:"subject_name"`
		Code        string      `json:"subject_code"`
		Description null.String `json:"description"`
		GradeLevel  string      `json:"grade_level"`
		CreditHours int         `json:"credit_hours"`
		Category    string      `json:"category"`
		IsCore      bool        `json:"is_core"`
		IsActive    bool        `json:"is_active"`
		CreatedAt   null.Time   `json:"created_at"`
		UpdatedAt   null.Time   `json:"updated_at"`
	}

	NewSubject struct {
		Name        string `json:"subject_name" validate:"required"`
		Code        string `json:"subject_code" validate:"required"`
		Description string `json:"description,omitempty"`
		GradeLevel  string `json:"grade_level" validate:"required"`
		CreditHours int    `json:"credit_hours" validate:"required"`
		Category    string `json:"category" validate:"required"`
		IsCore      bool   `json:"is_core"`
		IsActive    *bool  `json:"is_active,omitempty"`
	}

	UpdateSubject struct {
		Name        string `json:"subject_name,omitempty"`
		Code        string `json:"subject_code,omitempty"`
		Description string `json:"description,omitempty"`
		GradeLevel  string `json:"grade_level,omitempty"`
		CreditHours *int   `json:"credit_hours,omitempty"`
		Category    string `json:"category,omitempty"`
		IsCore      *bool  `json:"is_core,omitempty"`
		IsActive    *bool  `json:"is_active,omitempty"`
	}
)

func (c *Client) Subjects(ctx context.Context, schoolID int) ([]Subject, error) {
	var subjects []Subject
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/subjects/%d", schoolID), nil, nil, &subjects)
	return subjects, err
}

func (c *Client) CreateSubject(ctx context.Context, schoolID int, data NewSubject) (Subject, error) {
	var sub Subject
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/subjects/%d", schoolID), nil, data, &sub)
	return sub, err
}

func (c *Client) UpdateSubject(ctx context.Context, schoolID, subjectID int, data UpdateSubject) (Subject, error) {
	var sub Subject
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/subjects/%d/%d", schoolID, subjectID), nil, data, &sub)
	return sub, err
}

func (c *Client) DeleteSubject(ctx context.Context, schoolID, subjectID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/subjects/%d/%d", schoolID, subjectID), nil, nil, nil)
}
