package schoolapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/volatiletech/null/v8"
)

type (
	Class struct {
		ID              int         `json:"class_id"`
		SchoolID        int         `json:"school_id"`
		Name            string      `json:"name"`
		Section         string      `json:"section"`
		Medium          string      `json:"medium"`
		AcademicYear    string      `json:"academic_year"`
		IsActive        bool        `json:"is_active"`
		Capacity        null.Int    `json:"capacity"`
		SubjectsCount   null.Int    `json:"subjects_count"`
		TeacherAssigned null.String `json:"teacher_assigned"`
		CreatedAt       null.Time   `json:"created_at"`
		UpdatedAt       null.Time   `json:"updated_at"`
	}

	NewClass struct {
		Name         string `json:"name" validate:"required"`
		Section      string `json:"section" validate:"required"`
		Medium       string `json:"medium" validate:"required"`
		AcademicYear string `json:"academic_year" validate:"required"`
		Capacity     *int   `json:"capacity,omitempty"`
		IsActive     *bool  `json:"is_active,omitempty"`
	}

	UpdateClass struct {
		Name         string `json:"name,omitempty"`
		Section      string `json:"section,omitempty"`
		Medium       string `json:"medium,omitempty"`
		AcademicYear string `json:"academic_year,omitempty"`
		Capacity     *int   `json:"capacity,omitempty"`
		IsActive     *bool  `json:"is_active,omitempty"`
	}
)

func (c *Client) Classes(ctx context.Context, schoolID int) ([]Class, error) {
	var classes []Class
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/classes/%d", schoolID), nil, nil, &classes)
	return classes, err
}

func (c *Client) Class(ctx context.Context, schoolID, classID int) (Class, error) {
	var cls Class
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/classes/%d/%d", schoolID, classID), nil, nil, &cls)
	return cls, err
}

func (c *Client) CreateClass(ctx context.Context, schoolID int, data NewClass) (Class, error) {
	var cls Class
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/classes/%d", schoolID), nil, data, &cls)
	return cls, err
}

func (c *Client) UpdateClass(ctx context.Context, schoolID, classID int, data UpdateClass) (Class, error) {
	var cls Class
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/classes/%d/%d", schoolID, classID), nil, data, &cls)
	return cls, err
}

func (c *Client) DeleteClass(ctx context.Context, schoolID, classID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/classes/%d/%d", schoolID, classID), nil, nil, nil)
}

// SetClassStatus toggles a class active/inactive without touching its other fields.
func (c *Client) SetClassStatus(ctx context.Context, schoolID, classID int, isActive bool) (Class, error) {
	var cls Class
	body := map[string]bool{"is_active": isActive}
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/admin/classes/%d/%d/status", schoolID, classID), nil, body, &cls)
	return cls, err
}
