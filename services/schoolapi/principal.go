package schoolapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/volatiletech/null/v8"
)

// The principal endpoints return looser records than the admin ones; several
// fields come back null for students without a class assignment.
type (
	Student struct {
		UserID    int         `json:"user_id"`
		FirstName null.String `json:"first_name"`
		LastName  null.String `json:"last_name"`
		ClassName null.String `json:"class_name"`
		Section   null.String `json:"section"`
		Medium    null.String `json:"medium"`
	}

	Teacher struct {
		UserID          int         `json:"user_id"`
		FirstName       string      `json:"first_name"`
		Email           string      `json:"email"`
		ProfileImageURL null.String `json:"profile_image_url"`
	}

	Announcement struct {
		ID        int       `json:"id"`
		Title     string    `json:"title"`
		Body      string    `json:"body"`
		Audience  string    `json:"audience"`
		CreatedAt null.Time `json:"created_at"`
	}

	NewAnnouncement struct {
		Title    string `json:"title" validate:"required"`
		Body     string `json:"body" validate:"required"`
		Audience string `json:"audience,omitempty"`
	}

	Event struct {
		ID          int         `json:"id"`
		Title       string      `json:"title"`
		Description null.String `json:"description"`
		StartsAt    time.Time   `json:"starts_at"`
		EndsAt      null.Time   `json:"ends_at"`
		Location    null.String `json:"location"`
		Status      string      `json:"status"`
	}

	// EventRequest is a teacher-submitted event awaiting principal review.
	EventRequest struct {
		ID          int         `json:"id"`
		RequestedBy int         `json:"requested_by"`
		Title       string      `json:"title"`
		Description null.String `json:"description"`
		StartsAt    time.Time   `json:"starts_at"`
		Status      string      `json:"status"`
	}

	LeaveRequest struct {
		ID       int         `json:"id"`
		UserID   int         `json:"user_id"`
		Reason   null.String `json:"reason"`
		FromDate time.Time   `json:"from_date"`
		ToDate   time.Time   `json:"to_date"`
		Status   string      `json:"status"`
	}

	AttendanceReport struct {
		SchoolID      int     `json:"school_id"`
		TotalStudents int     `json:"total_students"`
		PresentToday  int     `json:"present_today"`
		AbsentToday   int     `json:"absent_today"`
		AttendancePct float64 `json:"attendance_pct"`
	}
)

// Review decisions for event and leave requests.
const (
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// AllStudents lists every student of the principal's school, optionally
// narrowed to one class.
func (c *Client) AllStudents(ctx context.Context, classID ...int) ([]Student, error) {
	var query url.Values
	if len(classID) > 0 {
		query = url.Values{"class_id": []string{strconv.Itoa(classID[0])}}
	}
	var students []Student
	err := c.do(ctx, http.MethodGet, "/principal/allStudents", query, nil, &students)
	return students, err
}

func (c *Client) AllTeachers(ctx context.Context) ([]Teacher, error) {
	var teachers []Teacher
	err := c.do(ctx, http.MethodGet, "/principal/allTeachers", nil, nil, &teachers)
	return teachers, err
}

func (c *Client) Announcements(ctx context.Context) ([]Announcement, error) {
	var items []Announcement
	err := c.do(ctx, http.MethodGet, "/principal/announcements", nil, nil, &items)
	return items, err
}

func (c *Client) CreateAnnouncement(ctx context.Context, data NewAnnouncement) (Announcement, error) {
	var item Announcement
	err := c.do(ctx, http.MethodPost, "/principal/announcements", nil, data, &item)
	return item, err
}

func (c *Client) DeleteAnnouncement(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/principal/announcements/%d", id), nil, nil, nil)
}

func (c *Client) Events(ctx context.Context) ([]Event, error) {
	var events []Event
	err := c.do(ctx, http.MethodGet, "/principal/events", nil, nil, &events)
	return events, err
}

func (c *Client) EventRequests(ctx context.Context) ([]EventRequest, error) {
	var reqs []EventRequest
	err := c.do(ctx, http.MethodGet, "/principal/event-requests", nil, nil, &reqs)
	return reqs, err
}

func (c *Client) ReviewEventRequest(ctx context.Context, id int, decision string) (EventRequest, error) {
	var req EventRequest
	body := map[string]string{"status": decision}
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/principal/event-requests/%d", id), nil, body, &req)
	return req, err
}

func (c *Client) LeaveRequests(ctx context.Context) ([]LeaveRequest, error) {
	var reqs []LeaveRequest
	err := c.do(ctx, http.MethodGet, "/principal/leaveRequests", nil, nil, &reqs)
	return reqs, err
}

func (c *Client) ReviewLeaveRequest(ctx context.Context, id int, decision string) (LeaveRequest, error) {
	var req LeaveRequest
	body := map[string]string{"status": decision}
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/principal/leaveRequests/%d", id), nil, body, &req)
	return req, err
}

func (c *Client) AttendanceReport(ctx context.Context) (AttendanceReport, error) {
	var report AttendanceReport
	err := c.do(ctx, http.MethodGet, "/principal/attendance-report", nil, nil, &report)
	return report, err
}
