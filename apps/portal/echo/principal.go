package echoportal

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/services/schoolapi"
)

func (s *server) registerPrincipalAPI(g *echo.Group) {
	g.GET("/dashboard", s.principalDashboard)
	g.GET("/students", s.listStudents)
	g.GET("/teachers", s.listTeachers)

	g.GET("/announcements", s.listAnnouncements)
	g.POST("/announcements", s.createAnnouncement)
	g.DELETE("/announcements/:id", s.deleteAnnouncement)

	g.GET("/events", s.listEvents)
	g.GET("/event-requests", s.listEventRequests)
	g.PATCH("/event-requests/:id", s.reviewEventRequest)

	g.GET("/leave-requests", s.listLeaveRequests)
	g.PATCH("/leave-requests/:id", s.reviewLeaveRequest)

	g.GET("/attendance-report", s.attendanceReport)

	g.POST("/chats", s.startChat)
	g.GET("/chats/:id", s.chatInfo)
	g.POST("/chats/messages", s.sendChatMessage)
}

func (s *server) principalDashboard(ctx echo.Context) error {
	ps := currentSession(ctx)
	rctx := ctx.Request().Context()

	students, err := ps.api.AllStudents(rctx)
	if err != nil {
		return errors.Wrap(err, "listing students")
	}
	teachers, err := ps.api.AllTeachers(rctx)
	if err != nil {
		return errors.Wrap(err, "listing teachers")
	}
	report, err := ps.api.AttendanceReport(rctx)
	if err != nil {
		return errors.Wrap(err, "getting attendance report")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"students":   len(students),
		"teachers":   len(teachers),
		"attendance": report,
	})
}

func (s *server) listStudents(ctx echo.Context) error {
	ps := currentSession(ctx)
	rctx := ctx.Request().Context()

	if raw := ctx.QueryParam("class_id"); raw != "" {
		classID, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid class_id")
		}
		students, err := ps.api.AllStudents(rctx, classID)
		if err != nil {
			return errors.Wrap(err, "listing students")
		}
		return ctx.JSON(http.StatusOK, students)
	}

	students, err := ps.api.AllStudents(rctx)
	if err != nil {
		return errors.Wrap(err, "listing students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (s *server) listTeachers(ctx echo.Context) error {
	ps := currentSession(ctx)
	teachers, err := ps.api.AllTeachers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (s *server) listAnnouncements(ctx echo.Context) error {
	ps := currentSession(ctx)
	items, err := ps.api.Announcements(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing announcements")
	}
	return ctx.JSON(http.StatusOK, items)
}

func (s *server) createAnnouncement(ctx echo.Context) error {
	ps := currentSession(ctx)
	var data schoolapi.NewAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}
	if err := s.validate.Struct(&data); err != nil {
		return err
	}
	item, err := ps.api.CreateAnnouncement(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating announcement")
	}
	return ctx.JSON(http.StatusCreated, item)
}

func (s *server) deleteAnnouncement(ctx echo.Context) error {
	ps := currentSession(ctx)
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err := ps.api.DeleteAnnouncement(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *server) listEvents(ctx echo.Context) error {
	ps := currentSession(ctx)
	events, err := ps.api.Events(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing events")
	}
	return ctx.JSON(http.StatusOK, events)
}

func (s *server) listEventRequests(ctx echo.Context) error {
	ps := currentSession(ctx)
	reqs, err := ps.api.EventRequests(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing event requests")
	}
	return ctx.JSON(http.StatusOK, reqs)
}

type reviewRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

func (s *server) reviewEventRequest(ctx echo.Context) error {
	ps := currentSession(ctx)
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	var data reviewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding review")
	}
	if err := s.validate.Struct(&data); err != nil {
		return err
	}
	req, err := ps.api.ReviewEventRequest(ctx.Request().Context(), id, data.Status)
	if err != nil {
		return errors.Wrap(err, "reviewing event request")
	}
	return ctx.JSON(http.StatusOK, req)
}

func (s *server) listLeaveRequests(ctx echo.Context) error {
	ps := currentSession(ctx)
	reqs, err := ps.api.LeaveRequests(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing leave requests")
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (s *server) reviewLeaveRequest(ctx echo.Context) error {
	ps := currentSession(ctx)
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	var data reviewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding review")
	}
	if err := s.validate.Struct(&data); err != nil {
		return err
	}
	req, err := ps.api.ReviewLeaveRequest(ctx.Request().Context(), id, data.Status)
	if err != nil {
		return errors.Wrap(err, "reviewing leave request")
	}
	return ctx.JSON(http.StatusOK, req)
}

func (s *server) attendanceReport(ctx echo.Context) error {
	ps := currentSession(ctx)
	report, err := ps.api.AttendanceReport(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting attendance report")
	}
	return ctx.JSON(http.StatusOK, report)
}

func (s *server) startChat(ctx echo.Context) error {
	ps := currentSession(ctx)
	var data schoolapi.StartChat
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StartChat")
	}
	if err := s.validate.Struct(&data); err != nil {
		return err
	}
	chat, err := ps.api.StartChatWith(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "starting chat")
	}
	return ctx.JSON(http.StatusCreated, chat)
}

func (s *server) chatInfo(ctx echo.Context) error {
	ps := currentSession(ctx)
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	info, err := ps.api.ChatInfo(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting chat info")
	}
	return ctx.JSON(http.StatusOK, info)
}

func (s *server) sendChatMessage(ctx echo.Context) error {
	ps := currentSession(ctx)
	var data schoolapi.SendMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SendMessage")
	}
	if err := s.validate.Struct(&data); err != nil {
		return err
	}
	msg, err := ps.api.SendToChat(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "sending chat message")
	}
	return ctx.JSON(http.StatusCreated, msg)
}
