package echoportal

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/services/schoolapi"
)

// Admin dashboard routes: thin delegations to the typed backend client, all
// scoped to the signed-in admin's school.
func (s *server) registerAdminAPI(g *echo.Group) {
	g.GET("", s.adminDashboard)
	g.GET("/dashboard", s.adminDashboard)

	g.GET("/users", s.listUsers)
	g.POST("/users", s.createUser)
	g.GET("/users/:id", s.retrieveUser)
	g.PUT("/users/:id", s.updateUser)
	g.DELETE("/users/:id", s.deleteUser)

	g.GET("/classes", s.listClasses)
	g.POST("/classes", s.createClass)
	g.PUT("/classes/:id", s.updateClass)
	g.PATCH("/classes/:id/status", s.setClassStatus)
	g.DELETE("/classes/:id", s.deleteClass)

	g.GET("/subjects", s.listSubjects)
	g.POST("/subjects", s.createSubject)
	g.PUT("/subjects/:id", s.updateSubject)
	g.DELETE("/subjects/:id", s.deleteSubject)

	g.GET("/class-subjects", s.listClassSubjects)
	g.POST("/class-subjects", s.createClassSubject)
	g.PUT("/class-subjects/:id", s.updateClassSubject)
	g.DELETE("/class-subjects/:id", s.deleteClassSubject)

	g.GET("/class-teachers", s.listClassTeachers)
	g.POST("/class-teachers", s.assignClassTeacher)
	g.DELETE("/class-teachers/:classID/:teacherID", s.unassignClassTeacher)
}

func pathID(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (s *server) adminDashboard(ctx echo.Context) error {
	ps := currentSession(ctx)
	rctx := ctx.Request().Context()
	schoolID := ps.ctrl.Current().User.SchoolID

	users, err := ps.api.Users(rctx, schoolID)
	if err != nil {
		return errors.Wrap(err, "listing users")
	}
	classes, err := ps.api.Classes(rctx, schoolID)
	if err != nil {
		return errors.Wrap(err, "listing classes")
	}
	subjects, err := ps.api.Subjects(rctx, schoolID)
	if err != nil {
		return errors.Wrap(err, "listing subjects")
	}

	var teachers, students int
	for _, usr := range users {
		switch usr.Role {
		case "teacher":
			teachers++
		case "student":
			students++
		}
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"users":    len(users),
		"teachers": teachers,
		"students": students,
		"classes":  len(classes),
		"subjects": len(subjects),
	})
}

func (s *server) listUsers(ctx echo.Context) error {
	ps := currentSession(ctx)
	users, err := ps.api.Users(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID)
	if err != nil {
		return errors.Wrap(err, "listing users")
	}
	return ctx.JSON(http.StatusOK, users)
}

func (s *server) retrieveUser(ctx echo.Context) error {
	ps := currentSession(ctx)
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	usr, err := ps.api.User(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID, id)
	if err != nil {
		return errors.Wrap(err, "getting user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (s *server) createUser(ctx echo.Context) error {
	ps := currentSession(ctx)
	var data schoolapi.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := s.validate.Struct(&data); err != nil {
		return err
	}
	usr, err := ps.api.CreateUser(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID, data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (s *server) updateUser(ctx echo.Context) error {
	ps := currentSession(ctx)
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	var data schoolapi.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	if err := s.validate.Struct(&data); err != nil {
		return err
	}
	usr, err := ps.api.UpdateUser(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID, id, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (s *server) deleteUser(ctx echo.Context) error {
	ps := currentSession(ctx)
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	msg, err := ps.api.DeleteUser(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID, id)
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.JSON(http.StatusOK, msg)
}

func (s *server) listClasses(ctx echo.Context) error {
	ps := currentSession(ctx)
	classes, err := ps.api.Classes(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID)
	if err != nil {
		return errors.Wrap(err, "listing classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (s *server) createClass(ctx echo.Context) error {
	ps := currentSession(ctx)
	var data schoolapi.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := s.validate.Struct(&data); err != nil {
		return err
	}
	cls, err := ps.api.CreateClass(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID, data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, cls)
}

func (s *server) updateClass(ctx echo.Context) error {
	ps := currentSession(ctx)
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	var data schoolapi.UpdateClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}
	if err := s.validate.Struct(&data); err != nil {
		return err
	}
	cls, err := ps.api.UpdateClass(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID, id, data)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (s *server) setClassStatus(ctx echo.Context) error {
	ps := currentSession(ctx)
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	var data struct {
		IsActive bool `json:"is_active"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding class status")
	}
	cls, err := ps.api.SetClassStatus(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID, id, data.IsActive)
	if err != nil {
		return errors.Wrap(err, "setting class status")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (s *server) deleteClass(ctx echo.Context) error {
	ps := currentSession(ctx)
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err := ps.api.DeleteClass(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID, id); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *server) listSubjects(ctx echo.Context) error {
	ps := currentSession(ctx)
	subjects, err := ps.api.Subjects(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID)
	if err != nil {
		return errors.Wrap(err, "listing subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (s *server) createSubject(ctx echo.Context) error {
	ps := currentSession(ctx)
	var data schoolapi.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := s.validate.Struct(&data); err != nil {
		return err
	}
	sub, err := ps.api.CreateSubject(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID, data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (s *server) updateSubject(ctx echo.Context) error {
	ps := currentSession(ctx)
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	var data schoolapi.UpdateSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubject")
	}
	if err := s.validate.Struct(&data); err != nil {
		return err
	}
	sub, err := ps.api.UpdateSubject(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID, id, data)
	if err != nil {
		return errors.Wrap(err, "updating subject")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (s *server) deleteSubject(ctx echo.Context) error {
	ps := currentSession(ctx)
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err := ps.api.DeleteSubject(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID, id); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *server) listClassSubjects(ctx echo.Context) error {
	ps := currentSession(ctx)
	rctx := ctx.Request().Context()
	schoolID := ps.ctrl.Current().User.SchoolID

	if raw := ctx.QueryParam("class_id"); raw != "" {
		classID, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid class_id")
		}
		links, err := ps.api.ClassSubjects(rctx, schoolID, classID)
		if err != nil {
			return errors.Wrap(err, "listing class subjects")
		}
		return ctx.JSON(http.StatusOK, links)
	}

	links, err := ps.api.ClassSubjects(rctx, schoolID)
	if err != nil {
		return errors.Wrap(err, "listing class subjects")
	}
	return ctx.JSON(http.StatusOK, links)
}

func (s *server) createClassSubject(ctx echo.Context) error {
	ps := currentSession(ctx)
	var data schoolapi.NewClassSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClassSubject")
	}
	if err := s.validate.Struct(&data); err != nil {
		return err
	}
	link, err := ps.api.CreateClassSubject(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID, data)
	if err != nil {
		return errors.Wrap(err, "creating class subject")
	}
	return ctx.JSON(http.StatusCreated, link)
}

func (s *server) updateClassSubject(ctx echo.Context) error {
	ps := currentSession(ctx)
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	var data schoolapi.NewClassSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClassSubject")
	}
	if err := s.validate.Struct(&data); err != nil {
		return err
	}
	link, err := ps.api.UpdateClassSubject(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID, id, data)
	if err != nil {
		return errors.Wrap(err, "updating class subject")
	}
	return ctx.JSON(http.StatusOK, link)
}

func (s *server) deleteClassSubject(ctx echo.Context) error {
	ps := currentSession(ctx)
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	if err := ps.api.DeleteClassSubject(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID, id); err != nil {
		return errors.Wrap(err, "deleting class subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *server) listClassTeachers(ctx echo.Context) error {
	ps := currentSession(ctx)
	assignments, err := ps.api.ClassTeachers(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID)
	if err != nil {
		return errors.Wrap(err, "listing class teachers")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (s *server) assignClassTeacher(ctx echo.Context) error {
	ps := currentSession(ctx)
	var data schoolapi.NewClassTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClassTeacher")
	}
	if err := s.validate.Struct(&data); err != nil {
		return err
	}
	assignment, err := ps.api.AssignClassTeacher(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID, data)
	if err != nil {
		return errors.Wrap(err, "assigning class teacher")
	}
	return ctx.JSON(http.StatusCreated, assignment)
}

func (s *server) unassignClassTeacher(ctx echo.Context) error {
	ps := currentSession(ctx)
	classID, err := pathID(ctx, "classID")
	if err != nil {
		return err
	}
	teacherID, err := pathID(ctx, "teacherID")
	if err != nil {
		return err
	}
	if err := ps.api.UnassignClassTeacher(ctx.Request().Context(), ps.ctrl.Current().User.SchoolID, classID, teacherID); err != nil {
		return errors.Wrap(err, "unassigning class teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}
