package v1

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	srverr "github.com/Bab4nI/Jaba/cmd/server/internal/error"
	"github.com/Bab4nI/Jaba/cmd/server/internal/models"
	"github.com/Bab4nI/Jaba/cmd/server/internal/response"
	"github.com/Bab4nI/Jaba/internal/audit"
	"github.com/Bab4nI/Jaba/internal/types"
)

func (h *Handler) ListCourses(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "ListCourses")
	defer span.End()

	db := h.DB.WithContext(ctx)

	auth, ok := c.Get("auth").(*models.Auth)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("auth: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(
		attribute.String("auth.id", auth.ID.String()),
		attribute.Bool("auth.admin", auth.Admin),
	)

	span.AddEvent("listing courses")
	var courses []models.Course
	var err error
	if auth.Admin {
		courses, err = models.ListOrdered[models.Course](ctx, db, "created_at ASC", nil)
	} else {
		// non-admin users only see published courses
		courses, err = models.ListOrdered[models.Course](ctx, db, "created_at ASC", "published = ?", true)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list courses")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, courses)
}

func (h *Handler) CreateCourse(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "CreateCourse")
	defer span.End()

	db := h.DB.WithContext(ctx)

	auth, ok := c.Get("auth").(*models.Auth)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("auth: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(
		attribute.String("auth.note", auth.Note),
		attribute.String("auth.id", auth.ID.String()),
	)

	type requestData struct {
		Title       string `json:"title"       validate:"required"`
		Description string `json:"description"`
		Published   bool   `json:"published"`
	}
	var rdata requestData

	span.AddEvent("parsing request body")
	err := c.Bind(&rdata)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to parse request data")
		span.RecordError(err)
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError("failed to parse request data"),
		)
	}

	span.AddEvent("validating request body")
	err = c.Validate(rdata)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to validate request data")
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusBadRequest, types.ValidationError(err))
	}

	course := &models.Course{
		Title:       rdata.Title,
		Description: rdata.Description,
		AuthorID:    auth.ID,
		Published:   rdata.Published,
	}

	span.AddEvent("inserting into database")
	err = db.Create(course).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to insert")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("course.id", course.ID.String()))

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusCreated, course)
}

func (*Handler) GetCourse(c echo.Context) error {
	_, span := tracer.Start(c.Request().Context(), "GetCourse")
	defer span.End()

	auth, ok := c.Get("auth").(*models.Auth)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("auth: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	course, ok := c.Get("course").(*models.Course)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("course: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(
		attribute.String("auth.id", auth.ID.String()),
		attribute.String("course.id", course.ID.String()),
	)

	if !course.Published && !auth.Admin {
		span.SetStatus(codes.Ok, "course is not published")
		span.RecordError(nil)
		return response.NotFoundError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, course)
}

func (h *Handler) PatchCourse(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "PatchCourse")
	defer span.End()

	db := h.DB.WithContext(ctx)

	auth, ok := c.Get("auth").(*models.Auth)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("auth: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	course, ok := c.Get("course").(*models.Course)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("course: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(
		attribute.String("auth.id", auth.ID.String()),
		attribute.String("course.id", course.ID.String()),
	)

	type requestData struct {
		Title       types.Optional[string] `json:"title"`
		Description types.Optional[string] `json:"description"`
		Published   types.Optional[bool]   `json:"published"`
	}
	var rdata requestData

	span.AddEvent("parsing request body")
	err := c.Bind(&rdata)
	if err != nil {
		span.SetStatus(codes.Ok, "failed to parse request data")
		span.RecordError(err)
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError("failed to parse request data"),
		)
	}

	if rdata.Title.Defined && rdata.Title.Value != nil {
		course.Title = *rdata.Title.Value
	}
	if rdata.Description.Defined && rdata.Description.Value != nil {
		course.Description = *rdata.Description.Value
	}

	publishedChanged := false
	if rdata.Published.Defined && rdata.Published.Value != nil {
		publishedChanged = course.Published != *rdata.Published.Value
		course.Published = *rdata.Published.Value
	}

	span.AddEvent("saving course to the database")
	err = db.Save(course).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to save course")
		span.RecordError(err)
		return response.InternalServerError
	}

	if publishedChanged {
		audit.LogCoursePublished(
			audit.Context{UserID: ptr(auth.ID.String())},
			course.ID.String(),
			course.Published,
		)
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, course)
}

func (h *Handler) DeleteCourse(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "DeleteCourse")
	defer span.End()

	db := h.DB.WithContext(ctx)

	course, ok := c.Get("course").(*models.Course)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("course: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("course.id", course.ID.String()))

	span.AddEvent("deleting course from database")
	err := db.Delete(course).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to delete course")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.NoContent(http.StatusNoContent)
}
