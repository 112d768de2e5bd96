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
	"github.com/Bab4nI/Jaba/internal/types"
)

func (h *Handler) ListLessons(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "ListLessons")
	defer span.End()

	db := h.DB.WithContext(ctx)

	module, ok := c.Get("module").(*models.CourseModule)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("module: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("module.id", module.ID.String()))

	span.AddEvent("listing lessons")
	lessons, err := models.ListOrdered[models.Lesson](
		ctx,
		db,
		"position ASC",
		"module_id = ?",
		module.ID,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list lessons")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, lessons)
}

func (h *Handler) CreateLesson(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "CreateLesson")
	defer span.End()

	db := h.DB.WithContext(ctx)

	module, ok := c.Get("module").(*models.CourseModule)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("module: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("module.id", module.ID.String()))

	type requestData struct {
		Title    string `json:"title"    validate:"required"`
		Position int    `json:"position"`
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

	lesson := &models.Lesson{
		Title:    rdata.Title,
		ModuleID: module.ID,
		Position: rdata.Position,
	}

	span.AddEvent("inserting into database")
	err = db.Create(lesson).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to insert")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("lesson.id", lesson.ID.String()))

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusCreated, lesson)
}

func (*Handler) GetLesson(c echo.Context) error {
	_, span := tracer.Start(c.Request().Context(), "GetLesson")
	defer span.End()

	lesson, ok := c.Get("lesson").(*models.Lesson)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("lesson: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("lesson.id", lesson.ID.String()))

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, lesson)
}

func (h *Handler) PatchLesson(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "PatchLesson")
	defer span.End()

	db := h.DB.WithContext(ctx)

	lesson, ok := c.Get("lesson").(*models.Lesson)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("lesson: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("lesson.id", lesson.ID.String()))

	type requestData struct {
		Title    types.Optional[string] `json:"title"`
		Position types.Optional[int]    `json:"position"`
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
		lesson.Title = *rdata.Title.Value
	}
	if rdata.Position.Defined && rdata.Position.Value != nil {
		lesson.Position = *rdata.Position.Value
	}

	span.AddEvent("saving lesson to the database")
	err = db.Save(lesson).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to save lesson")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, lesson)
}

func (h *Handler) DeleteLesson(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "DeleteLesson")
	defer span.End()

	db := h.DB.WithContext(ctx)

	lesson, ok := c.Get("lesson").(*models.Lesson)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("lesson: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("lesson.id", lesson.ID.String()))

	span.AddEvent("deleting lesson from database")
	err := db.Delete(lesson).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to delete lesson")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.NoContent(http.StatusNoContent)
}
