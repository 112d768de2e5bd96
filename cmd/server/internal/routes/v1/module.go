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

func (h *Handler) ListModules(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "ListModules")
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

	if !course.Published && !auth.Admin {
		span.SetStatus(codes.Ok, "course is not published")
		span.RecordError(nil)
		return response.NotFoundError
	}

	span.AddEvent("listing modules")
	modules, err := models.ListOrdered[models.CourseModule](
		ctx,
		db,
		"position ASC",
		"course_id = ?",
		course.ID,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list modules")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, modules)
}

func (h *Handler) CreateModule(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "CreateModule")
	defer span.End()

	db := h.DB.WithContext(ctx)

	course, ok := c.Get("course").(*models.Course)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("course: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("course.id", course.ID.String()))

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

	module := &models.CourseModule{
		Title:    rdata.Title,
		CourseID: course.ID,
		Position: rdata.Position,
	}

	span.AddEvent("inserting into database")
	err = db.Create(module).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to insert")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("module.id", module.ID.String()))

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusCreated, module)
}

func (*Handler) GetModule(c echo.Context) error {
	_, span := tracer.Start(c.Request().Context(), "GetModule")
	defer span.End()

	module, ok := c.Get("module").(*models.CourseModule)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("module: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("module.id", module.ID.String()))

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, module)
}

func (h *Handler) PatchModule(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "PatchModule")
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
		module.Title = *rdata.Title.Value
	}
	if rdata.Position.Defined && rdata.Position.Value != nil {
		module.Position = *rdata.Position.Value
	}

	span.AddEvent("saving module to the database")
	err = db.Save(module).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to save module")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, module)
}

func (h *Handler) DeleteModule(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "DeleteModule")
	defer span.End()

	db := h.DB.WithContext(ctx)

	module, ok := c.Get("module").(*models.CourseModule)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("module: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("module.id", module.ID.String()))

	span.AddEvent("deleting module from database")
	err := db.Delete(module).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to delete module")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.NoContent(http.StatusNoContent)
}
