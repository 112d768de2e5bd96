package v1

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"

	srverr "github.com/Bab4nI/Jaba/cmd/server/internal/error"
	"github.com/Bab4nI/Jaba/cmd/server/internal/models"
	"github.com/Bab4nI/Jaba/cmd/server/internal/response"
	"github.com/Bab4nI/Jaba/internal/types"
)

func (h *Handler) ListContents(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "ListContents")
	defer span.End()

	db := h.DB.WithContext(ctx)

	lesson, ok := c.Get("lesson").(*models.Lesson)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("lesson: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("lesson.id", lesson.ID.String()))

	span.AddEvent("listing contents")
	contents, err := models.ListOrdered[models.Content](
		ctx,
		db,
		"position ASC",
		"lesson_id = ?",
		lesson.ID,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list contents")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, contents)
}

func (h *Handler) CreateContent(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "CreateContent")
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
		Kind     string          `json:"kind"      validate:"required,oneof=text video file code_task"`
		Position int             `json:"position"`
		Body     json.RawMessage `json:"body"`
		MaxScore int             `json:"max_score" validate:"gte=0"`
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

	body := rdata.Body
	if len(body) == 0 {
		body = json.RawMessage("{}")
	}

	content := &models.Content{
		Kind:     models.ContentKind(rdata.Kind),
		LessonID: lesson.ID,
		Position: rdata.Position,
		Body:     datatypes.JSON(body),
		MaxScore: rdata.MaxScore,
	}

	span.AddEvent("inserting into database")
	err = db.Create(content).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to insert")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("content.id", content.ID.String()))

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusCreated, content)
}

func (*Handler) GetContent(c echo.Context) error {
	_, span := tracer.Start(c.Request().Context(), "GetContent")
	defer span.End()

	content, ok := c.Get("content").(*models.Content)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("content: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("content.id", content.ID.String()))

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, content)
}

func (h *Handler) PatchContent(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "PatchContent")
	defer span.End()

	db := h.DB.WithContext(ctx)

	content, ok := c.Get("content").(*models.Content)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("content: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("content.id", content.ID.String()))

	type requestData struct {
		Position types.Optional[int]             `json:"position"`
		Body     types.Optional[json.RawMessage] `json:"body"`
		MaxScore types.Optional[int]             `json:"max_score"`
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

	if rdata.Position.Defined && rdata.Position.Value != nil {
		content.Position = *rdata.Position.Value
	}
	if rdata.Body.Defined && rdata.Body.Value != nil {
		content.Body = datatypes.JSON(*rdata.Body.Value)
	}
	if rdata.MaxScore.Defined && rdata.MaxScore.Value != nil {
		if *rdata.MaxScore.Value < 0 {
			span.SetStatus(codes.Ok, "max score must not be negative")
			span.RecordError(nil)
			return echo.NewHTTPError(
				http.StatusBadRequest,
				types.StringError("max_score must not be negative"),
			)
		}
		content.MaxScore = *rdata.MaxScore.Value
	}

	span.AddEvent("saving content to the database")
	err = db.Save(content).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to save content")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, content)
}

func (h *Handler) DeleteContent(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "DeleteContent")
	defer span.End()

	db := h.DB.WithContext(ctx)

	content, ok := c.Get("content").(*models.Content)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("content: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("content.id", content.ID.String()))

	span.AddEvent("deleting content from database")
	err := db.Delete(content).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to delete content")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.NoContent(http.StatusNoContent)
}
