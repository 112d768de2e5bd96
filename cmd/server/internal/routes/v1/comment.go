package v1

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	srverr "github.com/Bab4nI/Jaba/cmd/server/internal/error"
	"github.com/Bab4nI/Jaba/cmd/server/internal/models"
	"github.com/Bab4nI/Jaba/cmd/server/internal/response"
	"github.com/Bab4nI/Jaba/internal/types"
)

func (h *Handler) ListComments(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "ListComments")
	defer span.End()

	db := h.DB.WithContext(ctx)

	lesson, ok := c.Get("lesson").(*models.Lesson)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("lesson: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("lesson.id", lesson.ID.String()))

	span.AddEvent("listing comments")
	comments, err := models.ListOrdered[models.Comment](
		ctx,
		db,
		"created_at ASC",
		"lesson_id = ?",
		lesson.ID,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list comments")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, comments)
}

func (h *Handler) CreateComment(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "CreateComment")
	defer span.End()

	db := h.DB.WithContext(ctx)

	auth, ok := c.Get("auth").(*models.Auth)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("auth: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	lesson, ok := c.Get("lesson").(*models.Lesson)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("lesson: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(
		attribute.String("auth.id", auth.ID.String()),
		attribute.String("lesson.id", lesson.ID.String()),
	)

	type requestData struct {
		Body     string     `json:"body"      validate:"required"`
		ParentID *uuid.UUID `json:"parent_id"`
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

	if rdata.ParentID != nil {
		span.AddEvent("checking parent comment")
		exists, err := models.Exists[models.Comment](
			ctx,
			db,
			"id = ? AND lesson_id = ?",
			*rdata.ParentID,
			lesson.ID,
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to check parent comment")
			return response.InternalServerError
		}

		if !exists {
			span.SetStatus(codes.Ok, "parent comment not found in this lesson")
			span.RecordError(nil)
			return response.NotFoundError
		}
	}

	comment := &models.Comment{
		Body:     rdata.Body,
		LessonID: lesson.ID,
		AuthorID: auth.ID,
		ParentID: models.NewNull(rdata.ParentID),
	}

	span.AddEvent("inserting into database")
	err = db.Create(comment).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to insert")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("comment.id", comment.ID.String()))

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusCreated, comment)
}

func (h *Handler) DeleteComment(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "DeleteComment")
	defer span.End()

	db := h.DB.WithContext(ctx)

	auth, ok := c.Get("auth").(*models.Auth)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("auth: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	comment, ok := c.Get("comment").(*models.Comment)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("comment: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(
		attribute.String("auth.id", auth.ID.String()),
		attribute.String("comment.id", comment.ID.String()),
	)

	span.AddEvent("checking user can perform this operation")
	if comment.AuthorID != auth.ID && !auth.Admin {
		span.SetStatus(codes.Ok, "author did not match")
		span.RecordError(nil)
		return response.NotFoundError
	}

	span.AddEvent("deleting comment from database")
	err := db.Delete(comment).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to delete comment")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.NoContent(http.StatusNoContent)
}
