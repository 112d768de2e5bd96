package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	srverr "github.com/Bab4nI/Jaba/cmd/server/internal/error"
	"github.com/Bab4nI/Jaba/cmd/server/internal/models"
	"github.com/Bab4nI/Jaba/cmd/server/internal/response"
	"github.com/Bab4nI/Jaba/internal/types"
)

func (h *Handler) ListProgress(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "ListProgress")
	defer span.End()

	db := h.DB.WithContext(ctx)

	auth, ok := c.Get("auth").(*models.Auth)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("auth: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("auth.id", auth.ID.String()))

	span.AddEvent("listing progress rows")
	rows, err := models.ListOrdered[models.ContentProgress](
		ctx,
		db,
		"updated_at DESC",
		"auth_id = ?",
		auth.ID,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list progress")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) GetProgress(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "GetProgress")
	defer span.End()

	db := h.DB.WithContext(ctx)

	auth, ok := c.Get("auth").(*models.Auth)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("auth: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	content, ok := c.Get("content").(*models.Content)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("content: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(
		attribute.String("auth.id", auth.ID.String()),
		attribute.String("content.id", content.ID.String()),
	)

	span.AddEvent("fetching progress row")
	var row models.ContentProgress
	err := db.Where("auth_id = ? AND content_id = ?", auth.ID, content.ID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// user has not attempted this content yet
			span.RecordError(nil)
			span.SetStatus(codes.Ok, "no progress yet")
			return c.JSON(http.StatusOK, types.ProgressSummary{
				Score:     0,
				MaxScore:  content.MaxScore,
				Completed: false,
			})
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch progress")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, types.ProgressSummary{
		Score:     row.Score,
		MaxScore:  content.MaxScore,
		Completed: row.Completed,
	})
}
