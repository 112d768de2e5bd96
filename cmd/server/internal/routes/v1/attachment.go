package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	srverr "github.com/Bab4nI/Jaba/cmd/server/internal/error"
	"github.com/Bab4nI/Jaba/cmd/server/internal/models"
	"github.com/Bab4nI/Jaba/cmd/server/internal/response"
	"github.com/Bab4nI/Jaba/internal/audit"
	"github.com/Bab4nI/Jaba/internal/storage"
	"github.com/Bab4nI/Jaba/internal/types"
)

// attachments are immutable once stored, a short lived url is plenty
const downloadURLTTL = 15 * time.Minute

const maxAttachmentBytes = 50 << 20

func (h *Handler) UploadAttachment(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "UploadAttachment")
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

	span.AddEvent("reading multipart file")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		span.SetStatus(codes.Ok, "request did not contain a file")
		span.RecordError(err)
		return echo.NewHTTPError(
			http.StatusBadRequest,
			types.StringError("request must contain a file field"),
		)
	}

	span.SetAttributes(
		attribute.String("file.name", fileHeader.Filename),
		attribute.Int64("file.size", fileHeader.Size),
	)

	if fileHeader.Size > maxAttachmentBytes {
		span.SetStatus(codes.Ok, "file too large")
		span.RecordError(nil)
		return echo.NewHTTPError(
			http.StatusRequestEntityTooLarge,
			types.StringError("file too large"),
		)
	}

	src, err := fileHeader.Open()
	if err != nil {
		span.SetStatus(codes.Error, "failed to open multipart file")
		span.RecordError(err)
		return response.InternalServerError
	}
	defer src.Close()

	span.AddEvent("storing file by content hash")
	key, err := storage.PutHashed(ctx, h.attachments, src, fileHeader.Size)
	if err != nil {
		span.SetStatus(codes.Error, "failed to store file")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("attachment.key", key))

	content.AttachmentKey = key

	span.AddEvent("saving content to the database")
	err = db.Save(content).Error
	if err != nil {
		span.SetStatus(codes.Error, "failed to save content")
		span.RecordError(err)
		return response.InternalServerError
	}

	audit.LogAttachmentStored(audit.Context{
		UserID:    ptr(auth.ID.String()),
		ContentID: ptr(content.ID.String()),
	}, key, fileHeader.Size)

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, content)
}

func (h *Handler) DownloadAttachment(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "DownloadAttachment")
	defer span.End()

	content, ok := c.Get("content").(*models.Content)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("content: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(
		attribute.String("content.id", content.ID.String()),
		attribute.String("attachment.key", content.AttachmentKey),
	)

	if content.AttachmentKey == "" {
		span.SetStatus(codes.Ok, "content has no attachment")
		span.RecordError(nil)
		return response.NotFoundError
	}

	span.AddEvent("generating download url")
	url, err := h.attachments.DownloadURL(ctx, content.AttachmentKey, downloadURLTTL)
	if err != nil {
		span.SetStatus(codes.Error, "failed to generate download url")
		span.RecordError(err)
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
