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
	"github.com/Bab4nI/Jaba/internal/assistant"
	"github.com/Bab4nI/Jaba/internal/types"
)

// Conversations are bounded so a long lived chat cannot grow the completion
// request without limit. Older messages fall off the front.
const maxChatHistory = 40

func (h *Handler) ChatHistory(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "ChatHistory")
	defer span.End()

	db := h.DB.WithContext(ctx)

	auth, ok := c.Get("auth").(*models.Auth)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("auth: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("auth.id", auth.ID.String()))

	span.AddEvent("fetching chat state")
	var state models.ChatState
	err := db.Where("auth_id = ?", auth.ID).First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(nil)
			span.SetStatus(codes.Ok, "no chat history yet")
			return c.JSON(http.StatusOK, []assistant.Message{})
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch chat state")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, state.Messages)
}

func (h *Handler) Chat(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Chat")
	defer span.End()

	db := h.DB.WithContext(ctx)

	auth, ok := c.Get("auth").(*models.Auth)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("auth: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("auth.id", auth.ID.String()))

	type requestData struct {
		Message string `json:"message" validate:"required"`
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

	span.AddEvent("fetching chat state")
	var state models.ChatState
	err = db.Where("auth_id = ?", auth.ID).First(&state).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch chat state")
			return response.InternalServerError
		}

		state = models.ChatState{AuthID: auth.ID}
	}

	state.Messages = append(state.Messages, assistant.Message{
		Role:    assistant.RoleUser,
		Content: rdata.Message,
	})
	if len(state.Messages) > maxChatHistory {
		state.Messages = state.Messages[len(state.Messages)-maxChatHistory:]
	}

	span.AddEvent("requesting completion")
	reply, err := h.assistant.Complete(ctx, state.Messages)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get completion")
		return echo.NewHTTPError(
			http.StatusBadGateway,
			types.StringError("assistant unavailable"),
		)
	}

	state.Messages = append(state.Messages, assistant.Message{
		Role:    assistant.RoleAssistant,
		Content: reply,
	})

	span.AddEvent("saving chat state")
	err = db.Save(&state).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save chat state")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, assistant.Message{
		Role:    assistant.RoleAssistant,
		Content: reply,
	})
}

func (h *Handler) ResetChat(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "ResetChat")
	defer span.End()

	db := h.DB.WithContext(ctx)

	auth, ok := c.Get("auth").(*models.Auth)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("auth: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	span.SetAttributes(attribute.String("auth.id", auth.ID.String()))

	span.AddEvent("deleting chat state")
	err := db.Where("auth_id = ?", auth.ID).Delete(&models.ChatState{}).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete chat state")
		return response.InternalServerError
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.NoContent(http.StatusNoContent)
}
