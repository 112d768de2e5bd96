package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	srverr "github.com/Bab4nI/Jaba/cmd/server/internal/error"
	"github.com/Bab4nI/Jaba/cmd/server/internal/models"
	"github.com/Bab4nI/Jaba/cmd/server/internal/response"
	"github.com/Bab4nI/Jaba/internal/execution"
	"github.com/Bab4nI/Jaba/internal/types"
)

func (h *Handler) Execute(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Execute")
	defer span.End()

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

	var rdata types.ExecutionRequest

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

	span.SetAttributes(
		attribute.String("language", rdata.LanguageID),
		attribute.Int("source.bytes", len(rdata.SourceCode)),
	)

	span.AddEvent("submitting to the judge")
	result, err := h.gateway.Execute(ctx, auth.ID, rdata)
	if err != nil {
		span.RecordError(err)

		var validationErr execution.ValidationError
		if errors.As(err, &validationErr) {
			span.SetStatus(codes.Ok, "submission failed validation")
			return echo.NewHTTPError(http.StatusBadRequest, types.StringError(validationErr.Error()))
		}

		var timeoutErr execution.SubmissionTimeoutError
		if errors.As(err, &timeoutErr) {
			span.SetStatus(codes.Error, "judge did not finish in time")
			return echo.NewHTTPError(
				http.StatusGatewayTimeout,
				types.StringError("code execution did not finish in time"),
			)
		}

		var networkErr execution.TransientNetworkError
		if errors.As(err, &networkErr) {
			span.SetStatus(codes.Error, "judge was unreachable")
			return echo.NewHTTPError(
				http.StatusBadGateway,
				types.StringError("code execution service unavailable"),
			)
		}

		var serviceErr execution.ExternalServiceError
		if errors.As(err, &serviceErr) {
			span.SetStatus(codes.Error, "judge misbehaved")
			return echo.NewHTTPError(
				http.StatusBadGateway,
				types.StringError("code execution service returned an invalid response"),
			)
		}

		span.SetStatus(codes.Error, "failed to execute submission")
		return response.InternalServerError
	}

	span.SetAttributes(attribute.Int("status.id", result.Status.ID))

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return c.JSON(http.StatusOK, result)
}
