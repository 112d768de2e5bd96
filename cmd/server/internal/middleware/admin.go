package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Bab4nI/Jaba/cmd/server/internal/models"
	"github.com/Bab4nI/Jaba/internal/types"
)

// RequireAdmin rejects requests whose auth on `authKey` is not an admin key.
// Course authoring and key management routes sit behind this.
func RequireAdmin(authKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			_, span := tracer.Start(c.Request().Context(), "RequireAdmin", trace.WithAttributes(
				attribute.String("authKey", authKey),
			))
			defer span.End()

			auth, ok := c.Get(authKey).(*models.Auth)
			if !ok {
				span.RecordError(nil)
				span.SetStatus(codes.Error, "failed to get auth object")
				return echo.NewHTTPError(http.StatusUnauthorized, types.StringError("Unauthorized"))
			}

			span.SetAttributes(
				attribute.String("auth.note", auth.Note),
				attribute.Bool("auth.admin", auth.Admin),
			)

			if !auth.Admin {
				span.RecordError(nil)
				span.SetStatus(codes.Ok, "unauthorized")
				return echo.NewHTTPError(http.StatusUnauthorized, types.StringError("Unauthorized"))
			}

			span.RecordError(nil)
			span.SetStatus(codes.Ok, "checked admin")
			return next(c)
		}
	}
}
