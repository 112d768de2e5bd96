package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	srverr "github.com/Bab4nI/Jaba/cmd/server/internal/error"
	"github.com/Bab4nI/Jaba/cmd/server/internal/models"
	"github.com/Bab4nI/Jaba/cmd/server/internal/response"
)

// CourseLookup resolves the course owning the resource with the given id.
type CourseLookup func(ctx context.Context, db *gorm.DB, id uuid.UUID) (*models.Course, error)

// RequirePublishedCourse hides resources under an unpublished course from
// non-admin callers. Must run after the id param middleware that stores the
// resource under contextName.
func (h *Handler) RequirePublishedCourse(
	contextName string,
	authKey string,
	lookup CourseLookup,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, span := tracer.Start(c.Request().Context(), "RequirePublishedCourse")
			defer span.End()

			span.SetAttributes(attribute.String("contextName", contextName))

			auth, ok := c.Get(authKey).(*models.Auth)
			if !ok {
				span.RecordError(srverr.ErrTypeAssertMismatch)
				span.SetStatus(
					codes.Error,
					fmt.Sprintf("auth: %s", srverr.ErrTypeAssertMismatch),
				)
				return response.InternalServerError
			}

			if auth.Admin {
				span.RecordError(nil)
				span.SetStatus(codes.Ok, "admin bypasses publication gating")
				return next(c)
			}

			data, ok := c.Get(contextName).(models.PlatformModel)
			if !ok {
				span.RecordError(srverr.ErrTypeAssertMismatch)
				span.SetStatus(
					codes.Error,
					fmt.Sprintf("%s: %s", contextName, srverr.ErrTypeAssertMismatch),
				)
				return response.InternalServerError
			}

			span.AddEvent("resolving owning course")
			course, err := lookup(ctx, h.DB, data.GetID())
			if err != nil {
				span.RecordError(err)
				if errors.Is(err, gorm.ErrRecordNotFound) {
					span.SetStatus(codes.Ok, "owning course not found")
					return response.NotFoundError
				}

				span.SetStatus(codes.Error, "failed to resolve owning course")
				return response.InternalServerError
			}

			span.SetAttributes(
				attribute.String("course.id", course.ID.String()),
				attribute.Bool("course.published", course.Published),
			)

			if !course.Published {
				span.SetStatus(codes.Ok, "course is not published")
				span.RecordError(nil)
				return response.NotFoundError
			}

			span.RecordError(nil)
			span.SetStatus(codes.Ok, "")
			return next(c)
		}
	}
}
