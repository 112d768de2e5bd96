package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Bab4nI/Jaba/cmd/server/internal/models"
	"github.com/Bab4nI/Jaba/cmd/server/internal/response"
)

func publishTestContext(t *testing.T, auth *models.Auth) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	c.Set("auth", auth)
	c.Set("module", &models.CourseModule{Model: models.Model{ID: uuid.New()}})

	return c
}

func stubLookup(course *models.Course, err error) CourseLookup {
	return func(context.Context, *gorm.DB, uuid.UUID) (*models.Course, error) {
		return course, err
	}
}

func TestRequirePublishedCourse(t *testing.T) {
	h := &Handler{}

	next := func(called *bool) echo.HandlerFunc {
		return func(c echo.Context) error {
			*called = true
			return c.NoContent(http.StatusOK)
		}
	}

	t.Run("PublishedCoursePasses", func(t *testing.T) {
		c := publishTestContext(t, &models.Auth{})
		lookup := stubLookup(&models.Course{Published: true}, nil)

		called := false
		err := h.RequirePublishedCourse("module", "auth", lookup)(next(&called))(c)
		require.NoError(t, err)

		assert.True(t, called, "handler was not reached")
	})

	t.Run("UnpublishedCourseHidden", func(t *testing.T) {
		c := publishTestContext(t, &models.Auth{})
		lookup := stubLookup(&models.Course{Published: false}, nil)

		called := false
		err := h.RequirePublishedCourse("module", "auth", lookup)(next(&called))(c)

		assert.Equal(t, response.NotFoundError, err)
		assert.False(t, called, "handler must not be reached")
	})

	t.Run("AdminBypasses", func(t *testing.T) {
		c := publishTestContext(t, &models.Auth{Admin: true})
		lookup := stubLookup(nil, errors.New("lookup must not run for admins"))

		called := false
		err := h.RequirePublishedCourse("module", "auth", lookup)(next(&called))(c)
		require.NoError(t, err)

		assert.True(t, called, "handler was not reached")
	})

	t.Run("MissingCourseHidden", func(t *testing.T) {
		c := publishTestContext(t, &models.Auth{})
		lookup := stubLookup(nil, gorm.ErrRecordNotFound)

		called := false
		err := h.RequirePublishedCourse("module", "auth", lookup)(next(&called))(c)

		assert.Equal(t, response.NotFoundError, err)
		assert.False(t, called, "handler must not be reached")
	})

	t.Run("LookupFailure", func(t *testing.T) {
		c := publishTestContext(t, &models.Auth{})
		lookup := stubLookup(nil, errors.New("connection refused"))

		called := false
		err := h.RequirePublishedCourse("module", "auth", lookup)(next(&called))(c)

		assert.Equal(t, response.InternalServerError, err)
		assert.False(t, called, "handler must not be reached")
	})

	t.Run("MissingAuth", func(t *testing.T) {
		e := echo.New()
		c := e.NewContext(
			httptest.NewRequest(http.MethodGet, "/", nil),
			httptest.NewRecorder(),
		)
		lookup := stubLookup(&models.Course{Published: true}, nil)

		called := false
		err := h.RequirePublishedCourse("module", "auth", lookup)(next(&called))(c)

		assert.Equal(t, response.InternalServerError, err)
		assert.False(t, called, "handler must not be reached")
	})
}
