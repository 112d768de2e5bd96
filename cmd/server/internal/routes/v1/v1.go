package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	srverr "github.com/Bab4nI/Jaba/cmd/server/internal/error"
	servermiddleware "github.com/Bab4nI/Jaba/cmd/server/internal/middleware"
	"github.com/Bab4nI/Jaba/cmd/server/internal/models"
	"github.com/Bab4nI/Jaba/cmd/server/internal/ratelimit"
	"github.com/Bab4nI/Jaba/internal/assistant"
	"github.com/Bab4nI/Jaba/internal/config"
	"github.com/Bab4nI/Jaba/internal/execution"
	"github.com/Bab4nI/Jaba/internal/logger"
	"github.com/Bab4nI/Jaba/internal/storage"
)

const name = "github.com/Bab4nI/Jaba/cmd/server/internal/routes/v1"

var tracer = otel.Tracer(name)

func ptr[T any](v T) *T {
	return &v
}

type Handler struct {
	DB          *gorm.DB
	gateway     *execution.Gateway
	assistant   assistant.Client
	attachments storage.Store
	config      *config.Config
}

func NewRedisLimiter(
	rdb *redis.Client,
	limiterKey string,
	perMinute int64,
	failOpen bool,
	onlyMethod *string,
) middleware.RateLimiterConfig {
	var store middleware.RateLimiterStore

	rdConf := &ratelimit.RedisLimiterConfig{
		PerMinute:   perMinute,
		RedisClient: rdb,
		LimiterKey:  limiterKey,
		FailOpen:    failOpen,
	}
	store = ratelimit.NewRedisLimitStore(*rdConf)

	skipper := middleware.DefaultSkipper
	if onlyMethod != nil {
		skipper = func(c echo.Context) bool {
			return c.Request().Method != *onlyMethod
		}
	}

	return middleware.RateLimiterConfig{
		Skipper: skipper,
		Store:   store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			auth, ok := c.Get("auth").(*models.Auth)
			if !ok {
				return "", srverr.ErrTypeAssertMismatch
			}
			return auth.ID.String(), nil
		},
		ErrorHandler: func(context echo.Context, _ error) error {
			return context.JSON(http.StatusForbidden, nil)
		},
		DenyHandler: func(context echo.Context, _ string, _ error) error {
			return context.JSON(http.StatusTooManyRequests, nil)
		},
	}
}

func NewHandler(
	db *gorm.DB,
	gateway *execution.Gateway,
	assistantClient assistant.Client,
	attachments storage.Store,
	cfg *config.Config,
) Handler {
	return Handler{
		DB:          db,
		gateway:     gateway,
		assistant:   assistantClient,
		attachments: attachments,
		config:      cfg,
	}
}

func (h *Handler) AddRoutes(e *echo.Echo, middlewareHandler *servermiddleware.Handler, rdb *redis.Client) {
	l := logger.Logger

	v1Group := e.Group("/v1", middleware.BasicAuth(middlewareHandler.BasicAuthValidator))

	if h.config.RateLimit != nil && h.config.RateLimit.GlobalPerMinute > 0 {
		v1Group.Use(
			middleware.RateLimiterWithConfig(
				NewRedisLimiter(
					rdb,
					"global",
					h.config.RateLimit.GlobalPerMinute,
					h.config.RateLimit.FailOpen,
					nil,
				),
			),
		)
	} else {
		l.Warn("not configured to have a global rate limit")
	}

	v1Group.GET("/ping/", h.Ping)

	courseGroup := v1Group.Group("/course")
	courseGroup.GET("/", h.ListCourses)
	courseGroup.POST("/", h.CreateCourse, servermiddleware.RequireAdmin("auth"))

	courseIDGroup := courseGroup.Group(
		"/:course_id",
		servermiddleware.PopulateFromIDParam[models.Course](middlewareHandler, "course_id", "course"),
	)
	courseIDGroup.GET("/", h.GetCourse)
	courseIDGroup.PATCH("/", h.PatchCourse, servermiddleware.RequireAdmin("auth"))
	courseIDGroup.DELETE("/", h.DeleteCourse, servermiddleware.RequireAdmin("auth"))
	courseIDGroup.GET("/module/", h.ListModules)
	courseIDGroup.POST("/module/", h.CreateModule, servermiddleware.RequireAdmin("auth"))

	moduleGroup := v1Group.Group(
		"/module/:module_id",
		servermiddleware.PopulateFromIDParam[models.CourseModule](middlewareHandler, "module_id", "module"),
		middlewareHandler.RequirePublishedCourse("module", "auth", models.CourseForModule),
	)
	moduleGroup.GET("/", h.GetModule)
	moduleGroup.PATCH("/", h.PatchModule, servermiddleware.RequireAdmin("auth"))
	moduleGroup.DELETE("/", h.DeleteModule, servermiddleware.RequireAdmin("auth"))
	moduleGroup.GET("/lesson/", h.ListLessons)
	moduleGroup.POST("/lesson/", h.CreateLesson, servermiddleware.RequireAdmin("auth"))

	lessonGroup := v1Group.Group(
		"/lesson/:lesson_id",
		servermiddleware.PopulateFromIDParam[models.Lesson](middlewareHandler, "lesson_id", "lesson"),
		middlewareHandler.RequirePublishedCourse("lesson", "auth", models.CourseForLesson),
	)
	lessonGroup.GET("/", h.GetLesson)
	lessonGroup.PATCH("/", h.PatchLesson, servermiddleware.RequireAdmin("auth"))
	lessonGroup.DELETE("/", h.DeleteLesson, servermiddleware.RequireAdmin("auth"))
	lessonGroup.GET("/content/", h.ListContents)
	lessonGroup.POST("/content/", h.CreateContent, servermiddleware.RequireAdmin("auth"))
	lessonGroup.GET("/comment/", h.ListComments)
	lessonGroup.POST("/comment/", h.CreateComment)

	contentGroup := v1Group.Group(
		"/content/:content_id",
		servermiddleware.PopulateFromIDParam[models.Content](middlewareHandler, "content_id", "content"),
		middlewareHandler.RequirePublishedCourse("content", "auth", models.CourseForContent),
	)
	contentGroup.GET("/", h.GetContent)
	contentGroup.PATCH("/", h.PatchContent, servermiddleware.RequireAdmin("auth"))
	contentGroup.DELETE("/", h.DeleteContent, servermiddleware.RequireAdmin("auth"))
	contentGroup.POST("/attachment/", h.UploadAttachment, servermiddleware.RequireAdmin("auth"))
	contentGroup.GET("/attachment/", h.DownloadAttachment)
	contentGroup.GET("/progress/", h.GetProgress)

	v1Group.DELETE(
		"/comment/:comment_id/",
		h.DeleteComment,
		servermiddleware.PopulateFromIDParam[models.Comment](middlewareHandler, "comment_id", "comment"),
	)

	v1Group.GET("/progress/", h.ListProgress)

	executeGroup := v1Group.Group("/execute")
	if h.config.RateLimit != nil && h.config.RateLimit.ExecutePerMinute > 0 {
		post := http.MethodPost

		executeGroup.Use(
			middleware.RateLimiterWithConfig(
				NewRedisLimiter(
					rdb,
					"execute",
					h.config.RateLimit.ExecutePerMinute,
					h.config.RateLimit.FailOpen,
					&post,
				),
			),
		)
	} else {
		l.Warn("not configured to have an execute rate limit")
	}
	executeGroup.POST("/", h.Execute)

	chatGroup := v1Group.Group("/chat")
	chatGroup.GET("/", h.ChatHistory)
	chatGroup.POST("/", h.Chat)
	chatGroup.DELETE("/", h.ResetChat)
}
