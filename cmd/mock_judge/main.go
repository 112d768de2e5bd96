// mock_judge is a stand in for a Judge0 deployment during local development.
// Submissions are held in memory and report an in queue status for the first
// polls before flipping to a canned terminal result.
package main

import (
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Bab4nI/Jaba/internal/judge"
	"github.com/Bab4nI/Jaba/internal/types"
	"github.com/Bab4nI/Jaba/internal/validator"
)

// polls before a submission reports a terminal status
const pollsUntilDone = 2

type submission struct {
	payload judge.Submission
	polls   int
}

type store struct {
	mu          sync.Mutex
	submissions map[string]*submission
}

func newStore() *store {
	return &store{submissions: make(map[string]*submission)}
}

func (s *store) submit(payload judge.Submission) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.New().String()
	s.submissions[token] = &submission{payload: payload}
	return token
}

func (s *store) poll(token string) (*judge.RawResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.submissions[token]
	if !ok {
		return nil, false
	}

	sub.polls++
	if sub.polls < pollsUntilDone {
		return &judge.RawResult{
			Status: types.JudgeStatus{ID: types.StatusInQueue, Description: "In Queue"},
		}, true
	}

	result := canned(sub.payload)
	return &result, true
}

// canned fabricates a terminal result. Sources containing "panic" fail, the
// rest pass with their stdin echoed back.
func canned(payload judge.Submission) judge.RawResult {
	runTime := "0.013"
	memory := 2048

	if strings.Contains(payload.SourceCode, "panic") {
		stderr := "runtime error"
		empty := ""
		return judge.RawResult{
			Stdout:        &empty,
			Stderr:        &stderr,
			CompileOutput: &empty,
			Status:        types.JudgeStatus{ID: types.StatusWrongAnswer, Description: "Wrong Answer"},
			Time:          &runTime,
			Memory:        &memory,
		}
	}

	stdout := payload.Stdin
	empty := ""
	return judge.RawResult{
		Stdout:        &stdout,
		Stderr:        &empty,
		CompileOutput: &empty,
		Status:        types.JudgeStatus{ID: types.StatusAccepted, Description: "Accepted"},
		Time:          &runTime,
		Memory:        &memory,
	}
}

func main() {
	e := echo.New()

	validate := validator.Create()
	e.Validator = &validate

	e.Use(middleware.Logger())

	db := newStore()

	e.POST("/submissions", func(c echo.Context) error {
		var payload judge.Submission
		if err := c.Bind(&payload); err != nil {
			return echo.NewHTTPError(
				http.StatusBadRequest,
				types.StringError("failed parsing request data"),
			)
		}

		if payload.SourceCode == "" {
			return echo.NewHTTPError(
				http.StatusUnprocessableEntity,
				types.StringError("source_code must not be empty"),
			)
		}

		token := db.submit(payload)
		return c.JSON(http.StatusCreated, map[string]string{"token": token})
	})

	e.GET("/submissions/:token", func(c echo.Context) error {
		result, ok := db.poll(c.Param("token"))
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, types.StringError("unknown token"))
		}

		return c.JSON(http.StatusOK, result)
	})

	e.Logger.Fatal(e.Start(":2358"))
}
