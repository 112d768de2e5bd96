package judge

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"

	"github.com/Bab4nI/Jaba/internal/types"
)

var tracer = otel.Tracer("github.com/Bab4nI/Jaba/internal/judge")

//go:generate mockgen -destination ./mock/mock.go -package mock . Client

// Client talks to a Judge0-style sandboxed execution service. The protocol is
// submit-then-poll: Submit returns a token identifying the async job and
// Result reads its current state.
type Client interface {
	Submit(ctx context.Context, sub Submission) (string, error)
	Result(ctx context.Context, token string) (*RawResult, error)
}

// Submission is the outbound payload for the judge's submission endpoint.
// Resource limits ride along with every submission so a judge deployment
// cannot be talked into running unbounded user code.
type Submission struct {
	SourceCode               string  `json:"source_code"`
	LanguageID               int     `json:"language_id"`
	Stdin                    string  `json:"stdin"`
	CPUTimeLimit             float64 `json:"cpu_time_limit,omitempty"`
	MemoryLimit              int     `json:"memory_limit,omitempty"`
	MaxProcessesAndOrThreads int     `json:"max_processes_and_or_threads,omitempty"`
	EnableNetwork            bool    `json:"enable_network"`
}

// RawResult is the judge's result payload as returned by the poll endpoint.
// Output fields are nullable until the job reaches a terminal status.
type RawResult struct {
	Stdout        *string           `json:"stdout"`
	Stderr        *string           `json:"stderr"`
	CompileOutput *string           `json:"compile_output"`
	Status        types.JudgeStatus `json:"status"`
	Time          *string           `json:"time"`
	Memory        *int              `json:"memory"`
}

// ErrMissingToken indicates the judge accepted a submission but violated the
// protocol by not returning a token for it.
var ErrMissingToken = errors.New("judge returned no submission token")

// StatusError indicates the judge responded outside the 2xx range.
type StatusError struct {
	Code int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("judge returned status %d", e.Code)
}

// Protocol reports whether err is a judge protocol violation rather than a
// transport level failure.
func Protocol(err error) bool {
	var statusErr StatusError
	return errors.Is(err, ErrMissingToken) || errors.As(err, &statusErr)
}
