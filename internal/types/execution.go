package types

import "github.com/google/uuid"

// Judge status ids as reported by the judge service. Anything above
// StatusProcessing means the remote job has finished, successfully or not.
const (
	StatusInQueue     int = 1
	StatusProcessing  int = 2
	StatusAccepted    int = 3
	StatusWrongAnswer int = 4
)

type JudgeStatus struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Terminal reports whether the judge has stopped working on the submission.
// A compile error or time limit exceeded is still terminal; only queued and
// processing states are not.
func (s JudgeStatus) Terminal() bool {
	return s.ID > StatusProcessing
}

type ExecutionRequest struct {
	SourceCode  string     `json:"source_code" validate:"required"`
	LanguageID  string     `json:"language_id" validate:"required"`
	Interpreter string     `json:"interpreter,omitempty"`
	Stdin       string     `json:"stdin,omitempty"`
	ContentID   *uuid.UUID `json:"content_id,omitempty"`
}

type ExecutionResult struct {
	Stdout        string      `json:"stdout"`
	Stderr        string      `json:"stderr"`
	CompileOutput string      `json:"compile_output"`
	Status        JudgeStatus `json:"status"`
	Time          string      `json:"time"`
	Memory        int         `json:"memory"`
}

// ProgressSummary is the best-effort progress bookkeeping echoed back to the
// caller when a content id was supplied and the update succeeded.
type ProgressSummary struct {
	Score     int  `json:"score"`
	MaxScore  int  `json:"max_score"`
	Completed bool `json:"completed"`
}

type ExecutionResponse struct {
	ExecutionResult
	Progress *ProgressSummary `json:"progress,omitempty"`
}
