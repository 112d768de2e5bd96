package execution

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Bab4nI/Jaba/internal/audit"
	"github.com/Bab4nI/Jaba/internal/cache"
	"github.com/Bab4nI/Jaba/internal/config"
	"github.com/Bab4nI/Jaba/internal/hash"
	"github.com/Bab4nI/Jaba/internal/judge"
	"github.com/Bab4nI/Jaba/internal/logger"
	"github.com/Bab4nI/Jaba/internal/types"
	"github.com/Bab4nI/Jaba/internal/validator"
)

var tracer = otel.Tracer("github.com/Bab4nI/Jaba/internal/execution")

//go:generate mockgen -destination ./mock/mock.go -package mock . ProgressRecorder

// ProgressRecorder applies the outcome of a judged submission to a user's
// progress record for a piece of content. Implemented by the models layer;
// injected so the gateway stays free of the ORM.
type ProgressRecorder interface {
	Record(
		ctx context.Context,
		userID uuid.UUID,
		contentID uuid.UUID,
		accepted bool,
	) (*types.ProgressSummary, error)
}

// Gateway turns a source + language + optional stdin into a normalized
// execution result, driving the judge's asynchronous submit/poll protocol
// under a bounded wait budget. One inbound request blocks one handler for the
// whole poll loop; the only shared state is the result cache.
type Gateway struct {
	judge     judge.Client
	cache     cache.ResultCache
	progress  ProgressRecorder
	languages map[string]config.Language
	cfg       *config.JudgeConfig
}

func NewGateway(
	judgeClient judge.Client,
	resultCache cache.ResultCache,
	progress ProgressRecorder,
	languages map[string]config.Language,
	cfg *config.JudgeConfig,
) *Gateway {
	return &Gateway{
		judge:     judgeClient,
		cache:     resultCache,
		progress:  progress,
		languages: languages,
		cfg:       cfg,
	}
}

// errStillRunning drives the poll loop: the judge answered but the job has
// not reached a terminal status yet.
var errStillRunning = errors.New("submission not in a terminal state")

func ptr[T any](v T) *T {
	return &v
}

// Execute runs the whole validate, submit, poll, normalize, cache pipeline.
// Terminal judge statuses are a success of the protocol even when the program
// itself failed; only transport faults, protocol violations and an exhausted
// poll budget are errors.
func (g *Gateway) Execute(
	ctx context.Context,
	userID uuid.UUID,
	req types.ExecutionRequest,
) (*types.ExecutionResponse, error) {
	ctx, span := tracer.Start(ctx, "Gateway.Execute", trace.WithAttributes(
		attribute.String("language.requested", req.LanguageID),
		attribute.Int("source.bytes", len(req.SourceCode)),
	))
	defer span.End()

	span.AddEvent("validating request")
	if req.SourceCode == "" {
		span.SetStatus(codes.Ok, "empty source")
		return nil, ValidationError{Field: "source_code", Reason: "must not be empty"}
	}
	if !validator.ValidateSourceSize(len(req.SourceCode)) {
		span.SetStatus(codes.Ok, "source too large")
		return nil, ValidationError{Field: "source_code", Reason: "payload too large"}
	}
	if !validator.ValidateStdinSize(len(req.Stdin)) {
		span.SetStatus(codes.Ok, "stdin too large")
		return nil, ValidationError{Field: "stdin", Reason: "payload too large"}
	}

	languageID, err := ResolveLanguage(g.languages, req.LanguageID, req.Interpreter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Ok, "failed to resolve language")
		return nil, err
	}

	span.SetAttributes(attribute.Int("language.id", languageID))

	fingerprint := hash.Fields(req.SourceCode, strconv.Itoa(languageID), req.Stdin)
	span.SetAttributes(attribute.String("fingerprint", fingerprint))

	span.AddEvent("checking result cache")
	if cached, ok, cerr := g.cache.Get(ctx, fingerprint); cerr != nil {
		// a broken cache must not block execution, treat as a miss
		span.RecordError(cerr)
		logger.Logger.Warn("result cache read failed",
			"error", cerr, "fingerprint", fingerprint)
	} else if ok {
		span.AddEvent("cache hit")
		span.RecordError(nil)
		span.SetStatus(codes.Ok, "served from cache")
		return g.respond(ctx, userID, req, languageID, cached, true), nil
	}

	span.AddEvent("submitting to judge")
	token, err := g.judge.Submit(ctx, judge.Submission{
		SourceCode:               req.SourceCode,
		LanguageID:               languageID,
		Stdin:                    req.Stdin,
		CPUTimeLimit:             g.cfg.CPUTimeLimit,
		MemoryLimit:              g.cfg.MemoryLimitKB,
		MaxProcessesAndOrThreads: g.cfg.MaxProcesses,
		EnableNetwork:            false,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit to judge")
		logger.Logger.Error("judge submit failed",
			"error", err, "fingerprint", fingerprint)

		if judge.Protocol(err) {
			return nil, ExternalServiceError{Err: err}
		}
		return nil, TransientNetworkError{Err: err}
	}

	span.SetAttributes(attribute.String("submission.token", token))

	raw, attempts, err := g.poll(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "poll loop failed")
		logger.Logger.Error("judge poll failed",
			"error", err,
			"fingerprint", fingerprint,
			"token", token,
			"attempts", attempts)
		return nil, err
	}

	span.AddEvent("normalizing result", trace.WithAttributes(
		attribute.Int("poll.attempts", attempts),
		attribute.Int("status.id", raw.Status.ID),
	))
	result := normalize(raw)

	if cerr := g.cache.Set(ctx, fingerprint, result, g.cfg.ResultCacheTTL); cerr != nil {
		// memoization only, losing a write costs a duplicate judge run later
		span.RecordError(cerr)
		logger.Logger.Warn("result cache write failed",
			"error", cerr, "fingerprint", fingerprint)
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "execution finished")
	return g.respond(ctx, userID, req, languageID, result, false), nil
}

// poll waits for the judge to reach a terminal status, one bounded constant
// interval at a time. This is a wait for the judge's own asynchronous
// completion, not retry-on-failure: any poll error aborts immediately.
func (g *Gateway) poll(
	ctx context.Context,
	token string,
) (*judge.RawResult, int, error) {
	ctx, span := tracer.Start(ctx, "Gateway.poll", trace.WithAttributes(
		attribute.String("submission.token", token),
		attribute.Int("budget.attempts", g.cfg.PollAttempts),
		attribute.String("budget.delay", g.cfg.PollDelay.String()),
	))
	defer span.End()

	var raw *judge.RawResult
	attempts := 0

	b := retry.WithMaxRetries(
		uint64(g.cfg.PollAttempts-1),
		retry.NewConstant(g.cfg.PollDelay),
	)
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempts++

		r, err := g.judge.Result(ctx, token)
		if err != nil {
			// not retryable: a failing poll is a failure, not a pending job
			return err
		}

		if !r.Status.Terminal() {
			return retry.RetryableError(errStillRunning)
		}

		raw = r
		return nil
	})
	if err != nil {
		if errors.Is(err, errStillRunning) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "poll budget exhausted")
			return nil, attempts, SubmissionTimeoutError{Token: token, Attempts: attempts}
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to poll judge")
		if judge.Protocol(err) {
			return nil, attempts, ExternalServiceError{Err: err}
		}
		return nil, attempts, TransientNetworkError{Err: err}
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "reached terminal status")
	return raw, attempts, nil
}

func normalize(raw *judge.RawResult) *types.ExecutionResult {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}

	result := &types.ExecutionResult{
		Stdout:        deref(raw.Stdout),
		Stderr:        deref(raw.Stderr),
		CompileOutput: deref(raw.CompileOutput),
		Status:        raw.Status,
		Time:          deref(raw.Time),
	}
	if raw.Memory != nil {
		result.Memory = *raw.Memory
	}

	return result
}

// respond emits the audit event for a terminal result and attaches the
// best-effort progress side effect. Progress bookkeeping is secondary to
// reporting the execution outcome: a failed update is logged and the result
// returned without it.
func (g *Gateway) respond(
	ctx context.Context,
	userID uuid.UUID,
	req types.ExecutionRequest,
	languageID int,
	result *types.ExecutionResult,
	cached bool,
) *types.ExecutionResponse {
	resp := &types.ExecutionResponse{ExecutionResult: *result}

	auditContext := audit.Context{UserID: ptr(userID.String())}
	if req.ContentID != nil {
		auditContext.ContentID = ptr(req.ContentID.String())
	}
	audit.LogExecutionResult(auditContext, languageID, result.Status.ID, cached)

	if req.ContentID == nil || g.progress == nil {
		return resp
	}

	ctx, span := tracer.Start(ctx, "Gateway.recordProgress", trace.WithAttributes(
		attribute.String("content.id", req.ContentID.String()),
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	accepted := result.Status.ID == types.StatusAccepted
	summary, err := g.progress.Record(ctx, userID, *req.ContentID, accepted)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to record progress")
		logger.Logger.Warn("progress update failed",
			"error", err,
			"content_id", req.ContentID.String(),
			"user_id", userID.String())
		return resp
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "recorded progress")
	resp.Progress = summary
	return resp
}
