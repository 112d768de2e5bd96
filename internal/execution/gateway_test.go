package execution_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mockcache "github.com/Bab4nI/Jaba/internal/cache/mock"
	"github.com/Bab4nI/Jaba/internal/config"
	"github.com/Bab4nI/Jaba/internal/execution"
	mockprogress "github.com/Bab4nI/Jaba/internal/execution/mock"
	"github.com/Bab4nI/Jaba/internal/hash"
	"github.com/Bab4nI/Jaba/internal/judge"
	mockjudge "github.com/Bab4nI/Jaba/internal/judge/mock"
	"github.com/Bab4nI/Jaba/internal/types"
)

func testJudgeConfig() *config.JudgeConfig {
	return &config.JudgeConfig{
		URL:            "http://judge.invalid",
		PollAttempts:   10,
		PollDelay:      time.Millisecond,
		ResultCacheTTL: time.Hour,
		CPUTimeLimit:   5,
		MemoryLimitKB:  128000,
		MaxProcesses:   60,
	}
}

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func acceptedRaw() *judge.RawResult {
	return &judge.RawResult{
		Stdout: strptr("4\n"),
		Status: types.JudgeStatus{ID: types.StatusAccepted, Description: "Accepted"},
		Time:   strptr("0.012"),
		Memory: intptr(3344),
	}
}

func inQueueRaw() *judge.RawResult {
	return &judge.RawResult{
		Status: types.JudgeStatus{ID: types.StatusInQueue, Description: "In Queue"},
	}
}

func TestExecuteCacheHitSkipsJudge(t *testing.T) {
	ctrl := gomock.NewController(t)

	judgeClient := mockjudge.NewMockClient(ctrl)
	resultCache := mockcache.NewMockResultCache(ctrl)

	cached := &types.ExecutionResult{
		Stdout: "4\n",
		Status: types.JudgeStatus{ID: types.StatusAccepted, Description: "Accepted"},
	}
	key := hash.Fields("print(2+2)", strconv.Itoa(71), "")
	resultCache.EXPECT().Get(gomock.Any(), key).Return(cached, true, nil)

	g := execution.NewGateway(judgeClient, resultCache, nil, config.DefaultLanguages(), testJudgeConfig())

	resp, err := g.Execute(t.Context(), uuid.New(), types.ExecutionRequest{
		SourceCode: "print(2+2)",
		LanguageID: "python",
	})
	require.NoError(t, err)
	assert.Equal(t, *cached, resp.ExecutionResult)
	assert.Nil(t, resp.Progress)
}

func TestExecuteCacheHitStillRecordsProgress(t *testing.T) {
	ctrl := gomock.NewController(t)

	judgeClient := mockjudge.NewMockClient(ctrl)
	resultCache := mockcache.NewMockResultCache(ctrl)
	progress := mockprogress.NewMockProgressRecorder(ctrl)

	cached := &types.ExecutionResult{
		Status: types.JudgeStatus{ID: types.StatusAccepted, Description: "Accepted"},
	}
	resultCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cached, true, nil)

	userID := uuid.New()
	contentID := uuid.New()
	summary := &types.ProgressSummary{Score: 10, MaxScore: 10, Completed: true}
	progress.EXPECT().
		Record(gomock.Any(), userID, contentID, true).
		Return(summary, nil)

	g := execution.NewGateway(judgeClient, resultCache, progress, config.DefaultLanguages(), testJudgeConfig())

	resp, err := g.Execute(t.Context(), userID, types.ExecutionRequest{
		SourceCode: "print(2+2)",
		LanguageID: "python",
		ContentID:  &contentID,
	})
	require.NoError(t, err)
	assert.Equal(t, summary, resp.Progress)
}

func TestExecuteValidationBeforeAnyNetworkCall(t *testing.T) {
	tests := []struct {
		name string
		req  types.ExecutionRequest
	}{
		{
			name: "empty source",
			req:  types.ExecutionRequest{SourceCode: "", LanguageID: "python"},
		},
		{
			name: "oversized source",
			req: types.ExecutionRequest{
				SourceCode: strings.Repeat("a", 100_001),
				LanguageID: "python",
			},
		},
		{
			name: "oversized stdin",
			req: types.ExecutionRequest{
				SourceCode: "print(2+2)",
				LanguageID: "python",
				Stdin:      strings.Repeat("a", 1<<16+1),
			},
		},
		{
			name: "unknown language",
			req:  types.ExecutionRequest{SourceCode: "print(2+2)", LanguageID: "cobol"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			// no expectations set: any judge or cache call fails the test
			judgeClient := mockjudge.NewMockClient(ctrl)
			resultCache := mockcache.NewMockResultCache(ctrl)

			g := execution.NewGateway(judgeClient, resultCache, nil, config.DefaultLanguages(), testJudgeConfig())

			_, err := g.Execute(t.Context(), uuid.New(), tt.req)

			var verr execution.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestExecuteSubmitProtocolViolation(t *testing.T) {
	ctrl := gomock.NewController(t)

	judgeClient := mockjudge.NewMockClient(ctrl)
	resultCache := mockcache.NewMockResultCache(ctrl)

	resultCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil)
	judgeClient.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		Return("", judge.ErrMissingToken)

	g := execution.NewGateway(judgeClient, resultCache, nil, config.DefaultLanguages(), testJudgeConfig())

	_, err := g.Execute(t.Context(), uuid.New(), types.ExecutionRequest{
		SourceCode: "print(2+2)",
		LanguageID: "python",
	})

	var serr execution.ExternalServiceError
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, judge.ErrMissingToken)
}

func TestExecuteSubmitNetworkFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	judgeClient := mockjudge.NewMockClient(ctrl)
	resultCache := mockcache.NewMockResultCache(ctrl)

	connErr := errors.New("dial tcp: connection refused")
	resultCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil)
	judgeClient.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("", connErr)

	g := execution.NewGateway(judgeClient, resultCache, nil, config.DefaultLanguages(), testJudgeConfig())

	_, err := g.Execute(t.Context(), uuid.New(), types.ExecutionRequest{
		SourceCode: "print(2+2)",
		LanguageID: "python",
	})

	var nerr execution.TransientNetworkError
	require.ErrorAs(t, err, &nerr)
	assert.ErrorIs(t, err, connErr)
}

func TestExecuteSubmitSendsConfiguredLimits(t *testing.T) {
	ctrl := gomock.NewController(t)

	judgeClient := mockjudge.NewMockClient(ctrl)
	resultCache := mockcache.NewMockResultCache(ctrl)

	resultCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil)
	judgeClient.EXPECT().
		Submit(gomock.Any(), judge.Submission{
			SourceCode:               "print(2+2)",
			LanguageID:               99,
			Stdin:                    "in",
			CPUTimeLimit:             5,
			MemoryLimit:              128000,
			MaxProcessesAndOrThreads: 60,
			EnableNetwork:            false,
		}).
		Return("tok-1", nil)
	judgeClient.EXPECT().Result(gomock.Any(), "tok-1").Return(acceptedRaw(), nil)
	resultCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), time.Hour).Return(nil)

	g := execution.NewGateway(judgeClient, resultCache, nil, config.DefaultLanguages(), testJudgeConfig())

	_, err := g.Execute(t.Context(), uuid.New(), types.ExecutionRequest{
		SourceCode:  "print(2+2)",
		LanguageID:  "python",
		Interpreter: "pypy",
		Stdin:       "in",
	})
	require.NoError(t, err)
}

func TestExecuteTerminalOnThirdPoll(t *testing.T) {
	ctrl := gomock.NewController(t)

	judgeClient := mockjudge.NewMockClient(ctrl)
	resultCache := mockcache.NewMockResultCache(ctrl)

	resultCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil)
	judgeClient.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("tok-2", nil)
	gomock.InOrder(
		judgeClient.EXPECT().Result(gomock.Any(), "tok-2").Return(inQueueRaw(), nil),
		judgeClient.EXPECT().Result(gomock.Any(), "tok-2").Return(&judge.RawResult{
			Status: types.JudgeStatus{ID: types.StatusProcessing, Description: "Processing"},
		}, nil),
		judgeClient.EXPECT().Result(gomock.Any(), "tok-2").Return(acceptedRaw(), nil),
	)
	resultCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	g := execution.NewGateway(judgeClient, resultCache, nil, config.DefaultLanguages(), testJudgeConfig())

	resp, err := g.Execute(t.Context(), uuid.New(), types.ExecutionRequest{
		SourceCode: "print(2+2)",
		LanguageID: "python",
	})
	require.NoError(t, err)
	assert.Equal(t, "4\n", resp.Stdout)
	assert.Equal(t, types.StatusAccepted, resp.Status.ID)
	assert.Equal(t, "0.012", resp.Time)
	assert.Equal(t, 3344, resp.Memory)
}

func TestExecutePollBudgetExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)

	judgeClient := mockjudge.NewMockClient(ctrl)
	resultCache := mockcache.NewMockResultCache(ctrl)

	resultCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil)
	judgeClient.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("tok-3", nil)
	judgeClient.EXPECT().
		Result(gomock.Any(), "tok-3").
		Return(inQueueRaw(), nil).
		Times(10)

	g := execution.NewGateway(judgeClient, resultCache, nil, config.DefaultLanguages(), testJudgeConfig())

	_, err := g.Execute(t.Context(), uuid.New(), types.ExecutionRequest{
		SourceCode: "print(2+2)",
		LanguageID: "python",
	})

	var terr execution.SubmissionTimeoutError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "tok-3", terr.Token)
	assert.Equal(t, 10, terr.Attempts)
}

func TestExecutePollErrorAbortsImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)

	judgeClient := mockjudge.NewMockClient(ctrl)
	resultCache := mockcache.NewMockResultCache(ctrl)

	resultCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil)
	judgeClient.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("tok-4", nil)
	judgeClient.EXPECT().
		Result(gomock.Any(), "tok-4").
		Return(nil, judge.StatusError{Code: 500})

	g := execution.NewGateway(judgeClient, resultCache, nil, config.DefaultLanguages(), testJudgeConfig())

	_, err := g.Execute(t.Context(), uuid.New(), types.ExecutionRequest{
		SourceCode: "print(2+2)",
		LanguageID: "python",
	})

	var serr execution.ExternalServiceError
	require.ErrorAs(t, err, &serr)
}

func TestExecuteProgressScoring(t *testing.T) {
	tests := []struct {
		name     string
		raw      *judge.RawResult
		accepted bool
	}{
		{
			name:     "accepted counts as solved",
			raw:      acceptedRaw(),
			accepted: true,
		},
		{
			name: "wrong answer scores zero",
			raw: &judge.RawResult{
				Stdout: strptr("5\n"),
				Status: types.JudgeStatus{ID: types.StatusWrongAnswer, Description: "Wrong Answer"},
			},
			accepted: false,
		},
		{
			name: "judge-side time limit is terminal, not a gateway timeout",
			raw: &judge.RawResult{
				Status: types.JudgeStatus{ID: 5, Description: "Time Limit Exceeded"},
			},
			accepted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			judgeClient := mockjudge.NewMockClient(ctrl)
			resultCache := mockcache.NewMockResultCache(ctrl)
			progress := mockprogress.NewMockProgressRecorder(ctrl)

			resultCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil)
			judgeClient.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("tok-5", nil)
			judgeClient.EXPECT().Result(gomock.Any(), "tok-5").Return(tt.raw, nil)
			resultCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

			userID := uuid.New()
			contentID := uuid.New()
			progress.EXPECT().
				Record(gomock.Any(), userID, contentID, tt.accepted).
				Return(&types.ProgressSummary{Completed: tt.accepted}, nil)

			g := execution.NewGateway(judgeClient, resultCache, progress, config.DefaultLanguages(), testJudgeConfig())

			resp, err := g.Execute(t.Context(), userID, types.ExecutionRequest{
				SourceCode: "print(2+2)",
				LanguageID: "python",
				ContentID:  &contentID,
			})
			require.NoError(t, err)
			require.NotNil(t, resp.Progress)
			assert.Equal(t, tt.accepted, resp.Progress.Completed)
		})
	}
}

func TestExecuteProgressFailureDoesNotFailExecution(t *testing.T) {
	ctrl := gomock.NewController(t)

	judgeClient := mockjudge.NewMockClient(ctrl)
	resultCache := mockcache.NewMockResultCache(ctrl)
	progress := mockprogress.NewMockProgressRecorder(ctrl)

	resultCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil)
	judgeClient.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("tok-6", nil)
	judgeClient.EXPECT().Result(gomock.Any(), "tok-6").Return(acceptedRaw(), nil)
	resultCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	progress.EXPECT().
		Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("db down"))

	g := execution.NewGateway(judgeClient, resultCache, progress, config.DefaultLanguages(), testJudgeConfig())

	contentID := uuid.New()
	resp, err := g.Execute(t.Context(), uuid.New(), types.ExecutionRequest{
		SourceCode: "print(2+2)",
		LanguageID: "python",
		ContentID:  &contentID,
	})
	require.NoError(t, err)
	assert.Equal(t, "4\n", resp.Stdout)
	assert.Nil(t, resp.Progress)
}

func TestExecuteCacheFailuresAreNonFatal(t *testing.T) {
	ctrl := gomock.NewController(t)

	judgeClient := mockjudge.NewMockClient(ctrl)
	resultCache := mockcache.NewMockResultCache(ctrl)

	cacheErr := errors.New("redis unreachable")
	resultCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, cacheErr)
	judgeClient.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("tok-7", nil)
	judgeClient.EXPECT().Result(gomock.Any(), "tok-7").Return(acceptedRaw(), nil)
	resultCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(cacheErr)

	g := execution.NewGateway(judgeClient, resultCache, nil, config.DefaultLanguages(), testJudgeConfig())

	resp, err := g.Execute(t.Context(), uuid.New(), types.ExecutionRequest{
		SourceCode: "print(2+2)",
		LanguageID: "python",
	})
	require.NoError(t, err)
	assert.Equal(t, types.StatusAccepted, resp.Status.ID)
}
