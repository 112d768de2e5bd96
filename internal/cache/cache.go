package cache

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/Bab4nI/Jaba/internal/types"
)

var tracer = otel.Tracer("github.com/Bab4nI/Jaba/internal/cache")

//go:generate mockgen -destination ./mock/mock.go -package mock . ResultCache

// ResultCache memoizes normalized execution results by submission
// fingerprint. It is a pure memoization layer: identical fingerprints always
// carry identical results, so last-writer-wins overwrites are safe and no
// locking is needed.
type ResultCache interface {
	// Get returns the cached result for key, with ok=false on a miss.
	Get(ctx context.Context, key string) (*types.ExecutionResult, bool, error)
	// Set stores result under key for ttl.
	Set(ctx context.Context, key string, result *types.ExecutionResult, ttl time.Duration) error
}
