package hash

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/Bab4nI/Jaba/internal/hash")

// Will consume reader to the end
func Reader(ctx context.Context, f io.Reader) (string, error) {
	_, span := tracer.Start(ctx, "Reader")
	defer span.End()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to copy file into hasher")
		return "", err
	}

	sum := hex.EncodeToString(h.Sum(nil))

	span.AddEvent("digested", trace.WithAttributes(attribute.String("sum", sum)))

	return sum, nil
}

func Buffer(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// Fields digests a sequence of fields with each field length-prefixed, so
// adjacent fields cannot collide the way plain concatenation does
// ("ab"+"1" vs "a"+"b1").
func Fields(fields ...string) string {
	h := sha256.New()
	var prefix [8]byte
	for _, f := range fields {
		binary.BigEndian.PutUint64(prefix[:], uint64(len(f)))
		h.Write(prefix[:])
		io.WriteString(h, f)
	}
	return hex.EncodeToString(h.Sum(nil))
}
