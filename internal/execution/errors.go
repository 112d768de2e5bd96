package execution

import "fmt"

// ValidationError covers everything rejected before any network call is made:
// missing or oversized source, unknown language or interpreter variant.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ExternalServiceError indicates the judge responded outside its protocol:
// a non-2xx submit or a 2xx submit with no token.
type ExternalServiceError struct {
	Err error
}

func (e ExternalServiceError) Error() string {
	return fmt.Sprintf("judge protocol error: %s", e.Err)
}

func (e ExternalServiceError) Unwrap() error {
	return e.Err
}

// TransientNetworkError indicates a connection level failure talking to the
// judge. It is surfaced immediately, never retried.
type TransientNetworkError struct {
	Err error
}

func (e TransientNetworkError) Error() string {
	return fmt.Sprintf("judge unreachable: %s", e.Err)
}

func (e TransientNetworkError) Unwrap() error {
	return e.Err
}

// SubmissionTimeoutError indicates the poll budget ran out before the judge
// reported a terminal status. Distinct from a judge-reported Time Limit
// Exceeded, which is a terminal result and not an error at all.
type SubmissionTimeoutError struct {
	Token    string
	Attempts int
}

func (e SubmissionTimeoutError) Error() string {
	return fmt.Sprintf(
		"submission %s still running after %d poll attempts",
		e.Token, e.Attempts,
	)
}
