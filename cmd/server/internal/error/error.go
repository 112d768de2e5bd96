package srverr

import "errors"

// ErrTypeAssertMismatch indicates a value stored on the request context did
// not have the expected type.
var ErrTypeAssertMismatch = errors.New("type assert mismatch")
