package validator

// MaxSourceBytes is the ceiling on submitted source code. Anything larger is
// rejected before the judge service is ever contacted.
const MaxSourceBytes = 100_000

// ensures submitted source code is within the allowable size
func ValidateSourceSize(dataLen int) bool {
	return dataLen <= MaxSourceBytes
}

// ensures submitted stdin is within the allowable size
func ValidateStdinSize(dataLen int) bool {
	return dataLen <= 1<<16
}
