package core

// Error codes for domain errors.
const (
	ErrCodeReservedPrefix = "reserved_prefix"
	ErrCodeNameTaken      = "name_taken"
	ErrCodeBadRequest     = "bad_request"
	ErrCodeRateLimited    = "rate_limited"
)

var (
	// ErrReservedPrefix is returned when a requested name starts with GuestPrefix.
	ErrReservedPrefix = coreError(ErrCodeReservedPrefix, `Names cannot begin with "`+GuestPrefix+`".`)
	// ErrNameTaken is returned when a requested name is already assigned.
	ErrNameTaken = coreError(ErrCodeNameTaken, "That name is already in use.")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
