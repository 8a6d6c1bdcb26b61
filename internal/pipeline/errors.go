package pipeline

import "errors"

// ValidationError reports a request rejected before segmentation: empty
// text, text over the length bound, or an unsupported language/level. It is
// the only failure surfaced to callers besides total pipeline exhaustion.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + e.Reason
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrNoClauses is returned when segmentation yields zero clauses from
// non-empty input — total pipeline exhaustion, fatal to the call
var ErrNoClauses = errors.New("segmentation produced no clauses")
