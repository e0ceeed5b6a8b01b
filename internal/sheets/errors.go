package sheets

import (
	"fmt"
	"net/http"

	"github.com/Veraticus/timetable/internal/common"
)

// FetchError reports a failed request to an upstream feed. Status is zero
// when no HTTP response was received.
type FetchError struct {
	Err    error
	Source string
	Status int
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Source, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches common.ErrFetchFailed, and common.ErrRateLimit for a 429.
func (e *FetchError) Is(target error) bool {
	switch target {
	case common.ErrFetchFailed:
		return true
	case common.ErrRateLimit:
		return e.Status == http.StatusTooManyRequests
	}
	return false
}

// Temporary reports whether the request is worth retrying: transport
// failures, rate limiting and server errors.
func (e *FetchError) Temporary() bool {
	return e.Status == 0 || e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}
