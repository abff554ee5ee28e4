package pokeapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any UpstreamError caused by a 404.
var ErrNotFound = errors.New("not found")

// UpstreamError reports a failed call to the catalog service: transport
// failure (StatusCode 0), non-200 status, or an undecodable body.
type UpstreamError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode == 0:
		return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Body != "":
		return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("%s failed with status %d", e.Op, e.StatusCode)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
