package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

type httpError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("%s http %d: %s", e.Provider, e.StatusCode, e.Body)
}

// tagError wraps a failure with the provider name and the operation it came
// from, so stored task errors identify the failing backend.
func tagError(provider, operation string, err error) error {
	return fmt.Errorf("%s %s failed: %w", provider, operation, err)
}

// isSchemaUnsupported classifies errors where the backend rejected the
// schema-constrained response mode itself, as opposed to any other failure.
// Only this classification permits the loose JSON fallback request.
func isSchemaUnsupported(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "json schema") ||
		strings.Contains(msg, "response_format") ||
		strings.Contains(msg, "response format")
}

// isTimeout classifies errors eligible for preview retry. Anything else
// propagates immediately.
func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var hErr *httpError
	if errors.As(err, &hErr) {
		if hErr.StatusCode == 408 || hErr.StatusCode == 504 {
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout") ||
		strings.Contains(strings.ToLower(err.Error()), "timed out")
}
