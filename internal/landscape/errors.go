package landscape

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// APIError is a non-2xx response from the Landscape API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("landscape api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("landscape api: %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("landscape api: status %d", e.StatusCode)
	}
}

// Error kinds reported to MCP clients.
const (
	KindAPI        = "APIError"
	KindConnection = "ConnectionError"
	KindTimeout    = "Timeout"
	KindInternal   = "InternalError"
)

// ErrorKind classifies err for display.
func ErrorKind(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return KindAPI
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindConnection
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnection
	}
	return KindInternal
}
