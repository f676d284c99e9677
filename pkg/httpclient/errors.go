package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/gregroclawski/DataShatter/pkg/errors"
)

// DownstreamError mirrors the {"detail": "..."} failure body used by the
// upstream auth proxy. Non-2xx responses from it carry a human-readable
// detail string.
type DownstreamError struct {
	Detail string `json:"detail"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an AppError that preserves the upstream's status semantics. Bodies
// matching the {"detail": ...} shape keep their message; anything else falls
// back to the raw body.
//
// The caller should only invoke this for error responses. The body is fully
// consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	var downstream DownstreamError
	if json.Unmarshal(bodyBytes, &downstream) == nil && downstream.Detail != "" {
		return mapDownstreamError(resp.StatusCode, downstream.Detail, serviceName)
	}

	return mapDownstreamError(resp.StatusCode, strings.TrimSpace(string(bodyBytes)), serviceName)
}

// mapDownstreamError translates an upstream status code and detail message
// into an AppError so callers can branch with errors.Is.
func mapDownstreamError(status int, detail, serviceName string) error {
	qualifiedMsg := fmt.Sprintf("%s: %s", serviceName, detail)

	switch {
	case status == http.StatusNotFound:
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: qualifiedMsg,
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualifiedMsg)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualifiedMsg)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(qualifiedMsg)
	case status == http.StatusConflict:
		return apperrors.AlreadyExists(qualifiedMsg)
	case status >= 500:
		return apperrors.Upstream(fmt.Sprintf("%s returned status %d: %s", serviceName, status, detail), nil)
	default:
		return &apperrors.AppError{
			Code:    "UPSTREAM_REJECTED",
			Message: qualifiedMsg,
			Status:  status,
		}
	}
}

// IsClientError reports whether the HTTP status code is a 4xx client error.
// Upstream 4xx means the request itself was bad and retrying will not help.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
