package qa

import (
	"net/http"
	"strings"

	"github.com/iQuantC/docsight/pkg/errx"
)

var (
	errorRegistry = errx.NewRegistry("BEDROCK")

	ErrAPIRequest = errorRegistry.Register(
		"API_REQUEST_FAILED",
		errx.TypeExternal,
		http.StatusBadGateway,
		"Failed to make request to Bedrock API",
	)

	ErrAPIResponse = errorRegistry.Register(
		"API_RESPONSE_INVALID",
		errx.TypeExternal,
		http.StatusBadGateway,
		"Invalid response from Bedrock API",
	)

	ErrAPIUnauthorized = errorRegistry.Register(
		"API_UNAUTHORIZED",
		errx.TypeAuthorization,
		http.StatusUnauthorized,
		"Invalid or missing AWS credentials",
	)

	ErrAPIRateLimit = errorRegistry.Register(
		"API_RATE_LIMIT",
		errx.TypeExternal,
		http.StatusTooManyRequests,
		"Bedrock API rate limit exceeded",
	)

	ErrModelNotFound = errorRegistry.Register(
		"MODEL_NOT_FOUND",
		errx.TypeValidation,
		http.StatusNotFound,
		"Requested model not found or not accessible",
	)

	// ErrEmptyCompletion marks the soft-failure case: the model call
	// succeeded but produced nothing usable.
	ErrEmptyCompletion = errorRegistry.Register(
		"EMPTY_COMPLETION",
		errx.TypeBusiness,
		http.StatusUnprocessableEntity,
		"Model produced no usable answer",
	)
)

// IsNoAnswer reports whether err is the empty-completion soft failure,
// as opposed to a hard service error.
func IsNoAnswer(err error) bool {
	var xerr *errx.Error
	return errx.As(err, &xerr) && xerr.Code == ErrEmptyCompletion.Code
}

// ParseBedrockError maps an AWS Bedrock error to an errx.Error,
// preserving the original message as the cause.
func ParseBedrockError(err error) *errx.Error {
	if err == nil {
		return nil
	}

	var customErr *errx.Error
	if errx.As(err, &customErr) {
		return customErr
	}

	errLower := strings.ToLower(err.Error())

	var baseErr *errx.ErrorCode
	switch {
	case strings.Contains(errLower, "unauthorized") ||
		strings.Contains(errLower, "accessdenied") ||
		strings.Contains(errLower, "access denied") ||
		strings.Contains(errLower, "credentials"):
		baseErr = ErrAPIUnauthorized
	case strings.Contains(errLower, "throttl") || strings.Contains(errLower, "rate"):
		baseErr = ErrAPIRateLimit
	case strings.Contains(errLower, "not found") || strings.Contains(errLower, "model"):
		baseErr = ErrModelNotFound
	default:
		baseErr = ErrAPIRequest
	}

	// The upstream wording travels in the details so it reaches the
	// response body, not just the log line.
	return errorRegistry.NewWithCause(baseErr, err).
		WithDetail("cause", err.Error())
}
