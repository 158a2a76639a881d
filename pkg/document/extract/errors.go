package extract

import (
	"net/http"
	"strings"

	"github.com/iQuantC/docsight/pkg/errx"
)

var (
	errorRegistry = errx.NewRegistry("TEXTRACT")

	ErrAPIRequest = errorRegistry.Register(
		"API_REQUEST_FAILED",
		errx.TypeExternal,
		http.StatusBadGateway,
		"Failed to make request to Textract API",
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
		"Textract API rate limit exceeded",
	)

	ErrUnsupportedDocument = errorRegistry.Register(
		"UNSUPPORTED_DOCUMENT",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Document format not supported by Textract",
	)

	ErrMalformedResponse = errorRegistry.Register(
		"MALFORMED_RESPONSE",
		errx.TypeExternal,
		http.StatusBadGateway,
		"Malformed upstream response from Textract",
	)
)

// ParseTextractError maps an AWS Textract error to an errx.Error,
// preserving the original message as the cause.
func ParseTextractError(err error) *errx.Error {
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
	case strings.Contains(errLower, "accessdenied") ||
		strings.Contains(errLower, "access denied") ||
		strings.Contains(errLower, "unauthorized") ||
		strings.Contains(errLower, "credentials"):
		baseErr = ErrAPIUnauthorized
	case strings.Contains(errLower, "throttl") ||
		strings.Contains(errLower, "provisionedthroughput"):
		baseErr = ErrAPIRateLimit
	case strings.Contains(errLower, "unsupporteddocument") ||
		strings.Contains(errLower, "invalidimageformat") ||
		strings.Contains(errLower, "documenttoolarge") ||
		strings.Contains(errLower, "baddocument"):
		baseErr = ErrUnsupportedDocument
	default:
		baseErr = ErrAPIRequest
	}

	// The upstream wording travels in the details so it reaches the
	// response body, not just the log line.
	return errorRegistry.NewWithCause(baseErr, err).
		WithDetail("cause", err.Error())
}
