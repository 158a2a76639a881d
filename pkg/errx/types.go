package errx

// Type categorizes an error for HTTP mapping and logging.
type Type string

const (
	// TypeInternal represents unexpected internal failures
	TypeInternal Type = "INTERNAL"

	// TypeValidation represents invalid caller input
	TypeValidation Type = "VALIDATION"

	// TypeAuthorization represents authorization/authentication errors
	TypeAuthorization Type = "AUTHORIZATION"

	// TypeNotFound represents a missing resource
	TypeNotFound Type = "NOT_FOUND"

	// TypeExternal represents failures of upstream services
	TypeExternal Type = "EXTERNAL"

	// TypeBusiness represents domain-rule failures
	TypeBusiness Type = "BUSINESS"
)

// String returns the string representation of the error type
func (t Type) String() string {
	return string(t)
}

// typeToHTTPStatus maps error types to HTTP status codes
func typeToHTTPStatus(t Type) int {
	switch t {
	case TypeValidation:
		return 400
	case TypeAuthorization:
		return 401
	case TypeNotFound:
		return 404
	case TypeBusiness:
		return 422
	case TypeExternal:
		return 502
	default:
		return 500
	}
}
