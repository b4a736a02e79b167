/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 3xxx: Session Errors
const (
	// ErrMissingCredentials indicates a login attempt with a blank username or password.
	ErrMissingCredentials = 3001

	// ErrInvalidCredentials is the fallback for a backend credential rejection with an empty body.
	ErrInvalidCredentials = 3002

	// ErrUnauthorized indicates the request carries no session cookie.
	ErrUnauthorized = 3003

	// ErrNoTokenReceived indicates the backend accepted the credentials but returned no access token.
	ErrNoTokenReceived = 3004
)

// 4xxx: Backend Relay Errors
const (
	// ErrUpstream carries a backend status and message through unchanged.
	ErrUpstream = 4001

	// ErrBackendUnreachable indicates a transport failure while calling the backend.
	ErrBackendUnreachable = 4002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
