package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
// A zero Status is filled in as 400 by NewError.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Malformed JSON body."},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process form data."},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 3xxx: Session Errors
	ErrMissingCredentials: {Code: ErrMissingCredentials, Message: "username and password are required"},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Invalid credentials", Status: http.StatusUnauthorized},
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Unauthorized", Status: http.StatusUnauthorized},
	ErrNoTokenReceived:    {Code: ErrNoTokenReceived, Message: "No token received", Status: http.StatusBadGateway},

	// 4xxx: Backend Relay Errors
	ErrUpstream:           {Code: ErrUpstream, Message: "Backend request failed.", Status: http.StatusBadGateway},
	ErrBackendUnreachable: {Code: ErrBackendUnreachable, Message: "Backend request failed: %s", Status: http.StatusInternalServerError},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
