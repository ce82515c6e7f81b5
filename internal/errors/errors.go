package errors

import "errors"

// This package defines the sentinel errors shared by every layer of the relay.
// Services wrap them with fmt.Errorf("%w: ...") and the API layer maps them to
// HTTP status codes with errors.Is(), so no service ever needs to know about HTTP.

var (
	// ErrValidation signifies that a request failed schema or business rule
	// validation. Mapped to 400 Bad Request; the message is echoed to the caller.
	ErrValidation = errors.New("validation failed")

	// ErrModelUnavailable signifies that the language model or the embedding
	// endpoint could not be reached or answered with an error.
	// Mapped to 503 Service Unavailable. Never retried by the server.
	ErrModelUnavailable = errors.New("model service unavailable")

	// ErrUnsupported signifies that an uploaded document has a format the
	// extractor cannot read. Mapped to 415 Unsupported Media Type.
	ErrUnsupported = errors.New("unsupported document type")

	// ErrTooLarge signifies that an upload exceeded the configured size limit.
	// Mapped to 413 Request Entity Too Large.
	ErrTooLarge = errors.New("payload too large")

	// ErrRateLimited signifies that the caller exceeded the request rate.
	// Mapped to 429 Too Many Requests.
	ErrRateLimited = errors.New("rate limit exceeded")
)
