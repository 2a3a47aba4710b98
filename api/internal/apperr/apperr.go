// Package apperr is the single translation point from raw provider and
// storage failures to the structured error body every endpoint returns.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind tags an error with its place in the taxonomy. Provider adapters
// return tagged errors so classification does not depend on message text;
// Classify still falls back to text matching for untyped errors.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindRateLimit
	KindNotFound
	KindContentPolicy
	KindTimeout
	KindNetwork
	KindUnavailable
	KindStoragePermission
	KindStorageFull
	KindStorage
	KindEmptyResult
	KindService
)

type E struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *E) Error() string {
	if e.Err != nil {
		if e.Msg != "" {
			return e.Msg + ": " + e.Err.Error()
		}
		return e.Err.Error()
	}
	return e.Msg
}

func (e *E) Unwrap() error { return e.Err }

// New returns a tagged error with a fixed message.
func New(kind Kind, msg string) *E { return &E{Kind: kind, Msg: msg} }

// Wrap tags an underlying error.
func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Msg: msg, Err: err} }

// Response is the JSON error body. StatusCode is always consistent with
// the Error category.
type Response struct {
	Error      string         `json:"error"`
	Message    string         `json:"message"`
	StatusCode int            `json:"status_code"`
	Details    map[string]any `json:"details,omitempty"`
	Field      string         `json:"field,omitempty"`
}

func newResponse(status int, category, message string, details map[string]any) *Response {
	return &Response{
		Error:      category,
		Message:    message,
		StatusCode: status,
		Details:    details,
	}
}

func (k Kind) status() int {
	switch k {
	case KindValidation, KindContentPolicy:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden, KindStoragePermission:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindNetwork, KindUnavailable:
		return http.StatusServiceUnavailable
	case KindStorageFull:
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) category() string {
	switch k {
	case KindValidation:
		return "Validation Error"
	case KindAuth:
		return "Authentication Error"
	case KindForbidden:
		return "Authorization Error"
	case KindRateLimit:
		return "Rate Limit Error"
	case KindNotFound:
		return "Resource Not Found"
	case KindContentPolicy:
		return "Content Policy Violation"
	case KindTimeout:
		return "Request Timeout"
	case KindNetwork:
		return "Network Error"
	case KindUnavailable:
		return "Service Unavailable"
	case KindStoragePermission:
		return "Storage Permission Error"
	case KindStorageFull:
		return "Storage Full"
	case KindStorage:
		return "Storage Error"
	case KindEmptyResult:
		return "Generation Failed"
	case KindService:
		return "AI Service Error"
	default:
		return "Service Error"
	}
}

func (k Kind) message(service, operation string) string {
	switch k {
	case KindAuth:
		return fmt.Sprintf("Authentication failed with %s. Please check service configuration.", service)
	case KindForbidden:
		return fmt.Sprintf("Insufficient permissions for %s with %s.", operation, service)
	case KindRateLimit:
		return fmt.Sprintf("%s rate limit exceeded during %s. Please wait a moment before trying again.", service, operation)
	case KindNotFound:
		return fmt.Sprintf("The requested resource for %s was not found on %s.", operation, service)
	case KindContentPolicy:
		return fmt.Sprintf("Your request was rejected by %s due to content policy restrictions. Please modify your prompt and try again.", service)
	case KindTimeout:
		return fmt.Sprintf("The %s request to %s took too long to process. Please try again with a simpler prompt.", operation, service)
	case KindNetwork:
		return fmt.Sprintf("Network connection to %s failed during %s. Please try again.", service, operation)
	case KindUnavailable:
		return fmt.Sprintf("%s is temporarily unavailable. Please try again in a few minutes.", service)
	case KindStoragePermission:
		return "Unable to save the generated content due to storage permissions."
	case KindStorageFull:
		return "Storage quota exceeded. Please contact support."
	case KindStorage:
		return "Unable to save the generated content. The content was generated successfully but couldn't be stored."
	case KindEmptyResult:
		return fmt.Sprintf("%s returned no results for %s. Please try again with a different prompt.", service, operation)
	case KindService:
		return fmt.Sprintf("An error occurred with %s during %s. Please try again later.", service, operation)
	default:
		return fmt.Sprintf("An error occurred calling %s during %s. Please try again later.", service, operation)
	}
}
