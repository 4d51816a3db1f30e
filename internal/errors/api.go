package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// APIError is a non-2xx response from the claims API.
type APIError struct {
	StatusCode int
	// Message is the "message" field of the response body, if any.
	Message string
	Path    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s: status %d: %s", e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api %s: status %d", e.Path, e.StatusCode)
}

// User-facing messages shown on the error page.
const (
	MsgUnauthorized    = "You are not authorised to view this information. Please sign in again."
	MsgForbidden       = "You do not have permission to access this information."
	MsgNotFound        = "The requested information could not be found."
	MsgServerError     = "The service is temporarily unavailable. Please try again later."
	MsgConnRefused     = "Unable to connect to the service. Please try again later."
	MsgHostNotFound    = "Service not found. Please check your connection and try again."
	MsgTimeout         = "Request timed out. Please try again."
	MsgConnReset       = "Connection was reset. Please try again."
	MsgNetwork         = "Network error. Please check your connection and try again."
	MsgUnexpected      = "An unexpected error occurred. Please try again."
	MsgInvalidResponse = "The service returned data that could not be read. Please try again later."
)

// UserMessage turns err into a sentence that is safe to show to users.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return statusMessage(apiErr)
	}

	if msg, ok := networkMessage(err); ok {
		return msg
	}

	switch GetCode(err) {
	case ErrCodeNotFound:
		return MsgNotFound
	case ErrCodeUnauthorized:
		return MsgUnauthorized
	case ErrCodeForbidden:
		return MsgForbidden
	case ErrCodeValidation:
		return MsgInvalidResponse
	case ErrCodeTimeout:
		return MsgTimeout
	case ErrCodeUnavailable:
		return MsgServerError
	}
	return MsgUnexpected
}

func statusMessage(e *APIError) string {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return MsgUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return MsgForbidden
	case e.StatusCode == http.StatusNotFound:
		return MsgNotFound
	case e.StatusCode >= http.StatusInternalServerError:
		return MsgServerError
	case e.Message != "":
		return e.Message
	}
	return MsgUnexpected
}

func networkMessage(err error) (string, bool) {
	var dnsErr *net.DNSError
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return MsgConnRefused, true
	case errors.As(err, &dnsErr) && dnsErr.IsNotFound:
		return MsgHostNotFound, true
	case errors.Is(err, context.DeadlineExceeded):
		return MsgTimeout, true
	case errors.Is(err, syscall.ECONNRESET):
		return MsgConnReset, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return MsgTimeout, true
		}
		return MsgNetwork, true
	}
	return "", false
}

// HTTPStatus picks the status code for the error page rendered for err.
func HTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusNotFound, http.StatusForbidden:
			return apiErr.StatusCode
		case http.StatusUnauthorized:
			return http.StatusUnauthorized
		}
		return http.StatusBadGateway
	}

	if _, ok := networkMessage(err); ok {
		return http.StatusBadGateway
	}

	switch GetCode(err) {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeValidation, ErrCodeUpstream, ErrCodeUnavailable:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
