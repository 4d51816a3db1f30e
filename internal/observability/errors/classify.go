// Package errors names error kinds for metric tags.
package errors

import (
	"context"
	goerrors "errors"
	"net"
	"reflect"
	"strconv"
	"strings"

	apperrors "github.com/ministryofjustice/claims-ui/internal/errors"
)

// Classify returns a short, low-cardinality label for err: the API
// status class, a network failure kind, the AppError code, or the
// innermost error type.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *apperrors.APIError
	if goerrors.As(err, &apiErr) {
		return "api_" + strconv.Itoa(apiErr.StatusCode/100) + "xx"
	}

	switch {
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}

	var netErr net.Error
	if goerrors.As(err, &netErr) {
		if netErr.Timeout() {
			return "timeout"
		}
		return "network"
	}

	if code := apperrors.GetCode(err); code != "" && code != apperrors.ErrCodeInternal {
		return string(code)
	}
	return typeName(err)
}

func typeName(err error) string {
	for {
		inner := goerrors.Unwrap(err)
		if inner == nil {
			break
		}
		err = inner
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	return strings.ReplaceAll(strings.ToLower(t.String()), ".", "_")
}
