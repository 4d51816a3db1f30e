package pagination

import (
	"errors"
	"fmt"
)

// InvalidPageError reports a requested page outside [1, total pages].
// PageToRedirectTo is the nearest page that exists.
type InvalidPageError struct {
	InvalidPage      int
	PageToRedirectTo int
}

func (e *InvalidPageError) Error() string {
	return fmt.Sprintf("Invalid page number: %d", e.InvalidPage)
}

// AsInvalidPage unwraps err into an *InvalidPageError if it carries one.
func AsInvalidPage(err error) (*InvalidPageError, bool) {
	var ipe *InvalidPageError
	if errors.As(err, &ipe) {
		return ipe, true
	}
	return nil, false
}
