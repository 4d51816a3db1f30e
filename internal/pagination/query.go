package pagination

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPage is used when the page parameter is missing or not a number.
const DefaultPage = 1

// ParsePage reads the page query parameter. Like a base-10 parseInt, it
// takes the optionally signed leading digits and ignores the rest, so
// "2abc" and "3.0" read as 2 and 3. Values with no leading digits fall
// back to DefaultPage; out-of-range integers are returned as-is so New
// can report them.
func ParsePage(q url.Values) int {
	n, ok := leadingInt(strings.TrimSpace(q.Get(PageParam)))
	if !ok {
		return DefaultPage
	}
	return n
}

func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	var numErr *strconv.NumError
	if err != nil && !(errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange)) {
		return 0, false
	}
	// Atoi saturates on overflow, which New then redirects from.
	return n, true
}
