package cookie

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSecret  = errors.New("cookie.invalid_secret")
	ErrMissingSecret  = fmt.Errorf("%w: secret is missing", ErrInvalidSecret)
	ErrInsecureSecret = fmt.Errorf("%w: secret is insecure", ErrInvalidSecret)
	ErrClosedStream   = errors.New("cookie.closed_stream")
	ErrInvalidName    = errors.New("cookie.invalid_name")
	ErrOverflow       = errors.New("cookie.overflow")
)

// ErrCookieOverflow reports a cookie whose rendered Set-Cookie line is larger
// than the configured byte budget. It matches ErrOverflow via errors.Is.
type ErrCookieOverflow struct {
	Name string
	Size int
	Max  int
}

func (e ErrCookieOverflow) Error() string {
	return fmt.Sprintf("cookie %q size %d exceeds maximum %d bytes", e.Name, e.Size, e.Max)
}

func (e ErrCookieOverflow) Is(target error) bool {
	return target == ErrOverflow
}
