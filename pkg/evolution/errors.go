package evolution

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error kinds returned by the gateway. Match them with errors.Is.
var (
	ErrAuth      = errors.New("evolution api rejected the credential")
	ErrNotFound  = errors.New("evolution api resource not found")
	ErrTransient = errors.New("evolution api temporarily unavailable")
	ErrTransport = errors.New("evolution api transport failure")
	ErrTimeout   = fmt.Errorf("%w: timeout", ErrTransport)
	ErrRequest   = errors.New("evolution api rejected the request")
)

// Error describes one failed gateway call. Detail holds the remote error body
// (or the transport error text) with the credential already redacted.
type Error struct {
	Kind   error
	Method string
	Path   string
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Method != "" {
		b.WriteString(" (")
		b.WriteString(e.Method)
		b.WriteString(" ")
		b.WriteString(e.Path)
		b.WriteString(")")
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.Status)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindForStatus classifies a non-2xx HTTP status.
func KindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrAuth
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests || status >= 500:
		return ErrTransient
	default:
		return ErrRequest
	}
}

// IsRetryable reports whether a caller-level policy may safely repeat the
// operation that produced err. The gateway itself never retries.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrTransport)
}
