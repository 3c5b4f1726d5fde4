package agbin

import (
	"errors"
	"fmt"
)

// Structural errors. Any of these aborts the whole decode; there is no
// partial-result mode.
var (
	ErrBadSignature         = errors.New("not a capture file: bad signature")
	ErrInvalidDescriptor    = errors.New("invalid capture descriptor")
	ErrUnknownUnitCode      = errors.New("unknown unit code")
	ErrTruncatedChannelData = errors.New("truncated channel data")
	ErrTruncated            = errors.New("file shorter than fixed header region")
)

// FormatError reports a failed structural check together with the
// absolute byte offset it occurred at, so a truncated or corrupt
// capture can be diagnosed from the message alone.
type FormatError struct {
	Offset int64
	Err    error
	Detail string
}

func (e *FormatError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("offset %d: %s: %s", e.Offset, e.Err, e.Detail)
	}
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

func formatErr(offset int64, sentinel error, format string, args ...interface{}) error {
	return &FormatError{Offset: offset, Err: sentinel, Detail: fmt.Sprintf(format, args...)}
}
