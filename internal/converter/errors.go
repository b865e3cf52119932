package converter

import (
	"errors"
	"fmt"

	"github.com/nconklindev/unifile/internal/types"
)

// ErrUnsupportedFormat indicates a format tag outside the recognized set.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrUnreadableDocument indicates input bytes that do not parse as the declared format.
var ErrUnreadableDocument = errors.New("unreadable document")

// ErrIOFailure indicates the destination sink could not be written.
// Whatever was written before the failure is not a valid document.
var ErrIOFailure = errors.New("io failure")

// ErrInputTooLarge indicates input beyond Options.MaxInputSize.
var ErrInputTooLarge = errors.New("input too large")

// ConversionError carries the failing operation, the format involved,
// the error kind (one of the sentinels above) and the underlying cause.
type ConversionError struct {
	Op     string // "import", "export"
	Format types.Format
	Kind   error
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Format, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Format, e.Kind, e.Err)
}

func (e *ConversionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newConversionError(op string, format types.Format, kind, err error) *ConversionError {
	return &ConversionError{
		Op:     op,
		Format: format,
		Kind:   kind,
		Err:    err,
	}
}

func unsupported(op, tag string) error {
	return newConversionError(op, types.FormatUnknown, ErrUnsupportedFormat, fmt.Errorf("%q", tag))
}
