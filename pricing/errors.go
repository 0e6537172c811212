package pricing

import "fmt"

// ErrorKind classifies why an analysis could not produce a full result.
type ErrorKind string

const (
	KindItemNotFound          ErrorKind = "item_not_found"
	KindGroupNotFound         ErrorKind = "group_not_found"
	KindMissingCost           ErrorKind = "missing_cost"
	KindInsufficientData      ErrorKind = "insufficient_data"
	KindInsufficientVariation ErrorKind = "insufficient_variation"
	KindInvalidModel          ErrorKind = "invalid_model"
	KindInvalidMargin         ErrorKind = "invalid_margin"
	KindInvalidPrice          ErrorKind = "invalid_price"
	KindInvalidStep           ErrorKind = "invalid_step"
	KindInvalidWindow         ErrorKind = "invalid_window"
	KindInvalidScope          ErrorKind = "invalid_scope"
	KindEmptyRange            ErrorKind = "empty_range"
	KindNoComparisonData      ErrorKind = "no_comparison_data"
	KindInternal              ErrorKind = "internal"
)

// Error is the error type of every expected analysis failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Kind so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Warning reports whether the kind describes a degraded analysis rather than bad input
// or missing data.
func (k ErrorKind) Warning() bool {
	switch k {
	case KindInsufficientVariation, KindInvalidModel, KindNoComparisonData:
		return true
	default:
		return false
	}
}

var (
	ErrItemNotFound          = &Error{Kind: KindItemNotFound}
	ErrGroupNotFound         = &Error{Kind: KindGroupNotFound}
	ErrMissingCost           = &Error{Kind: KindMissingCost}
	ErrInsufficientData      = &Error{Kind: KindInsufficientData}
	ErrInsufficientVariation = &Error{Kind: KindInsufficientVariation}
	ErrInvalidModel          = &Error{Kind: KindInvalidModel}
	ErrInvalidMargin         = &Error{Kind: KindInvalidMargin}
	ErrInvalidPrice          = &Error{Kind: KindInvalidPrice}
	ErrInvalidStep           = &Error{Kind: KindInvalidStep}
	ErrInvalidWindow         = &Error{Kind: KindInvalidWindow}
	ErrInvalidScope          = &Error{Kind: KindInvalidScope}
	ErrEmptyRange            = &Error{Kind: KindEmptyRange}
	ErrNoComparisonData      = &Error{Kind: KindNoComparisonData}
	ErrInternal              = &Error{Kind: KindInternal}
)

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(err error, kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: err}
}
