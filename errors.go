package bollywood

import "fmt"

// ErrorKind is the taxonomy from spec.md §7. It names failure categories,
// not Go types, so handlers can test an error with IsKind or switch on the
// Kind field of a *Error.
type ErrorKind uint8

const (
	// KindRequestTimeout: a sync-timeout fired before a matching response
	// arrived.
	KindRequestTimeout ErrorKind = iota
	// KindRequestReceiverDown: the target actor terminated while a
	// request was outstanding.
	KindRequestReceiverDown
	// KindUnexpectedResponse: a response arrived whose handler returned
	// the None sentinel.
	KindUnexpectedResponse
	// KindUnexpectedMessage: a synchronous receive (or an ordinary
	// dispatch that fell through every pattern) matched no handler.
	KindUnexpectedMessage
	// KindInvalidSysKey: an unknown system administrative key.
	KindInvalidSysKey
	// KindStateNotSerializable: migrate attempted on state that cannot be
	// captured. Kept for spec.md §7 taxonomy completeness only — no
	// {sys, migrate, ...} handler is wired (spec.md §9 "do not guess"), so
	// that verb falls through dispatchSys to KindInvalidSysKey and this
	// kind is currently unreachable.
	KindStateNotSerializable
	// KindUnhandledException: a handler raised and no custom handler
	// accepted it.
	KindUnhandledException
)

func (k ErrorKind) String() string {
	switch k {
	case KindRequestTimeout:
		return "request_timeout"
	case KindRequestReceiverDown:
		return "request_receiver_down"
	case KindUnexpectedResponse:
		return "unexpected_response"
	case KindUnexpectedMessage:
		return "unexpected_message"
	case KindInvalidSysKey:
		return "invalid_sys_key"
	case KindStateNotSerializable:
		return "state_not_serializable"
	case KindUnhandledException:
		return "unhandled_exception"
	default:
		return "unknown_error"
	}
}

// Error is the error value a failure response carries. It is a plain Go
// error (errors.As recovers the *Error) whose Kind field response handlers
// can switch on.
type Error struct {
	Kind    ErrorKind
	Message string
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsKind reports whether err is a *Error of the given kind. Error has no Is
// method, so errors.Is cannot match a bare ErrorKind; this helper does the
// check instead.
func IsKind(err error, kind ErrorKind) bool {
	be, ok := err.(*Error)
	return ok && be.Kind == kind
}
