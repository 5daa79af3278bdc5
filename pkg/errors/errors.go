// Package errors defines the small closed error taxonomy shared by every
// component that crosses a process or network boundary: the activity
// provider, the analyzer, the chat webhook/uploader, and the state store.
// Components never panic across a package boundary; they return a *Error
// whose Kind a caller can branch on with errors.As.
package errors

import "fmt"

// Kind is one of the eight error classes a boundary call can fail with.
type Kind string

const (
	// KindConnection covers network/DNS failure or a non-2xx response on a
	// non-query HTTP call (e.g. the bucket listing request).
	KindConnection Kind = "connection_error"
	// KindQuery covers a non-2xx or malformed response from a server-side
	// activity-watch query.
	KindQuery Kind = "query_error"
	// KindParse covers an upstream payload whose shape does not match the
	// expected contract.
	KindParse Kind = "parse_error"
	// KindConfig covers missing or empty required configuration.
	KindConfig Kind = "config_error"
	// KindAPI covers an upstream API responding ok:false.
	KindAPI Kind = "api_error"
	// KindHTTP covers a transport-level non-2xx from a chat endpoint.
	KindHTTP Kind = "http_error"
	// KindNotifier covers a failed local OS notification subcommand.
	KindNotifier Kind = "notifier_error"
	// KindState covers a failed state file write.
	KindState Kind = "state_error"
)

// Error is the concrete error type every boundary call returns.
type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status code, when the failure originated from an
	// HTTP response. Zero when not applicable.
	Status int
	Cause  error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Message, e.Status)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, errors.New(errors.KindConnection, "")) style
// checks work by comparing Kind; a target that is not a *Error never
// matches.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func WithStatus(kind Kind, message string, status int) *Error {
	return &Error{Kind: kind, Message: message, Status: status}
}

// Connection, Query, Parse, Config, API, HTTP, Notifier, and State are
// short constructors for the corresponding Kind, mirroring the common
// error-constructor pattern of the rest of the stack.
func Connection(message string, cause error) *Error {
	return Wrap(KindConnection, message, cause)
}

func Query(message string, status int) *Error {
	return WithStatus(KindQuery, message, status)
}

func Parse(message string, cause error) *Error {
	return Wrap(KindParse, message, cause)
}

func Config(message string) *Error {
	return New(KindConfig, message)
}

func API(message string) *Error {
	return New(KindAPI, message)
}

func HTTP(message string, status int) *Error {
	return WithStatus(KindHTTP, message, status)
}

func Notifier(message string, cause error) *Error {
	return Wrap(KindNotifier, message, cause)
}

func State(message string, cause error) *Error {
	return Wrap(KindState, message, cause)
}

// Of returns the Kind of err if it is (or wraps) an *Error, and ok=false
// otherwise.
func Of(err error) (Kind, bool) {
	var e *Error
	if as(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// as is a tiny local shim so this package does not need to import the
// stdlib errors package under the same name as itself.
func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
