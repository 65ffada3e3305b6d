package errcode

import "errors"

// Code is a stable error identifier shared by the firmware services.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK              Code = "ok"
	InvalidParams   Code = "invalid_params"
	InvalidSize     Code = "invalid_size"
	LostMark        Code = "lost_mark"
	NotFound        Code = "not_found"
	InvalidResponse Code = "invalid_response"
	Uninitialized   Code = "uninitialized"
	Unsupported     Code = "unsupported"
	Timeout         Code = "timeout"

	// I2C gatekeeper.
	QueueFull Code = "queue_full"
	BusFault  Code = "bus_fault"

	// HTTP and parsing.
	BadStatus         Code = "bad_status"
	EmptyBody         Code = "empty_body"
	MalformedJSON     Code = "malformed_json"
	MalformedMetadata Code = "malformed_metadata"
	NoConn            Code = "no_conn"

	// Refresh pipeline.
	Aborted Code = "aborted"

	Fail  Code = "fail"
	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Wrap returns an *E for op carrying code c and cause err.
func Wrap(c Code, op string, err error) error {
	return &E{C: c, Op: op, Err: err}
}

// New returns an *E for op carrying code c and a message.
func New(c Code, op, msg string) error {
	return &E{C: c, Op: op, Msg: msg}
}

// Of extracts a Code from an error, defaulting to Error.
// Codes wrapped with %w or inside an *E are found.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return Error
}

// Is reports whether err carries code c.
func Is(err error, c Code) bool { return Of(err) == c }
