package lookup

import (
	"errors"
	"fmt"
)

// Kind classifies why a lookup produced no record
type Kind int

const (
	KindUnknown Kind = iota
	InvalidInput
	RemoteError
	DecodeError
	TransportError
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case RemoteError:
		return "remote_error"
	case DecodeError:
		return "decode_error"
	case TransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Error is the failure outcome of one lookup
type Error struct {
	Kind    Kind
	Input   string // Raw input the lookup was attempted for
	Status  int    // HTTP status for RemoteError
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind carried by err, or KindUnknown
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindUnknown
}

func invalidInput(raw string) *Error {
	return &Error{Kind: InvalidInput, Input: raw, Message: "not enough digits for a phone number"}
}

func remoteError(raw string, status int) *Error {
	return &Error{Kind: RemoteError, Input: raw, Status: status, Message: fmt.Sprintf("API error: %d", status)}
}

func transportError(raw, msg string, err error) *Error {
	return &Error{Kind: TransportError, Input: raw, Message: msg, Err: err}
}

func decodeError(raw string, err error) *Error {
	return &Error{Kind: DecodeError, Input: raw, Message: "decode response", Err: err}
}

// errNullBody marks a response that decoded to JSON null
var errNullBody = errors.New("empty record")
