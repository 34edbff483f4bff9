package api

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
)

type requestError struct {
	msg  string
	base error
}

func (e requestError) Error() string {
	return e.msg
}

func (e requestError) Unwrap() error {
	return e.base
}

func newInvalidRequest(msg string) error {
	return requestError{msg: msg, base: ErrInvalidRequest}
}

func newNotFound(msg string) error {
	return requestError{msg: msg, base: ErrNotFound}
}
