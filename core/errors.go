package core

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrEventNotFound = errors.New("event not found")

// ConflictError is the structured rejection returned by add/update/move when
// the candidate interval overlaps stored events. It is a normal control-flow
// outcome, not a fault; the caller decides retry/override.
type ConflictError struct {
	Conflicts []Event
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("event conflicts with %d existing event(s)", len(e.Conflicts))
}

// ConflictResponse is the wire shape of a ConflictError.
type ConflictResponse struct {
	Message   string  `json:"message"`
	Conflicts []Event `json:"conflicts"`
}

// Error is the generic failure envelope returned to HTTP callers.
type Error struct {
	Message string   `json:"message,omitempty"`
	Err     []string `json:"err,omitempty"`
}

func NewError(message string, errs ...error) *Error {
	return &Error{
		Message: message,
		Err: func() []string {
			var msgs []string

			for _, err := range errs {
				if err != nil {
					msgs = append(msgs, err.Error())
				}
			}

			return msgs
		}(),
	}
}

func (e *Error) Error() string {
	//nolint:errchkjson
	data, _ := json.Marshal(e)
	return string(data)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	if len(e.Err) == 0 {
		return nil
	}

	errs := make([]error, len(e.Err))
	for i, err := range e.Err {
		errs[i] = fmt.Errorf("%s", err)
	}

	return errors.Join(errs...)
}

func (e *Error) Messages() []string {
	return e.Err
}
