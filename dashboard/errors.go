package dashboard

import (
	"errors"
	"fmt"

	"school-dashboard-go/db"
	"school-dashboard-go/forms"
)

// Messages shown to the operator.
const (
	MsgDuplicateEmail  = "The email you entered already exists. Please use a different email."
	MsgServerFallback  = "An error occurred. Please try again later."
	MsgNetwork         = "Network error. Please check your internet connection."
	MsgUnselectedType  = "Form type is not selected"
	MsgMissingContact  = "Both email and phone are required."
	MsgSubmitInFlight  = "A submission is already in progress."
	duplicateEmailBody = "Email already exists"
)

var (
	ErrAnalyticsOpen  = errors.New("close the analytics view first")
	ErrFormNotOpen    = errors.New("no form is open")
	ErrTypeMismatch   = errors.New("record does not belong to the selected type")
	ErrRecordNotFound = errors.New("record not found")
	ErrUnknownType    = errors.New("unknown record type")
	ErrUnknownView    = errors.New("unknown analytics view")
	ErrSubmitInFlight = errors.New(MsgSubmitInFlight)
)

// ValidationError blocks a submission locally; nothing is sent to the backend.
type ValidationError struct {
	Errors  forms.ErrorMap
	Message string // form-level message, when the problem is not tied to one field
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%d field(s) need attention", len(e.Errors))
}

// DuplicateResourceError is the backend rejecting a duplicate email.
type DuplicateResourceError struct {
	Err error
}

func (e *DuplicateResourceError) Error() string { return MsgDuplicateEmail }
func (e *DuplicateResourceError) Unwrap() error { return e.Err }

// ServerError is any other backend rejection.
type ServerError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return MsgServerFallback
}

func (e *ServerError) Unwrap() error { return e.Err }

// NetworkError means the backend never answered.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return MsgNetwork }
func (e *NetworkError) Unwrap() error { return e.Err }

// UnselectedTypeError is an action that needs a record type before one is chosen.
type UnselectedTypeError struct{}

func (e *UnselectedTypeError) Error() string { return MsgUnselectedType }

// classify maps a store error to the operator-facing taxonomy.
func classify(err error) error {
	var apiErr *db.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message == duplicateEmailBody {
			return &DuplicateResourceError{Err: err}
		}
		return &ServerError{StatusCode: apiErr.StatusCode, Message: apiErr.Message, Err: err}
	}
	var netErr *db.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{Err: err}
	}
	return &ServerError{Err: err}
}
