package crud

import (
	"errors"
	"fmt"
)

// ErrResourceRequired is returned by New when Config.Resource is empty.
// The resource name derives the default root URL and cannot be defaulted.
var ErrResourceRequired = errors.New("crud: resource name must be specified")

// ErrOperationDisabled is returned by an action method whose operation
// was excluded by the Config.Only allow-list.
var ErrOperationDisabled = errors.New("crud: operation not enabled for this module")

// ErrMissingID is returned by single-target actions (FetchSingle, Update,
// Replace, Destroy) when the id argument is nil or stringifies to "".
var ErrMissingID = errors.New("crud: id is required")

// ErrUnknownAction is returned by Dispatch for a name with no registered
// action.
var ErrUnknownAction = errors.New("crud: unknown action")

// ErrUnknownMutation is returned by Commit for a name with no registered
// mutation.
var ErrUnknownMutation = errors.New("crud: unknown mutation")

// ErrUnknownGetter is returned by Getter for a name with no registered
// getter.
var ErrUnknownGetter = errors.New("crud: unknown getter")

// APIError is the error produced by the default Client for responses
// outside the 2xx range. It carries the status code and the raw response
// body so ParseError can extract a server-defined payload.
type APIError struct {
	Code int    // HTTP status code
	Body []byte // raw response body
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("crud: request failed with status %d", e.Code)
}

// StatusCode returns the HTTP status code for this error.
func (e *APIError) StatusCode() int {
	return e.Code
}

// asErr normalizes a mutation payload into an error. Error mutations
// accept nil (a falsy parsed error is stored as "no error"), an error,
// or any other value, which is wrapped.
func asErr(p any) error {
	if p == nil {
		return nil
	}
	if err, ok := p.(error); ok {
		return err
	}
	return fmt.Errorf("crud: %v", p)
}
