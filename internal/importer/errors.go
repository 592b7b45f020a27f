package importer

import (
	"errors"
	"fmt"
	"strings"
)

// Fatal preconditions of a run.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("credentials not verified")
	ErrUnknownProject     = errors.New("project not found")
	ErrMissingFields      = errors.New("required custom fields not found")
)

// MissingFieldsError lists the custom field names the server does not define.
type MissingFieldsError struct {
	Names []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingFields, strings.Join(e.Names, ", "))
}

// Is makes errors.Is(err, ErrMissingFields) match.
func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrMissingFields
}

// EpicError reports a failed epic creation. Without the epic key no task
// can be linked, so the run stops.
type EpicError struct {
	Summary string
	Err     error
}

func (e *EpicError) Error() string {
	return fmt.Sprintf("create epic %q: %v", e.Summary, e.Err)
}

func (e *EpicError) Unwrap() error {
	return e.Err
}
