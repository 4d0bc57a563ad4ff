package models

import "fmt"

// ValidationError signals malformed or incomplete offer terms. Callers should
// fix the request, not retry it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// InvalidStateTransitionError signals an operation that is not legal for the
// collaboration's current status. Retrying is never correct.
type InvalidStateTransitionError struct {
	Status    string
	Operation string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s while collaboration is %s", e.Operation, e.Status)
}

// NotFoundError signals an unknown collaboration, conversation or message id,
// or one the viewer is not a party to.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}
