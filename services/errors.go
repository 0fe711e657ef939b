package services

import "fmt"

// ValidationError reports malformed or missing input. Never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports that a referenced record does not exist
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ForbiddenError reports that the caller is authenticated but not authorized
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// InvalidTransitionError reports a status change that is not permitted from
// the current state. The message names both states.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

// ConflictError reports a concurrent or duplicate operation on a uniquely
// keyed record
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}
