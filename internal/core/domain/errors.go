package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrBadRequest   = errors.New("bad request")
	ErrPollExpired  = errors.New("poll has already expired")
	ErrAlreadyVoted = errors.New("user has already voted on this poll")
	ErrInternal     = errors.New("internal server error")
)

// NotFoundError identifies the missing resource. It matches ErrNotFound
// under errors.Is so handlers can branch without inspecting the fields.
type NotFoundError struct {
	Resource string
	Field    string
	Value    any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with %s: %v", e.Resource, e.Field, e.Value)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NewNotFound(resource, field string, value any) error {
	return &NotFoundError{Resource: resource, Field: field, Value: value}
}

type BadRequestError struct {
	Reason string
}

func (e *BadRequestError) Error() string { return e.Reason }

func (e *BadRequestError) Is(target error) bool { return target == ErrBadRequest }

func NewBadRequest(reason string) error {
	return &BadRequestError{Reason: reason}
}

// ConsistencyError reports a broken internal invariant, such as a poll whose
// creator no longer resolves to a user. It is a bug, not a caller fault, and
// must never be translated into a 4xx response.
type ConsistencyError struct {
	Detail string
}

func (e *ConsistencyError) Error() string {
	return "internal consistency violation: " + e.Detail
}

func (e *ConsistencyError) Is(target error) bool { return target == ErrInternal }

func NewConsistencyError(format string, args ...any) error {
	return &ConsistencyError{Detail: fmt.Sprintf(format, args...)}
}
