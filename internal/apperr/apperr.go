// Package apperr defines the closed set of errors a use case can return and
// the mapping that folds any failure into one of them.
package apperr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/egannguyen/purchase-orders/internal/entity"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindInfra      Kind = "infra"
)

// AppError is implemented only by *Validation, *NotFound, *Conflict and *Infra.
type AppError interface {
	error
	Kind() Kind
	sealed()
}

// Validation reports bad input or a violated domain rule.
type Validation struct {
	Message string
	Details map[string]string
	Cause   error
}

func (e *Validation) Error() string { return e.Message }
func (e *Validation) Unwrap() error { return e.Cause }
func (e *Validation) Kind() Kind    { return KindValidation }
func (e *Validation) sealed()       {}

// NotFound reports that a referenced entity does not exist. Message, when
// set, names what was missing inside the resource.
type NotFound struct {
	Resource string
	ID       string
	Message  string
}

func (e *NotFound) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFound) Kind() Kind { return KindNotFound }
func (e *NotFound) sealed()    {}

// Conflict reports a violated state precondition.
type Conflict struct {
	Message  string
	Resource string
	ID       string
}

func (e *Conflict) Error() string { return e.Message }
func (e *Conflict) Kind() Kind    { return KindConflict }
func (e *Conflict) sealed()       {}

// Infra reports a collaborator or transport failure.
type Infra struct {
	Message string
	Cause   error
}

func (e *Infra) Error() string { return e.Message }
func (e *Infra) Unwrap() error { return e.Cause }
func (e *Infra) Kind() Kind    { return KindInfra }
func (e *Infra) sealed()       {}

// Conflicter is implemented by errors that signal a conflict, such as an
// optimistic concurrency failure in a repository.
type Conflicter interface {
	Conflict() bool
}

const notFoundMarker = "not found"

// Map converts err into exactly one AppError. AppErrors pass through
// unchanged, domain rule violations become Validation, errors tagged as
// conflicts become Conflict, messages containing "not found" become
// NotFound for resource/id, and everything else becomes Infra.
func Map(err error, resource, id string) AppError {
	if err == nil {
		return &Infra{Message: "unexpected error"}
	}

	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var domainErr *entity.DomainError
	if errors.As(err, &domainErr) {
		return &Validation{Message: domainErr.Error(), Cause: err}
	}

	var c Conflicter
	if errors.As(err, &c) && c.Conflict() {
		return &Conflict{Message: err.Error(), Resource: resource, ID: id}
	}

	if strings.Contains(strings.ToLower(err.Error()), notFoundMarker) {
		return &NotFound{Resource: resource, ID: id, Message: err.Error()}
	}

	return &Infra{Message: err.Error(), Cause: err}
}
