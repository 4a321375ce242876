package service

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/crewplan/internal/repository"
)

// Sentinels for errors.Is checks. Every rule failure is a *RuleError that
// matches exactly one of them.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("duplicate")
	ErrConflict   = errors.New("scheduling conflict")
	ErrConstraint = errors.New("constraint violated")
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindDuplicate
	KindConflict
	KindConstraint
)

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindDuplicate:
		return ErrDuplicate
	case KindConflict:
		return ErrConflict
	case KindConstraint:
		return ErrConstraint
	}
	return nil
}

// RuleError reports a scheduling rule the caller broke.
type RuleError struct {
	Kind    Kind
	Entity  string
	ID      string
	Message string

	// ConflictingIDs lists the assignments or leave records behind a KindConflict.
	ConflictingIDs []string
}

func (e *RuleError) Error() string {
	subject := e.Entity
	if e.ID != "" {
		subject += " " + e.ID
	}
	if subject == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", subject, e.Message)
}

func (e *RuleError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func validationErr(entity, id, format string, args ...any) error {
	return &RuleError{Kind: KindValidation, Entity: entity, ID: id, Message: fmt.Sprintf(format, args...)}
}

func notFoundErr(entity, id string) error {
	return &RuleError{Kind: KindNotFound, Entity: entity, ID: id, Message: "not found"}
}

func duplicateErr(entity, id, format string, args ...any) error {
	return &RuleError{Kind: KindDuplicate, Entity: entity, ID: id, Message: fmt.Sprintf(format, args...)}
}

func constraintErr(entity, id, format string, args ...any) error {
	return &RuleError{Kind: KindConstraint, Entity: entity, ID: id, Message: fmt.Sprintf(format, args...)}
}

// mapNotFound converts a repository miss into a NotFound rule error and
// returns every other store error untouched.
func mapNotFound(err error, entity, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundErr(entity, id)
	}
	return err
}
