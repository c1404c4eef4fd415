package clinic

import (
	"errors"
	"fmt"
	"strings"
)

// Clinic errors
var (
	ErrValidation           = errors.New("validation failed")
	ErrDuplicateID          = errors.New("duplicate id")
	ErrNotFound             = errors.New("not found")
	ErrReferentialIntegrity = errors.New("referential integrity violation")
	ErrDoctorUnavailable    = errors.New("doctor is not available")
	ErrIO                   = errors.New("persistence failure")
	ErrUnreadStore          = errors.New("store was not loaded")
)

// Reason identifies which field rule a ValidationError broke.
// A Reason is itself an error so callers can match it with errors.Is.
type Reason string

const (
	EmptyID             Reason = "id must be a non-empty string"
	EmptyName           Reason = "name cannot be empty"
	InvalidAge          Reason = "age must be a positive integer"
	InvalidGender       Reason = "gender must be Male or Female"
	InvalidDate         Reason = "date must be in YYYY-MM-DD format"
	PastDate            Reason = "date must not be in the past"
	EmptyDisease        Reason = "disease cannot be empty"
	EmptySpecialty      Reason = "specialty cannot be empty"
	InvalidAvailability Reason = "availability must be true or false"
	ContainsDelimiter   Reason = "value must not contain the '|' delimiter"
	MalformedRecord     Reason = "record has the wrong number of fields"
)

func (r Reason) Error() string {
	return string(r)
}

// ValidationError reports a field value that failed its rule.
type ValidationError struct {
	Field  string
	Value  string
	Reason Reason
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap exposes both ErrValidation and the specific Reason.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Reason}
}

func invalid(field, value string, reason Reason) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// DuplicateIDError is returned when an id is already held by a registry.
type DuplicateIDError struct {
	Entity EntityType
	ID     string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s id %q already exists", e.Entity, e.ID)
}

func (e *DuplicateIDError) Unwrap() error { return ErrDuplicateID }

// NotFoundError is returned when an id is not held by a registry.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s id %q does not exist", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ReferentialIntegrityError is returned when deleting an entity that
// appointments still reference.
type ReferentialIntegrityError struct {
	Entity         EntityType
	ID             string
	AppointmentIDs []string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("cannot delete %s %q with active appointments: %s",
		e.Entity, e.ID, strings.Join(e.AppointmentIDs, ", "))
}

func (e *ReferentialIntegrityError) Unwrap() error { return ErrReferentialIntegrity }

// UnavailableError is returned when booking a doctor whose availability is off.
type UnavailableError struct {
	DoctorID string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("doctor %q is not available", e.DoctorID)
}

func (e *UnavailableError) Unwrap() error { return ErrDoctorUnavailable }

// StoreError wraps a persistence failure. In-memory state stays authoritative
// when a StoreError is returned from a mutating operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// UnreadStoreError is returned by Save while a store that failed to load
// would be overwritten with the empty registry standing in for it.
type UnreadStoreError struct {
	Entities []EntityType
}

func (e *UnreadStoreError) Error() string {
	names := make([]string, len(e.Entities))
	for i, entity := range e.Entities {
		names[i] = string(entity)
	}
	return fmt.Sprintf("%s store failed to load, not overwriting it", strings.Join(names, ", "))
}

func (e *UnreadStoreError) Unwrap() error { return ErrUnreadStore }

// Kind is the closed set of failure categories callers switch on.
type Kind int

const (
	KindNone Kind = iota
	KindValidation
	KindDuplicateID
	KindNotFound
	KindReferentialIntegrity
	KindDoctorUnavailable
	KindIO
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindValidation:
		return "validation"
	case KindDuplicateID:
		return "duplicate_id"
	case KindNotFound:
		return "not_found"
	case KindReferentialIntegrity:
		return "referential_integrity"
	case KindDoctorUnavailable:
		return "doctor_unavailable"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// KindOf classifies err. A nil error is KindNone.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrDuplicateID):
		return KindDuplicateID
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrReferentialIntegrity):
		return KindReferentialIntegrity
	case errors.Is(err, ErrDoctorUnavailable):
		return KindDoctorUnavailable
	case errors.Is(err, ErrIO):
		return KindIO
	default:
		return KindUnknown
	}
}
