package entity

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a Fault
type Kind string

const (
	KindValidation    Kind = "VALIDATION"
	KindNotFound      Kind = "NOT_FOUND"
	KindDuplicate     Kind = "DUPLICATE_TODAY"
	KindConfiguration Kind = "CONFIGURATION"
	KindCollaborator  Kind = "COLLABORATOR"
)

// Fault is a classified domain error
type Fault struct {
	Kind    Kind
	Message string

	// DuplicateToday details
	Nombre            string
	OriginalTime      time.Time
	OriginalTimeOfDay string // HH:MM in the reporting timezone

	// CollaboratorFault: the provider blamed the caller's input
	ClientCaused bool

	Err error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Fault) Unwrap() error { return f.Err }

func ErrValidation(msg string) *Fault { return &Fault{Kind: KindValidation, Message: msg} }
func ErrNotFound(msg string) *Fault   { return &Fault{Kind: KindNotFound, Message: msg} }

// ErrDuplicateToday reports an attendee that already checked in on the same date
func ErrDuplicateToday(nombre string, original time.Time, timeOfDay string) *Fault {
	return &Fault{
		Kind:              KindDuplicate,
		Message:           nombre + " already checked in today at " + timeOfDay,
		Nombre:            nombre,
		OriginalTime:      original,
		OriginalTimeOfDay: timeOfDay,
	}
}

// ErrConfiguration names the missing variable, never its value
func ErrConfiguration(variable string) *Fault {
	return &Fault{Kind: KindConfiguration, Message: variable + " is not set"}
}

// ErrCollaborator wraps a provider failure
func ErrCollaborator(msg string, clientCaused bool, err error) *Fault {
	return &Fault{Kind: KindCollaborator, Message: msg, ClientCaused: clientCaused, Err: err}
}

// FaultKind returns the kind of err, or "" when err is not a Fault
func FaultKind(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}
