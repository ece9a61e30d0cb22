package services

import "errors"

var (
	// ErrDuplicatePatient: a patient with the same id is already registered.
	ErrDuplicatePatient = errors.New("patient already registered")
	// ErrUnknownSpecialty: the specialty is not in the catalog.
	ErrUnknownSpecialty = errors.New("unknown specialty")
	// ErrNoPatientSelected: assignment was called without a patient.
	ErrNoPatientSelected = errors.New("no patient selected")
	// ErrPatientNotFound: assignment by id for an id that is not registered.
	ErrPatientNotFound = errors.New("patient not found")
	// ErrAlreadyQueued: the RejectIfQueued policy refused a second enqueue.
	ErrAlreadyQueued = errors.New("patient already waiting in a queue")
	// ErrInvalidCatalog: the specialty catalog given at construction is unusable.
	ErrInvalidCatalog = errors.New("invalid specialty catalog")
)
