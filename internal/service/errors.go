package service

import "errors"

// Sentinel errors returned by the assignment services. Handlers translate
// them to HTTP status codes with errors.Is.
var (
	// ErrRequiredDataMissing means a required field of the request was empty.
	ErrRequiredDataMissing = errors.New("required data missing")

	// ErrInvalidDataFormat means a field was present but malformed, e.g. an
	// identifier that is not a UUID or an unknown role value.
	ErrInvalidDataFormat = errors.New("invalid data format")

	// ErrSelfEvaluation means evaluatee and evaluator refer to the same person.
	ErrSelfEvaluation = errors.New("an employee cannot evaluate themselves")

	// ErrDuplicateRelationship means an identical active mapping already exists.
	ErrDuplicateRelationship = errors.New("an identical active assignment already exists")

	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBusinessRule means the request violates a domain rule, e.g. a
	// primary line scoped to a deliverable or a phase transition that is not
	// allowed.
	ErrBusinessRule = errors.New("business rule violation")
)
