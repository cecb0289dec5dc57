package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrTaskFailed is returned when an external task rejected or failed.
	ErrTaskFailed = errors.New("task failed")
	// ErrPrecondition is returned when an operation is invoked while its required prior state is absent.
	ErrPrecondition = errors.New("precondition failed")
	// ErrBusy is returned when an operation is requested while another one is in flight.
	ErrBusy = errors.New("operation in flight")
)
