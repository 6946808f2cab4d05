package patient

import "errors"

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPatientAlreadyExists = errors.New("patient with this ID already exists")
	ErrEmailAlreadyUsed     = errors.New("email is already registered to another patient")
	ErrMissingFields        = errors.New("patient ID, name, phone and email are required")
	ErrInvalidAge           = errors.New("age must be greater than zero")
)
