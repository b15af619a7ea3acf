package forms

import "errors"

var (
	ErrEmptyFieldID      = errors.New("field id is empty")
	ErrDuplicateFieldID  = errors.New("duplicate field id")
	ErrUnknownFieldType  = errors.New("unknown field type")
	ErrMissingOptions    = errors.New("field type requires options")
	ErrForwardDependency = errors.New("conditional must reference an earlier field")
	ErrInvalidWindow     = errors.New("closeAt must be after openAt")

	// ErrInvalidAnswer is returned when an answer is neither a string nor a list of strings
	ErrInvalidAnswer = errors.New("answer must be a string or an array of strings")
)
