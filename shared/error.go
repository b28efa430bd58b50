package shared

import (
	"errors"
	"fmt"
)

type ErrorSource int

const (
	ErrorSourceConfig ErrorSource = iota
	ErrorSourceModel
	ErrorSourceTool
	ErrorSourceStorage
	ErrorSourceUser
	ErrorSourceUnknown
)

type CompanionError struct {
	Source  ErrorSource
	Message string
	Err     error
}

func Errorf(source ErrorSource, format string, a ...any) *CompanionError {
	return &CompanionError{
		Source:  source,
		Message: fmt.Sprintf(format, a...),
	}
}

func Wrap(source ErrorSource, err error, format string, a ...any) *CompanionError {
	return &CompanionError{
		Source:  source,
		Message: fmt.Sprintf(format, a...),
		Err:     err,
	}
}

func (e *CompanionError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
}

func (e *CompanionError) Unwrap() error {
	return e.Err
}

func (e *CompanionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// SourceOf returns the source recorded on err, or ErrorSourceUnknown if err
// does not carry one.
func SourceOf(err error) ErrorSource {
	var ce *CompanionError
	if errors.As(err, &ce) {
		return ce.Source
	}
	return ErrorSourceUnknown
}
