package sqlgen

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by ValidationError.
	ErrValidation = errors.New("column validation failed")
	// ErrInvalidTempKind is returned for temp-table kinds other than local or global.
	ErrInvalidTempKind = errors.New("invalid temp table kind")
	// ErrEmptyClause is returned when a column partition would leave a required clause empty.
	ErrEmptyClause = errors.New("empty clause")
)

// ValidationError names a referenced column that the dataset does not have.
type ValidationError struct {
	Role   string
	Column string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s column %q is not present in the dataset", e.Role, e.Column)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
