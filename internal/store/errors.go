package store

import "fmt"

// DecodeError describes why a CSV payload was rejected.
type DecodeError struct {
	Code    string
	Row     int
	Column  string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Error codes for table decoding
const (
	ErrMalformedCSV  = "MALFORMED_CSV"
	ErrMissingColumn = "MISSING_COLUMN"
	ErrInvalidValue  = "INVALID_VALUE"
)

// NewMissingColumnError creates an error for a required column absent from the header
func NewMissingColumnError(kind Kind, column string) *DecodeError {
	return &DecodeError{
		Code:    ErrMissingColumn,
		Column:  column,
		Message: fmt.Sprintf("CSV %s sin columna %s", kindLabel(kind), column),
	}
}

// NewInvalidValueError creates an error for a cell that cannot be parsed
func NewInvalidValueError(row int, column, value string, cause error) *DecodeError {
	return &DecodeError{
		Code:    ErrInvalidValue,
		Row:     row,
		Column:  column,
		Message: fmt.Sprintf("fila %d: valor inválido %q en columna %s", row, value, column),
		Cause:   cause,
	}
}

// NewMalformedCSVError wraps a reader failure
func NewMalformedCSVError(cause error) *DecodeError {
	return &DecodeError{
		Code:    ErrMalformedCSV,
		Message: "CSV mal formado",
		Cause:   cause,
	}
}

func kindLabel(kind Kind) string {
	if kind == KindSales {
		return "ventas"
	}
	return "inventario"
}
