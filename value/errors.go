package value

import (
	"errors"
	"fmt"
)

// NilMarker stands in for a missing value in a ValidationError.
const NilMarker = "<nil>"

// Expected type tags reported by validation and decode errors.
const (
	TypeResource     = "resource"
	TypeLiteral      = "literal"
	TypeVariable     = "variable"
	TypeBlank        = "blank"
	TypeURI          = "uri"
	TypeUUID         = "uuid"
	TypeDateTime     = "dateTime"
	TypePort         = "port"
	TypeUnsignedLong = "unsignedLong"
	TypeLanguage     = "language"
	TypeString       = "string"
)

// ValidationError reports a value that failed construction or scalar
// coercion.
type ValidationError struct {
	Field        string
	ExpectedType string
	Value        string
	Description  string
}

func (e *ValidationError) Error() string {
	field := e.Field
	if field == "" {
		field = "value"
	}
	if e.Description == "" {
		return fmt.Sprintf("invalid %s: expected %s, got %q", field, e.ExpectedType, e.Value)
	}
	return fmt.Sprintf("invalid %s: expected %s, got %q: %s", field, e.ExpectedType, e.Value, e.Description)
}

// WithField returns a copy of err with Field set when err is a
// *ValidationError. Other errors are returned unchanged.
func WithField(err error, field string) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		cp := *ve
		cp.Field = field
		return &cp
	}
	return err
}
