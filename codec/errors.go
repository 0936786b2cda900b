package codec

import (
	"errors"
	"fmt"

	"github.com/c360studio/semagent/graph"
	"github.com/c360studio/semagent/value"
	errs "github.com/c360studio/semstreams/errors"
)

// ErrUnknownMessage is returned when a graph holds no node typed with a
// registered message class.
var ErrUnknownMessage = errors.New("no node typed with a registered message class")

// ErrUnsupportedKind is returned when no codec is registered for a kind.
var ErrUnsupportedKind = errors.New("unsupported message kind")

// ParseError reports malformed wire text.
type ParseError struct {
	Format graph.Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %s message: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches errs.ErrParsingFailed.
func (e *ParseError) Is(target error) bool { return target == errs.ErrParsingFailed }

// SchemaError reports that the graph does not hold exactly one node of the
// expected message class.
type SchemaError struct {
	TypeIRI string
	Count   int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("expected exactly one node of type <%s>, found %d", e.TypeIRI, e.Count)
}

// Is matches errs.ErrInvalidData.
func (e *SchemaError) Is(target error) bool { return target == errs.ErrInvalidData }

// MissingMandatoryFieldError reports a mandatory field with no triple.
type MissingMandatoryFieldError struct {
	Field        string
	Property     string
	Resource     string
	ExpectedType string
}

func (e *MissingMandatoryFieldError) Error() string {
	return fmt.Sprintf("missing mandatory field %s (<%s>) on %s, expected %s",
		e.Field, e.Property, e.Resource, e.ExpectedType)
}

// Is matches errs.ErrInvalidData.
func (e *MissingMandatoryFieldError) Is(target error) bool { return target == errs.ErrInvalidData }

// TypeMismatchError reports a field whose object has the wrong node kind.
type TypeMismatchError struct {
	Field        string
	Property     string
	Resource     string
	ExpectedType string
	ActualValue  string
	ActualKind   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %s (<%s>) on %s: expected %s, found %s %s",
		e.Field, e.Property, e.Resource, e.ExpectedType, e.ActualKind, e.ActualValue)
}

// Is matches errs.ErrInvalidData.
func (e *TypeMismatchError) Is(target error) bool { return target == errs.ErrInvalidData }

// IsCodecError reports whether err came from decoding or encoding a
// message, as opposed to a transport or system failure.
func IsCodecError(err error) bool {
	var (
		pe *ParseError
		se *SchemaError
		me *MissingMandatoryFieldError
		te *TypeMismatchError
		ve *value.ValidationError
	)
	return errors.As(err, &pe) ||
		errors.As(err, &se) ||
		errors.As(err, &me) ||
		errors.As(err, &te) ||
		errors.As(err, &ve) ||
		errors.Is(err, ErrUnknownMessage) ||
		errors.Is(err, ErrUnsupportedKind)
}

// Classify maps err onto the semstreams error classes. Codec errors are
// ErrorInvalid; anything else is classified by errs.Classify.
func Classify(err error) errs.ErrorClass {
	if IsCodecError(err) {
		return errs.ErrorInvalid
	}
	return errs.Classify(err)
}
