package value

import (
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// localTimestamp is accepted when a timestamp carries no zone offset; it is
// read as UTC.
const localTimestamp = "2006-01-02T15:04:05.999999999"

// ParseUUID parses the canonical textual form of a UUID.
func ParseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, &ValidationError{ExpectedType: TypeUUID, Value: NilMarker, Description: "empty UUID"}
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, &ValidationError{ExpectedType: TypeUUID, Value: s, Description: err.Error()}
	}
	return id, nil
}

// ParseURI accepts an absolute URI reference (one with a scheme).
func ParseURI(s string) (string, error) {
	if s == "" {
		return "", &ValidationError{ExpectedType: TypeURI, Value: NilMarker, Description: "empty URI"}
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", &ValidationError{ExpectedType: TypeURI, Value: s, Description: err.Error()}
	}
	if !u.IsAbs() {
		return "", &ValidationError{ExpectedType: TypeURI, Value: s, Description: "URI is not absolute"}
	}
	return s, nil
}

// ParseTimestamp parses an xsd:dateTime. A value without a zone offset is
// taken to be UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, &ValidationError{ExpectedType: TypeDateTime, Value: NilMarker, Description: "empty timestamp"}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(localTimestamp, s, time.UTC)
	if err != nil {
		return time.Time{}, &ValidationError{ExpectedType: TypeDateTime, Value: s, Description: "not an RFC 3339 timestamp"}
	}
	return t, nil
}

// FormatTimestamp renders t the way ParseTimestamp reads it back, keeping
// t's zone offset.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParsePort parses a TCP port in 1..65535.
func ParsePort(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, &ValidationError{ExpectedType: TypePort, Value: orNil(s), Description: "not a port number"}
	}
	if n == 0 {
		return 0, &ValidationError{ExpectedType: TypePort, Value: s, Description: "port must be greater than zero"}
	}
	return uint16(n), nil
}

// ParseUint64 parses an xsd:unsignedLong.
func ParseUint64(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, &ValidationError{ExpectedType: TypeUnsignedLong, Value: orNil(s), Description: "not an unsigned integer"}
	}
	return n, nil
}

func orNil(s string) string {
	if s == "" {
		return NilMarker
	}
	return s
}
