package tlv

import "errors"

var (
	// ErrUnexpectedEOF is returned when a record's length byte claims more
	// value bytes than remain in the input.
	ErrUnexpectedEOF = errors.New("tlv: unexpected end of input")

	// ErrValueTooLong is returned when a value exceeds the 255-byte limit
	// imposed by the single-byte length field.
	ErrValueTooLong = errors.New("tlv: value exceeds 255 bytes")

	// ErrMissingField is returned when a required tag is absent from a
	// decoded field set.
	ErrMissingField = errors.New("tlv: missing field")

	// ErrInvalidFieldSize is returned when a fixed-width field has an
	// unexpected byte length.
	ErrInvalidFieldSize = errors.New("tlv: invalid field size")
)
