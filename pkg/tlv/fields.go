package tlv

import "encoding/binary"

// Fields holds the decoded records of one message, keyed by tag.
// When the input carries the same tag more than once, the first
// occurrence wins.
type Fields map[uint8][]byte

// Parse decodes a buffer of concatenated TLV records.
//
// The scan is strictly sequential: tag byte, length byte, value bytes. A
// length that would read past the end of the buffer yields ErrUnexpectedEOF
// and no field set. Unknown tags are retained rather than rejected, so
// messages may grow new fields without breaking old decoders.
func Parse(data []byte) (Fields, error) {
	fields := make(Fields)
	for i := 0; i < len(data); {
		if len(data)-i < 2 {
			return nil, ErrUnexpectedEOF
		}
		tag := data[i]
		length := int(data[i+1])
		i += 2
		if length > len(data)-i {
			return nil, ErrUnexpectedEOF
		}
		if _, seen := fields[tag]; !seen {
			fields[tag] = data[i : i+length]
		}
		i += length
	}
	return fields, nil
}

// Has reports whether a record with the given tag was decoded.
func (f Fields) Has(tag uint8) bool {
	_, ok := f[tag]
	return ok
}

// Bytes returns the raw value of the given tag, or ErrMissingField.
func (f Fields) Bytes(tag uint8) ([]byte, error) {
	v, ok := f[tag]
	if !ok {
		return nil, ErrMissingField
	}
	return v, nil
}

// String returns the value of the given tag interpreted as UTF-8 text.
func (f Fields) String(tag uint8) (string, error) {
	v, err := f.Bytes(tag)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// Uint64 returns the value of the given tag interpreted as a fixed 8-byte
// little-endian integer. A value of any other width is ErrInvalidFieldSize.
func (f Fields) Uint64(tag uint8) (uint64, error) {
	v, err := f.Bytes(tag)
	if err != nil {
		return 0, err
	}
	if len(v) != 8 {
		return 0, ErrInvalidFieldSize
	}
	return binary.LittleEndian.Uint64(v), nil
}

// Byte returns the value of the given tag as a single byte.
// An empty or wider value is ErrInvalidFieldSize.
func (f Fields) Byte(tag uint8) (byte, error) {
	v, err := f.Bytes(tag)
	if err != nil {
		return 0, err
	}
	if len(v) != 1 {
		return 0, ErrInvalidFieldSize
	}
	return v[0], nil
}
