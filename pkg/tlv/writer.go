// Package tlv implements the flat Tag-Length-Value record format used by the
// pairing wire protocol.
//
// Each record is encoded as [1-byte tag][1-byte length][length bytes of
// value], concatenated with no outer framing, padding, or checksum. Message
// boundaries are provided by the transport, not by this format. The
// single-byte length field caps every value at 255 bytes; this is a wire
// constraint of the protocol, not an implementation shortcut.
package tlv

import (
	"bytes"
	"encoding/binary"
)

// MaxValueLength is the largest value a single record can carry,
// limited by the one-byte length field.
const MaxValueLength = 255

// Writer encodes TLV records into an in-memory buffer.
//
// Records are emitted in Put call order. A value longer than MaxValueLength
// is a programming error: the writer enters a sticky error state and Bytes
// reports ErrValueTooLong.
type Writer struct {
	buf bytes.Buffer
	err error
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Put appends one record with the given tag and raw value.
func (w *Writer) Put(tag uint8, value []byte) {
	if w.err != nil {
		return
	}
	if len(value) > MaxValueLength {
		w.err = ErrValueTooLong
		return
	}
	w.buf.WriteByte(tag)
	w.buf.WriteByte(byte(len(value)))
	w.buf.Write(value)
}

// PutString appends a record carrying the UTF-8 bytes of s.
func (w *Writer) PutString(tag uint8, s string) {
	w.Put(tag, []byte(s))
}

// PutUint64 appends a record carrying v as a fixed 8-byte little-endian
// integer.
func (w *Writer) PutUint64(tag uint8, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	w.Put(tag, buf[:])
}

// PutByte appends a record carrying a single byte.
func (w *Writer) PutByte(tag uint8, b byte) {
	w.Put(tag, []byte{b})
}

// Bytes returns the encoded records, or the first error encountered by a
// Put call.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}
