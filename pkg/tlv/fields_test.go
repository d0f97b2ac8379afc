package tlv

import (
	"bytes"
	"testing"
)

func TestParse(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		w := NewWriter()
		w.PutString(0x01, "session-1")
		w.PutUint64(0x02, 42)
		w.PutByte(0x03, 0xFF)

		data, err := w.Bytes()
		if err != nil {
			t.Fatalf("Bytes() error = %v", err)
		}

		fields, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}

		if s, _ := fields.String(0x01); s != "session-1" {
			t.Errorf("String(0x01) = %q, want %q", s, "session-1")
		}
		if v, _ := fields.Uint64(0x02); v != 42 {
			t.Errorf("Uint64(0x02) = %d, want 42", v)
		}
		if b, _ := fields.Byte(0x03); b != 0xFF {
			t.Errorf("Byte(0x03) = %#x, want 0xFF", b)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		fields, err := Parse(nil)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if len(fields) != 0 {
			t.Errorf("len(fields) = %d, want 0", len(fields))
		}
	})

	t.Run("truncated length header", func(t *testing.T) {
		if _, err := Parse([]byte{0x01}); err != ErrUnexpectedEOF {
			t.Errorf("Parse() error = %v, want ErrUnexpectedEOF", err)
		}
	})

	t.Run("length past end of buffer", func(t *testing.T) {
		// Tag 0x01 claims 5 value bytes, only 2 remain.
		if _, err := Parse([]byte{0x01, 0x05, 'a', 'b'}); err != ErrUnexpectedEOF {
			t.Errorf("Parse() error = %v, want ErrUnexpectedEOF", err)
		}
	})

	t.Run("unknown tags are retained", func(t *testing.T) {
		data := []byte{
			0x7F, 0x02, 0xDE, 0xAD, // Tag no decoder asks for
			0x01, 0x02, 'h', 'i',
		}
		fields, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if s, _ := fields.String(0x01); s != "hi" {
			t.Errorf("String(0x01) = %q, want %q", s, "hi")
		}
		if !fields.Has(0x7F) {
			t.Error("Has(0x7F) = false, want true")
		}
	})

	t.Run("duplicate tag keeps first", func(t *testing.T) {
		data := []byte{
			0x01, 0x01, 'a',
			0x01, 0x01, 'b',
		}
		fields, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if v, _ := fields.Bytes(0x01); !bytes.Equal(v, []byte{'a'}) {
			t.Errorf("Bytes(0x01) = %q, want %q", v, "a")
		}
	})
}

func TestFields_Lookups(t *testing.T) {
	fields := Fields{
		0x01: []byte("text"),
		0x02: {1, 2, 3, 4, 5, 6, 7, 8},
		0x03: {1},
		0x04: {},
	}

	t.Run("missing tag", func(t *testing.T) {
		if _, err := fields.Bytes(0x09); err != ErrMissingField {
			t.Errorf("Bytes(0x09) error = %v, want ErrMissingField", err)
		}
		if _, err := fields.String(0x09); err != ErrMissingField {
			t.Errorf("String(0x09) error = %v, want ErrMissingField", err)
		}
	})

	t.Run("uint64 wrong width", func(t *testing.T) {
		if _, err := fields.Uint64(0x03); err != ErrInvalidFieldSize {
			t.Errorf("Uint64(0x03) error = %v, want ErrInvalidFieldSize", err)
		}
	})

	t.Run("byte wrong width", func(t *testing.T) {
		if _, err := fields.Byte(0x02); err != ErrInvalidFieldSize {
			t.Errorf("Byte(0x02) error = %v, want ErrInvalidFieldSize", err)
		}
		if _, err := fields.Byte(0x04); err != ErrInvalidFieldSize {
			t.Errorf("Byte(0x04) error = %v, want ErrInvalidFieldSize", err)
		}
	})
}
