package tlv

import (
	"bytes"
	"testing"
)

func TestWriter_Put(t *testing.T) {
	t.Run("single record", func(t *testing.T) {
		w := NewWriter()
		w.Put(0x01, []byte("abc"))

		got, err := w.Bytes()
		if err != nil {
			t.Fatalf("Bytes() error = %v", err)
		}
		want := []byte{0x01, 0x03, 'a', 'b', 'c'}
		if !bytes.Equal(got, want) {
			t.Errorf("Bytes() = %x, want %x", got, want)
		}
	})

	t.Run("records in call order", func(t *testing.T) {
		w := NewWriter()
		w.Put(0x02, []byte{0xAA})
		w.Put(0x01, []byte{0xBB})

		got, err := w.Bytes()
		if err != nil {
			t.Fatalf("Bytes() error = %v", err)
		}
		want := []byte{0x02, 0x01, 0xAA, 0x01, 0x01, 0xBB}
		if !bytes.Equal(got, want) {
			t.Errorf("Bytes() = %x, want %x", got, want)
		}
	})

	t.Run("empty value", func(t *testing.T) {
		w := NewWriter()
		w.Put(0x05, nil)

		got, err := w.Bytes()
		if err != nil {
			t.Fatalf("Bytes() error = %v", err)
		}
		want := []byte{0x05, 0x00}
		if !bytes.Equal(got, want) {
			t.Errorf("Bytes() = %x, want %x", got, want)
		}
	})

	t.Run("max length value", func(t *testing.T) {
		w := NewWriter()
		w.Put(0x01, make([]byte, MaxValueLength))

		got, err := w.Bytes()
		if err != nil {
			t.Fatalf("Bytes() error = %v", err)
		}
		if len(got) != 2+MaxValueLength {
			t.Errorf("len(Bytes()) = %d, want %d", len(got), 2+MaxValueLength)
		}
	})

	t.Run("oversized value is sticky error", func(t *testing.T) {
		w := NewWriter()
		w.Put(0x01, make([]byte, MaxValueLength+1))
		w.Put(0x02, []byte("ok")) // Ignored after the failure

		if _, err := w.Bytes(); err != ErrValueTooLong {
			t.Errorf("Bytes() error = %v, want ErrValueTooLong", err)
		}
	})
}

func TestWriter_PutUint64(t *testing.T) {
	w := NewWriter()
	w.PutUint64(0x03, 0x0102030405060708)

	got, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	// Little-endian, fixed 8 bytes.
	want := []byte{0x03, 0x08, 0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %x, want %x", got, want)
	}
}

func TestWriter_PutByte(t *testing.T) {
	w := NewWriter()
	w.PutByte(0x02, 0x01)

	got, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	want := []byte{0x02, 0x01, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %x, want %x", got, want)
	}
}
