// Package pin generates the short human-typable codes exchanged out of band
// during pairing.
//
// The code is the sole secret protecting a pairing, so it is always drawn
// from crypto/rand. The alphabet excludes characters that are easy to
// confuse when read aloud or copied from a screen: no digit zero or one, and
// no I, L, or O.
package pin

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Alphabet is the set of characters a PIN may contain.
const Alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// Length is the number of characters in a generated PIN.
const Length = 6

// Generate returns a new random PIN of Length characters, each drawn
// uniformly and independently from Alphabet.
//
// An error from the random source is an environment failure and is returned
// rather than degraded into a weaker code.
func Generate() (string, error) {
	// Rejection sampling keeps the per-character distribution uniform:
	// bytes >= limit would bias the modulo towards the low alphabet entries.
	limit := byte(256 - 256%len(Alphabet))

	var b strings.Builder
	b.Grow(Length)

	var buf [1]byte
	for b.Len() < Length {
		if _, err := rand.Read(buf[:]); err != nil {
			return "", fmt.Errorf("pin: read random source: %w", err)
		}
		if buf[0] >= limit {
			continue
		}
		b.WriteByte(Alphabet[int(buf[0])%len(Alphabet)])
	}
	return b.String(), nil
}

// Valid reports whether s has the exact shape of a generated PIN:
// Length characters, all from Alphabet. The comparison is case-sensitive;
// callers that accept human input should uppercase it first.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(Alphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}
