package session

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/meshchat/pairing/pkg/transport"
)

// idLength is the number of digest bytes kept for a session ID.
// 16 hex characters are plenty within a single process lifetime.
const idLength = 8

// newSessionID derives a session ID from the connection address, the two
// peers, and the creation time. Hashing the nanosecond timestamp keeps IDs
// unique across reconnects of the same address; including the peers keeps
// concurrent creations on one link distinct.
func newSessionID(addr transport.Address, initiator, responder transport.PeerID, at time.Time) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(addr))
	h.Write([]byte(initiator))
	h.Write([]byte(responder))

	var ts [8]byte
	binary.LittleEndian.PutUint64(ts[:], uint64(at.UnixNano()))
	h.Write(ts[:])

	return hex.EncodeToString(h.Sum(nil)[:idLength])
}
