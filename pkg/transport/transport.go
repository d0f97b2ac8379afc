// Package transport defines the collaborator surface between the pairing
// core and whatever link actually moves bytes between peers.
//
// The pairing core never performs delivery itself: it hands fully encoded
// payloads to a Sender and receives inbound payloads through a Handler. The
// transport owns message boundaries and message typing; the wire format
// inside a payload has no outer framing of its own.
package transport

import "errors"

// Errors returned by transport implementations.
var (
	// ErrClosed is returned when sending through a closed transport.
	ErrClosed = errors.New("transport: closed")

	// ErrUnknownPeer is returned when the destination peer is not reachable
	// through this transport.
	ErrUnknownPeer = errors.New("transport: unknown peer")
)

// PeerID is a logical peer identifier, distinct from any transport-level
// address. Two reconnects of the same device present the same PeerID over
// different Addresses.
type PeerID string

// Address is a transport-level connection identifier (for example a
// Bluetooth MAC). Sessions are bulk-removed by Address when a physical link
// drops.
type Address string

// MessageKind identifies which pairing message a payload carries. The kind
// travels in the transport envelope, not inside the TLV payload, so each
// message type keeps its own tag namespace.
type MessageKind byte

const (
	// KindPairingRequest announces a new pairing and its session ID.
	KindPairingRequest MessageKind = 0x01

	// KindPairingResponse carries a human-entered PIN back to the initiator.
	KindPairingResponse MessageKind = 0x02

	// KindPairingResult reports the initiator's validation verdict.
	KindPairingResult MessageKind = 0x03
)

// String returns a human-readable name for the message kind.
func (k MessageKind) String() string {
	switch k {
	case KindPairingRequest:
		return "PairingRequest"
	case KindPairingResponse:
		return "PairingResponse"
	case KindPairingResult:
		return "PairingResult"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the kind is a defined value.
func (k MessageKind) IsValid() bool {
	return k >= KindPairingRequest && k <= KindPairingResult
}

// Sender delivers one encoded pairing message to a peer.
// Implementations must be safe for concurrent use.
type Sender interface {
	Send(to PeerID, kind MessageKind, payload []byte) error
}

// Handler receives one inbound pairing message. The payload slice is owned
// by the handler once delivered.
type Handler func(from PeerID, kind MessageKind, payload []byte)
