package pairing

import "errors"

var (
	// ErrNoSender is returned when a Manager is configured without a
	// transport sender.
	ErrNoSender = errors.New("pairing: no sender configured")

	// ErrNoLocalPeer is returned when a Manager is configured without a
	// local peer ID.
	ErrNoLocalPeer = errors.New("pairing: no local peer ID configured")

	// ErrUnknownMessageKind is returned when an inbound message carries a
	// kind this package does not handle.
	ErrUnknownMessageKind = errors.New("pairing: unknown message kind")

	// ErrNoPendingRequest is returned when a PIN is submitted for a session
	// no inbound request announced.
	ErrNoPendingRequest = errors.New("pairing: no pending request for session")
)
