// Package session implements the pairing session store.
//
// The Store is the only shared mutable state in the pairing core. It owns
// every active PinSession, indexed by session ID and by the two peer IDs,
// and is safe for concurrent use from the human-interaction path and the
// transport-delivery path. Verification status is always derived from
// session state on demand, never cached, so it cannot drift.
package session

// VerificationStatus is the UI-facing pairing state of a peer, derived from
// session state by Store.Status.
type VerificationStatus int

const (
	// StatusNotRequired means no pairing session involves the peer.
	StatusNotRequired VerificationStatus = iota

	// StatusPendingInitiator means the local node generated a PIN for the
	// peer's pairing and is waiting for the responder to submit it.
	StatusPendingInitiator

	// StatusPendingResponder means the peer owes a PIN entry.
	StatusPendingResponder

	// StatusVerified means the pairing completed successfully.
	StatusVerified

	// StatusBlocked is reserved for a future lockout policy. No store
	// operation produces it.
	StatusBlocked
)

// String returns a human-readable name for the status.
func (s VerificationStatus) String() string {
	switch s {
	case StatusNotRequired:
		return "NotRequired"
	case StatusPendingInitiator:
		return "PendingInitiator"
	case StatusPendingResponder:
		return "PendingResponder"
	case StatusVerified:
		return "Verified"
	case StatusBlocked:
		return "Blocked"
	default:
		return "Unknown"
	}
}
