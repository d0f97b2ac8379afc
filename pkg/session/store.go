package session

import (
	"strings"
	"sync"
	"time"

	"github.com/meshchat/pairing/pkg/pin"
	"github.com/meshchat/pairing/pkg/transport"
)

// PinSession is the unit of pairing state: one in-progress or completed
// pairing attempt between two peers.
//
// Store methods return copies of the session, never pointers into the store,
// so a returned value is a consistent snapshot.
type PinSession struct {
	// ID uniquely identifies the session within the process lifetime.
	ID string

	// PIN is the code the responder must supply. It is displayed to a human
	// on the initiating node and never sent over the wire.
	PIN string

	// InitiatorPeerID is the peer that generated and displays the PIN.
	InitiatorPeerID transport.PeerID

	// ResponderPeerID is the peer that owes a PIN entry.
	ResponderPeerID transport.PeerID

	// ConnectionAddress is the transport-level link the session rides on,
	// used for bulk cleanup when the link drops.
	ConnectionAddress transport.Address

	// CreatedAt is informational; no TTL is enforced.
	CreatedAt time.Time

	// Verified transitions false to true at most once.
	Verified bool

	// AttemptCount counts ValidatePIN calls against this session. Tracked
	// for a future lockout policy, never enforced here.
	AttemptCount int
}

// Store owns the active pairing sessions and their indices.
//
// All operations are atomic with respect to each other: a single RWMutex
// guards the primary index (by session ID), the peer index, and every
// session field mutation. Nothing here blocks on I/O.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*PinSession
	byPeer   map[transport.PeerID]string // Peer ID -> live session ID

	generatePIN func() (string, error)
}

// StoreConfig configures the session store.
type StoreConfig struct {
	// PINGenerator produces codes for new sessions.
	// Default: pin.Generate. Override for deterministic tests.
	PINGenerator func() (string, error)
}

// NewStore creates an empty session store.
func NewStore(config StoreConfig) *Store {
	if config.PINGenerator == nil {
		config.PINGenerator = pin.Generate
	}
	return &Store{
		sessions:    make(map[string]*PinSession),
		byPeer:      make(map[transport.PeerID]string),
		generatePIN: config.PINGenerator,
	}
}

// CreateSession starts a new pairing between initiator and responder over
// the given connection and returns a snapshot of the created session,
// including the PIN to display.
//
// At most one session exists per responder at a time: any prior session for
// the responder is removed atomically as part of creation, so the peer index
// never points at a dead session and the primary index holds no orphans.
//
// An error from the PIN generator is an environment failure and aborts the
// creation.
func (s *Store) CreateSession(addr transport.Address, initiator, responder transport.PeerID) (PinSession, error) {
	code, err := s.generatePIN()
	if err != nil {
		return PinSession{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prevID, ok := s.byPeer[responder]; ok {
		s.removeLocked(prevID)
	}

	now := time.Now()
	sess := &PinSession{
		ID:                newSessionID(addr, initiator, responder, now),
		PIN:               code,
		InitiatorPeerID:   initiator,
		ResponderPeerID:   responder,
		ConnectionAddress: addr,
		CreatedAt:         now,
	}

	s.sessions[sess.ID] = sess
	s.byPeer[initiator] = sess.ID
	s.byPeer[responder] = sess.ID

	return *sess, nil
}

// ValidatePIN checks an entered code against the session's PIN.
//
// An unknown session ID returns false with no side effects; late submissions
// for removed sessions are expected, not errors. For a known session the
// attempt counter is incremented on every call, the comparison is
// case-insensitive, and a match sets Verified. Verified never reverts.
// No lockout is applied regardless of the attempt count.
func (s *Store) ValidatePIN(sessionID, entered string) bool {
	_, verified := s.Attempt(sessionID, entered)
	return verified
}

// Attempt is ValidatePIN with the session's existence reported alongside the
// verdict, checked in one atomic step. Callers that answer submissions use
// it to tell an unknown session from a wrong code without a second lookup
// racing against removal.
func (s *Store) Attempt(sessionID, entered string) (known, verified bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return false, false
	}

	sess.AttemptCount++
	if strings.EqualFold(sess.PIN, entered) {
		sess.Verified = true
		return true, true
	}
	return true, false
}

// MarkVerified sets the session verified without re-running the PIN
// comparison, for confirmation paths where validation already happened on
// the other node. Idempotent; unknown sessions are ignored.
func (s *Store) MarkVerified(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionID]; ok {
		sess.Verified = true
	}
}

// Get returns a snapshot of the session with the given ID.
func (s *Store) Get(sessionID string) (PinSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return PinSession{}, false
	}
	return *sess, true
}

// Status derives the verification status of a peer from its live session.
//
// No session means StatusNotRequired. A verified session is StatusVerified
// for both peers. An unverified session is StatusPendingInitiator when
// queried for the initiator (it is waiting on the responder) and
// StatusPendingResponder when queried for the responder (it owes an entry).
func (s *Store) Status(peer transport.PeerID) VerificationStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPeer[peer]
	if !ok {
		return StatusNotRequired
	}
	sess, ok := s.sessions[id]
	if !ok {
		return StatusNotRequired
	}

	switch {
	case sess.Verified:
		return StatusVerified
	case peer == sess.InitiatorPeerID:
		return StatusPendingInitiator
	default:
		return StatusPendingResponder
	}
}

// RemoveSession removes the session with the given ID from both indices.
// Unknown IDs are ignored.
func (s *Store) RemoveSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(sessionID)
}

// RemoveSessionsForPeer removes every session the peer participates in,
// as initiator or responder. Called on peer disconnect.
func (s *Store) RemoveSessionsForPeer(peer transport.PeerID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if sess.InitiatorPeerID == peer || sess.ResponderPeerID == peer {
			s.removeLocked(id)
		}
	}
}

// RemoveSessionsForConnection removes every session riding on the given
// connection address. Called on link drop.
func (s *Store) RemoveSessionsForConnection(addr transport.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if sess.ConnectionAddress == addr {
			s.removeLocked(id)
		}
	}
}

// ClearAll empties both indices. Intended for process reset and tests.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]*PinSession)
	s.byPeer = make(map[transport.PeerID]string)
}

// Count returns the number of active sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// removeLocked deletes one session and any peer index entries still
// pointing at it. Caller holds the write lock.
func (s *Store) removeLocked(sessionID string) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	delete(s.sessions, sessionID)

	if s.byPeer[sess.InitiatorPeerID] == sessionID {
		delete(s.byPeer, sess.InitiatorPeerID)
	}
	if s.byPeer[sess.ResponderPeerID] == sessionID {
		delete(s.byPeer, sess.ResponderPeerID)
	}
}
