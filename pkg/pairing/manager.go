package pairing

import (
	"fmt"
	"sync"
	"time"

	"github.com/pion/logging"

	"github.com/meshchat/pairing/pkg/session"
	"github.com/meshchat/pairing/pkg/transport"
)

// Failure messages carried in a PairingResult.
const (
	failureUnknownSession = "unknown session"
	failurePINMismatch    = "PIN mismatch"
)

// Delegate receives pairing events for the UI collaborator.
//
// Callbacks run on whichever goroutine delivered the triggering message;
// implementations that touch UI state must hop to their own context.
type Delegate interface {
	// PINRequired is called on the responder when an inbound request needs
	// a human-entered PIN. The UI answers by calling Manager.SubmitPIN.
	PINRequired(req *Request, from transport.PeerID)

	// PairingCompleted is called on both sides when a validation verdict is
	// known: on the initiator after checking a submission, on the responder
	// after receiving the result. errorMessage is empty on success. A
	// failed verdict is not terminal; the responder may submit again.
	PairingCompleted(sessionID string, peer transport.PeerID, success bool, errorMessage string)
}

// Manager orchestrates the pairing handshake on one node.
//
// It plays both roles: the initiator path creates sessions and validates
// submissions, the responder path tracks inbound requests and forwards
// human-entered PINs. The session store holds the authoritative state; the
// manager's own bookkeeping is limited to requests awaiting PIN entry.
type Manager struct {
	localPeer transport.PeerID
	store     *session.Store
	sender    transport.Sender
	delegate  Delegate
	log       logging.LeveledLogger

	mu      sync.Mutex
	pending map[string]pendingRequest // Session ID -> inbound request
}

// pendingRequest tracks an inbound pairing request awaiting PIN entry.
type pendingRequest struct {
	from       transport.PeerID
	initiator  transport.PeerID
	receivedAt time.Time
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// LocalPeerID identifies this node to its peers. Required.
	LocalPeerID transport.PeerID

	// Sender delivers encoded messages to peers. Required.
	Sender transport.Sender

	// Store holds pairing sessions. If nil, a fresh store is created; pass
	// a shared store when the connection manager also reads statuses.
	Store *session.Store

	// Delegate receives UI-facing events. May be nil.
	Delegate Delegate

	// LoggerFactory is the factory for creating loggers.
	// If nil, the default factory is used.
	LoggerFactory logging.LoggerFactory
}

// NewManager creates a pairing manager.
func NewManager(config ManagerConfig) (*Manager, error) {
	if config.LocalPeerID == "" {
		return nil, ErrNoLocalPeer
	}
	if config.Sender == nil {
		return nil, ErrNoSender
	}

	store := config.Store
	if store == nil {
		store = session.NewStore(session.StoreConfig{})
	}

	loggerFactory := config.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}

	return &Manager{
		localPeer: config.LocalPeerID,
		store:     store,
		sender:    config.Sender,
		delegate:  config.Delegate,
		log:       loggerFactory.NewLogger("pairing"),
		pending:   make(map[string]pendingRequest),
	}, nil
}

// Store returns the session store, for status queries and cleanup by the
// surrounding connection manager.
func (m *Manager) Store() *session.Store {
	return m.store
}

// Status returns the verification status of a peer.
func (m *Manager) Status(peer transport.PeerID) session.VerificationStatus {
	return m.store.Status(peer)
}

// StartPairing begins a pairing with a responder over the given connection.
// It creates a session, sends the PairingRequest, and returns a snapshot of
// the session; the caller displays the snapshot's PIN to a human.
//
// If the request cannot be handed to the transport the session is removed
// again, so a failed start leaves no state behind.
func (m *Manager) StartPairing(addr transport.Address, responder transport.PeerID) (session.PinSession, error) {
	sess, err := m.store.CreateSession(addr, m.localPeer, responder)
	if err != nil {
		return session.PinSession{}, err
	}

	req := &Request{
		SessionID:       sess.ID,
		InitiatorPeerID: string(m.localPeer),
		Timestamp:       sess.CreatedAt.UnixMilli(),
	}
	payload, err := req.Encode()
	if err != nil {
		m.store.RemoveSession(sess.ID)
		return session.PinSession{}, err
	}

	if err := m.sender.Send(responder, transport.KindPairingRequest, payload); err != nil {
		m.store.RemoveSession(sess.ID)
		return session.PinSession{}, fmt.Errorf("pairing: send request: %w", err)
	}

	m.log.Infof("started pairing session=%s responder=%s", sess.ID, responder)
	return sess, nil
}

// SubmitPIN answers a pending inbound request with a human-entered code.
// ErrNoPendingRequest means no request announced the session (or it was
// already completed).
func (m *Manager) SubmitPIN(sessionID, code string) error {
	m.mu.Lock()
	p, ok := m.pending[sessionID]
	m.mu.Unlock()
	if !ok {
		return ErrNoPendingRequest
	}

	resp := &Response{
		SessionID:       sessionID,
		EnteredPIN:      code,
		ResponderPeerID: string(m.localPeer),
	}
	payload, err := resp.Encode()
	if err != nil {
		return err
	}

	if err := m.sender.Send(p.from, transport.KindPairingResponse, payload); err != nil {
		return fmt.Errorf("pairing: send response: %w", err)
	}

	m.log.Debugf("submitted PIN session=%s initiator=%s", sessionID, p.from)
	return nil
}

// HandleMessage processes one inbound pairing message. Malformed payloads
// are dropped and reported as errors so the transport layer can count them;
// they never abort the manager.
func (m *Manager) HandleMessage(from transport.PeerID, kind transport.MessageKind, payload []byte) error {
	switch kind {
	case transport.KindPairingRequest:
		return m.handleRequest(from, payload)
	case transport.KindPairingResponse:
		return m.handleResponse(from, payload)
	case transport.KindPairingResult:
		return m.handleResult(from, payload)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownMessageKind, kind)
	}
}

// Handler adapts the manager to the transport's inbound callback, logging
// rejected messages instead of surfacing them.
func (m *Manager) Handler() transport.Handler {
	return func(from transport.PeerID, kind transport.MessageKind, payload []byte) {
		if err := m.HandleMessage(from, kind, payload); err != nil {
			m.log.Warnf("dropped message kind=%s from=%s: %v", kind, from, err)
		}
	}
}

// handleRequest records an inbound pairing request and asks the delegate
// for a PIN.
func (m *Manager) handleRequest(from transport.PeerID, payload []byte) error {
	req, err := DecodeRequest(payload)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.pending[req.SessionID] = pendingRequest{
		from:       from,
		initiator:  transport.PeerID(req.InitiatorPeerID),
		receivedAt: time.Now(),
	}
	m.mu.Unlock()

	m.log.Infof("pairing requested session=%s initiator=%s", req.SessionID, req.InitiatorPeerID)

	if m.delegate != nil {
		m.delegate.PINRequired(req, from)
	}
	return nil
}

// handleResponse validates a PIN submission and answers with a result.
func (m *Manager) handleResponse(from transport.PeerID, payload []byte) error {
	resp, err := DecodeResponse(payload)
	if err != nil {
		return err
	}

	var res *Result
	known, verified := m.store.Attempt(resp.SessionID, resp.EnteredPIN)
	switch {
	case !known:
		res = NewFailureResult(resp.SessionID, failureUnknownSession)
	case verified:
		res = NewSuccessResult(resp.SessionID)
	default:
		res = NewFailureResult(resp.SessionID, failurePINMismatch)
	}

	out, err := res.Encode()
	if err != nil {
		return err
	}
	if err := m.sender.Send(from, transport.KindPairingResult, out); err != nil {
		return fmt.Errorf("pairing: send result: %w", err)
	}

	m.log.Infof("validated submission session=%s peer=%s success=%v", resp.SessionID, from, res.Success)

	if m.delegate != nil {
		m.delegate.PairingCompleted(resp.SessionID, from, res.Success, errorMessageOf(res))
	}
	return nil
}

// handleResult applies the initiator's verdict on the responder side.
func (m *Manager) handleResult(from transport.PeerID, payload []byte) error {
	res, err := DecodeResult(payload)
	if err != nil {
		return err
	}

	if res.Success {
		// No-op when this node holds no session, which is the normal
		// responder case: only the initiator's store knows the PIN.
		m.store.MarkVerified(res.SessionID)

		m.mu.Lock()
		delete(m.pending, res.SessionID)
		m.mu.Unlock()
	}

	m.log.Infof("pairing result session=%s peer=%s success=%v", res.SessionID, from, res.Success)

	if m.delegate != nil {
		m.delegate.PairingCompleted(res.SessionID, from, res.Success, errorMessageOf(res))
	}
	return nil
}

// errorMessageOf flattens an optional wire error message for delegates.
func errorMessageOf(res *Result) string {
	if res.ErrorMessage == nil {
		return ""
	}
	return *res.ErrorMessage
}
