package transport

import (
	"fmt"
	"sync"
	"time"

	"github.com/pion/transport/v3/test"
)

// pipeProcessInterval is how often queued packets are delivered.
const pipeProcessInterval = 1 * time.Millisecond

// Pipe provides bidirectional in-memory message delivery between two peers.
// It wraps pion's test.Bridge, so tests and demos run the full handshake
// without real network I/O.
//
// Each end of the pipe is an Endpoint implementing Sender; inbound messages
// are pushed to the Handler bound with SetHandler. Delivery runs on a
// background goroutine until Close.
type Pipe struct {
	bridge *test.Bridge
	a      *Endpoint
	b      *Endpoint

	mu     sync.Mutex
	closed bool
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewPipe creates a pipe connecting two peers. peerA is reachable from the
// B end and vice versa.
func NewPipe(peerA, peerB PeerID) *Pipe {
	p := &Pipe{
		bridge: test.NewBridge(),
		stopCh: make(chan struct{}),
	}
	p.a = newEndpoint(p, p.bridge.GetConn0(), peerA, peerB)
	p.b = newEndpoint(p, p.bridge.GetConn1(), peerB, peerA)

	p.wg.Add(1)
	go p.process()

	return p
}

// EndA returns the endpoint owned by peerA.
func (p *Pipe) EndA() *Endpoint {
	return p.a
}

// EndB returns the endpoint owned by peerB.
func (p *Pipe) EndB() *Endpoint {
	return p.b
}

// process delivers queued packets until the pipe is closed.
func (p *Pipe) process() {
	defer p.wg.Done()
	ticker := time.NewTicker(pipeProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.bridge.Tick()
		}
	}
}

// Close closes both endpoints and stops delivery.
//
// The bridge hands a pending Read its EOF only on a tick after the close
// request, so the conns are closed first and the tick goroutine keeps
// running until both read loops have drained out; only then is it stopped.
func (p *Pipe) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	err0 := p.a.conn.Close()
	err1 := p.b.conn.Close()
	p.a.wg.Wait()
	p.b.wg.Wait()

	close(p.stopCh)
	p.wg.Wait()

	if err0 != nil {
		return err0
	}
	return err1
}

// isClosed reports whether Close has been called.
func (p *Pipe) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Endpoint is one end of a Pipe. It implements Sender for the peer on the
// other end and dispatches inbound messages to its bound Handler.
type Endpoint struct {
	pipe   *Pipe
	conn   pipeConn
	local  PeerID
	remote PeerID

	mu      sync.RWMutex
	handler Handler
	wg      sync.WaitGroup
}

// pipeConn is the subset of net.Conn the endpoint uses.
type pipeConn interface {
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	Close() error
}

func newEndpoint(p *Pipe, conn pipeConn, local, remote PeerID) *Endpoint {
	e := &Endpoint{
		pipe:   p,
		conn:   conn,
		local:  local,
		remote: remote,
	}
	e.wg.Add(1)
	go e.readLoop()
	return e
}

// LocalPeer returns the peer that owns this endpoint.
func (e *Endpoint) LocalPeer() PeerID {
	return e.local
}

// RemotePeer returns the peer on the other end of the pipe.
func (e *Endpoint) RemotePeer() PeerID {
	return e.remote
}

// SetHandler binds the handler for inbound messages. Messages arriving
// before a handler is bound are dropped.
func (e *Endpoint) SetHandler(h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handler = h
}

// Send delivers one message to the remote peer. The message kind travels as
// a one-byte envelope prefix inside the bridged packet.
func (e *Endpoint) Send(to PeerID, kind MessageKind, payload []byte) error {
	if e.pipe.isClosed() {
		return ErrClosed
	}
	if to != e.remote {
		return fmt.Errorf("%w: %s", ErrUnknownPeer, to)
	}

	frame := make([]byte, 1+len(payload))
	frame[0] = byte(kind)
	copy(frame[1:], payload)

	if _, err := e.conn.Write(frame); err != nil {
		return err
	}
	return nil
}

// readLoop dispatches inbound packets until the connection closes.
func (e *Endpoint) readLoop() {
	defer e.wg.Done()

	buf := make([]byte, 64*1024)
	for {
		n, err := e.conn.Read(buf)
		if err != nil {
			return
		}
		if n < 1 {
			continue
		}

		kind := MessageKind(buf[0])
		if !kind.IsValid() {
			continue
		}
		payload := make([]byte, n-1)
		copy(payload, buf[1:n])

		e.mu.RLock()
		handler := e.handler
		e.mu.RUnlock()

		if handler != nil {
			handler(e.remote, kind, payload)
		}
	}
}
