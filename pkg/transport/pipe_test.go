package transport

import (
	"bytes"
	"sync"
	"testing"
	"time"
)

// collector records messages delivered to a handler.
type collector struct {
	mu   sync.Mutex
	msgs []collectedMsg
}

type collectedMsg struct {
	from    PeerID
	kind    MessageKind
	payload []byte
}

func (c *collector) handler(from PeerID, kind MessageKind, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, collectedMsg{from, kind, payload})
}

func (c *collector) waitFor(t *testing.T, n int) []collectedMsg {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		if len(c.msgs) >= n {
			msgs := append([]collectedMsg(nil), c.msgs...)
			c.mu.Unlock()
			return msgs
		}
		c.mu.Unlock()
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d messages", n)
	return nil
}

func TestPipe_Send(t *testing.T) {
	t.Run("delivers in both directions", func(t *testing.T) {
		p := NewPipe("peerA", "peerB")
		defer p.Close()

		var atB, atA collector
		p.EndB().SetHandler(atB.handler)
		p.EndA().SetHandler(atA.handler)

		if err := p.EndA().Send("peerB", KindPairingRequest, []byte("req")); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		if err := p.EndB().Send("peerA", KindPairingResponse, []byte("resp")); err != nil {
			t.Fatalf("Send() error = %v", err)
		}

		got := atB.waitFor(t, 1)[0]
		if got.from != "peerA" || got.kind != KindPairingRequest || !bytes.Equal(got.payload, []byte("req")) {
			t.Errorf("at B: got (%s, %s, %q)", got.from, got.kind, got.payload)
		}

		got = atA.waitFor(t, 1)[0]
		if got.from != "peerB" || got.kind != KindPairingResponse || !bytes.Equal(got.payload, []byte("resp")) {
			t.Errorf("at A: got (%s, %s, %q)", got.from, got.kind, got.payload)
		}
	})

	t.Run("unknown destination", func(t *testing.T) {
		p := NewPipe("peerA", "peerB")
		defer p.Close()

		if err := p.EndA().Send("peerC", KindPairingRequest, nil); err == nil {
			t.Error("Send() to unknown peer succeeded, want error")
		}
	})

	t.Run("send after close", func(t *testing.T) {
		p := NewPipe("peerA", "peerB")
		p.Close()

		if err := p.EndA().Send("peerB", KindPairingRequest, nil); err != ErrClosed {
			t.Errorf("Send() error = %v, want ErrClosed", err)
		}
	})

	t.Run("invalid kind is dropped", func(t *testing.T) {
		p := NewPipe("peerA", "peerB")
		defer p.Close()

		var atB collector
		p.EndB().SetHandler(atB.handler)

		if err := p.EndA().Send("peerB", MessageKind(0x7F), []byte("junk")); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		if err := p.EndA().Send("peerB", KindPairingRequest, []byte("req")); err != nil {
			t.Fatalf("Send() error = %v", err)
		}

		// Only the valid message arrives; the ordered pipe guarantees the
		// junk frame was processed (and discarded) before it.
		got := atB.waitFor(t, 1)[0]
		if got.kind != KindPairingRequest || !bytes.Equal(got.payload, []byte("req")) {
			t.Errorf("at B: got (%s, %q)", got.kind, got.payload)
		}
	})

	t.Run("close returns while read loops are blocked", func(t *testing.T) {
		p := NewPipe("peerA", "peerB")

		var atB collector
		p.EndB().SetHandler(atB.handler)
		if err := p.EndA().Send("peerB", KindPairingRequest, []byte("req")); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		atB.waitFor(t, 1)

		done := make(chan error, 1)
		go func() { done <- p.Close() }()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Close() error = %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Close() did not return")
		}
	})

	t.Run("close is idempotent", func(t *testing.T) {
		p := NewPipe("peerA", "peerB")
		if err := p.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if err := p.Close(); err != nil {
			t.Errorf("second Close() error = %v", err)
		}
	})
}

func TestMessageKind(t *testing.T) {
	tests := []struct {
		kind  MessageKind
		name  string
		valid bool
	}{
		{KindPairingRequest, "PairingRequest", true},
		{KindPairingResponse, "PairingResponse", true},
		{KindPairingResult, "PairingResult", true},
		{MessageKind(0x00), "Unknown", false},
		{MessageKind(0x7F), "Unknown", false},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.name {
			t.Errorf("MessageKind(%#x).String() = %q, want %q", byte(tt.kind), got, tt.name)
		}
		if got := tt.kind.IsValid(); got != tt.valid {
			t.Errorf("MessageKind(%#x).IsValid() = %v, want %v", byte(tt.kind), got, tt.valid)
		}
	}
}
