// pair-demo runs the PIN pairing handshake between two in-process peers
// connected by an in-memory pipe.
//
// The initiator starts a pairing and "displays" its PIN on stdout; the
// responder's delegate plays the human and submits the code it was shown.
//
// Usage:
//
//	pair-demo [options]
//
// Options:
//
//	-wrong-first   submit a wrong PIN before the correct one
//	-verbose       enable debug logging
package main

import (
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pion/logging"

	"github.com/meshchat/pairing/pkg/pairing"
	"github.com/meshchat/pairing/pkg/transport"
)

const connectionAddress = transport.Address("AA:BB:CC:DD:EE:FF")

// human auto-answers PIN prompts the way a person reading the initiator's
// screen would.
type human struct {
	manager    *pairing.Manager
	pinCh      chan string
	readPIN    sync.Once
	pin        string
	wrongFirst bool
	done       chan bool
}

// pinToEnter waits for the initiator's screen to show the code.
func (h *human) pinToEnter() string {
	h.readPIN.Do(func() { h.pin = <-h.pinCh })
	return h.pin
}

func (h *human) PINRequired(req *pairing.Request, from transport.PeerID) {
	fmt.Printf("[responder] PIN requested by %s for session %s\n", from, req.SessionID)

	if h.wrongFirst {
		fmt.Println("[responder] entering a wrong code first")
		if err := h.manager.SubmitPIN(req.SessionID, "WRONG1"); err != nil {
			log.Fatalf("submit wrong PIN: %v", err)
		}
		h.wrongFirst = false
		// The retry happens when the failure result arrives.
		return
	}

	if err := h.manager.SubmitPIN(req.SessionID, h.pinToEnter()); err != nil {
		log.Fatalf("submit PIN: %v", err)
	}
}

func (h *human) PairingCompleted(sessionID string, peer transport.PeerID, success bool, errorMessage string) {
	if !success {
		fmt.Printf("[responder] rejected (%s), trying the real code\n", errorMessage)
		if err := h.manager.SubmitPIN(sessionID, h.pinToEnter()); err != nil {
			log.Fatalf("resubmit PIN: %v", err)
		}
		return
	}
	fmt.Printf("[responder] pairing with %s verified\n", peer)
	h.done <- true
}

// initiatorDelegate just reports events; validation happens in the manager.
type initiatorDelegate struct{}

func (initiatorDelegate) PINRequired(req *pairing.Request, from transport.PeerID) {}

func (initiatorDelegate) PairingCompleted(sessionID string, peer transport.PeerID, success bool, errorMessage string) {
	if success {
		fmt.Printf("[initiator] verified submission from %s\n", peer)
	} else {
		fmt.Printf("[initiator] rejected submission from %s: %s\n", peer, errorMessage)
	}
}

func main() {
	wrongFirst := flag.Bool("wrong-first", false, "submit a wrong PIN before the correct one")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	loggerFactory := logging.NewDefaultLoggerFactory()
	if *verbose {
		loggerFactory.DefaultLogLevel = logging.LogLevelDebug
	}

	pipe := transport.NewPipe("alice", "bob")
	defer pipe.Close()

	initiator, err := pairing.NewManager(pairing.ManagerConfig{
		LocalPeerID:   "alice",
		Sender:        pipe.EndA(),
		Delegate:      initiatorDelegate{},
		LoggerFactory: loggerFactory,
	})
	if err != nil {
		log.Fatalf("create initiator: %v", err)
	}

	responderHuman := &human{
		pinCh:      make(chan string, 1),
		wrongFirst: *wrongFirst,
		done:       make(chan bool, 1),
	}
	responder, err := pairing.NewManager(pairing.ManagerConfig{
		LocalPeerID:   "bob",
		Sender:        pipe.EndB(),
		Delegate:      responderHuman,
		LoggerFactory: loggerFactory,
	})
	if err != nil {
		log.Fatalf("create responder: %v", err)
	}
	responderHuman.manager = responder

	pipe.EndA().SetHandler(initiator.Handler())
	pipe.EndB().SetHandler(responder.Handler())

	sess, err := initiator.StartPairing(connectionAddress, "bob")
	if err != nil {
		log.Fatalf("start pairing: %v", err)
	}
	fmt.Printf("[initiator] displaying PIN: %s\n", sess.PIN)
	responderHuman.pinCh <- sess.PIN

	select {
	case <-responderHuman.done:
	case <-time.After(5 * time.Second):
		log.Fatal("pairing did not complete in time")
	}

	fmt.Printf("[initiator] status of bob: %s\n", initiator.Status("bob"))
	fmt.Printf("[initiator] status of alice: %s\n", initiator.Status("alice"))
}
