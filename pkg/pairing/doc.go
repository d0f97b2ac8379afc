// Package pairing implements the out-of-band PIN pairing handshake used to
// establish mutual trust between two peers before they exchange chat
// content.
//
// The flow between an initiator and a responder:
//
//  1. The initiator creates a session, displays the generated PIN to a
//     human, and sends a PairingRequest announcing the session.
//  2. The responder obtains the PIN out of band (spoken, shown on screen),
//     collects it from its human, and sends it back in a PairingResponse.
//  3. The initiator validates the submission against the session store and
//     answers with a PairingResult; on success both sides treat the peer as
//     verified.
//
// The PIN itself never travels over the wire in the request: the only copy
// on the wire is the responder's entry, and validating it is the whole
// point of the exchange. Transport delivery, link reliability, and the chat
// pipeline that gates on verification status are collaborators outside this
// package.
package pairing
