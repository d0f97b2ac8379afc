package pairing

import (
	"github.com/meshchat/pairing/pkg/tlv"
)

// TLV context tags for pairing messages.
//
// Tags are message-local: each message type defines its own mapping. Tag
// 0x01 carries the session ID in all three messages by convention, but that
// is not shared state across message types. All fixed-width integers on the
// wire are little-endian.
const (
	// PairingRequest tags
	tagRequestSessionID       = 0x01
	tagRequestInitiatorPeerID = 0x02
	tagRequestTimestamp       = 0x03

	// PairingResponse tags
	tagResponseSessionID       = 0x01
	tagResponseEnteredPIN      = 0x02
	tagResponseResponderPeerID = 0x03

	// PairingResult tags
	tagResultSessionID    = 0x01
	tagResultSuccess      = 0x02
	tagResultErrorMessage = 0x03
)

// Request announces a new pairing session to the responder.
// It carries no secret; the PIN travels out of band.
type Request struct {
	SessionID       string
	InitiatorPeerID string

	// Timestamp is the session creation time in Unix milliseconds,
	// encoded as a fixed 8-byte field.
	Timestamp int64
}

// Encode serializes the Request to TLV bytes.
func (r *Request) Encode() ([]byte, error) {
	w := tlv.NewWriter()
	w.PutString(tagRequestSessionID, r.SessionID)
	w.PutString(tagRequestInitiatorPeerID, r.InitiatorPeerID)
	w.PutUint64(tagRequestTimestamp, uint64(r.Timestamp))
	return w.Bytes()
}

// DecodeRequest parses a Request from TLV bytes.
// Every tag is mandatory; the timestamp must be exactly 8 bytes.
func DecodeRequest(data []byte) (*Request, error) {
	fields, err := tlv.Parse(data)
	if err != nil {
		return nil, err
	}

	r := &Request{}
	if r.SessionID, err = fields.String(tagRequestSessionID); err != nil {
		return nil, err
	}
	if r.InitiatorPeerID, err = fields.String(tagRequestInitiatorPeerID); err != nil {
		return nil, err
	}
	ts, err := fields.Uint64(tagRequestTimestamp)
	if err != nil {
		return nil, err
	}
	r.Timestamp = int64(ts)

	return r, nil
}

// Response carries the responder's PIN entry back to the initiator.
type Response struct {
	SessionID       string
	EnteredPIN      string
	ResponderPeerID string
}

// Encode serializes the Response to TLV bytes.
func (r *Response) Encode() ([]byte, error) {
	w := tlv.NewWriter()
	w.PutString(tagResponseSessionID, r.SessionID)
	w.PutString(tagResponseEnteredPIN, r.EnteredPIN)
	w.PutString(tagResponseResponderPeerID, r.ResponderPeerID)
	return w.Bytes()
}

// DecodeResponse parses a Response from TLV bytes.
// Every tag is mandatory.
func DecodeResponse(data []byte) (*Response, error) {
	fields, err := tlv.Parse(data)
	if err != nil {
		return nil, err
	}

	r := &Response{}
	if r.SessionID, err = fields.String(tagResponseSessionID); err != nil {
		return nil, err
	}
	if r.EnteredPIN, err = fields.String(tagResponseEnteredPIN); err != nil {
		return nil, err
	}
	if r.ResponderPeerID, err = fields.String(tagResponseResponderPeerID); err != nil {
		return nil, err
	}

	return r, nil
}

// Result reports the initiator's validation verdict.
type Result struct {
	SessionID string
	Success   bool

	// ErrorMessage is present only on failure. nil means the field was
	// absent on the wire, which is distinct from an empty string.
	ErrorMessage *string
}

// NewSuccessResult creates a Result reporting a verified pairing.
func NewSuccessResult(sessionID string) *Result {
	return &Result{SessionID: sessionID, Success: true}
}

// NewFailureResult creates a Result reporting a rejected submission.
func NewFailureResult(sessionID, errorMessage string) *Result {
	return &Result{SessionID: sessionID, ErrorMessage: &errorMessage}
}

// Encode serializes the Result to TLV bytes. The error message record is
// emitted only when present.
func (r *Result) Encode() ([]byte, error) {
	w := tlv.NewWriter()
	w.PutString(tagResultSessionID, r.SessionID)
	if r.Success {
		w.PutByte(tagResultSuccess, 1)
	} else {
		w.PutByte(tagResultSuccess, 0)
	}
	if r.ErrorMessage != nil {
		w.PutString(tagResultErrorMessage, *r.ErrorMessage)
	}
	return w.Bytes()
}

// DecodeResult parses a Result from TLV bytes.
//
// Session ID and success are mandatory; the success field must be exactly
// one byte, any nonzero value meaning true. A missing error message record
// decodes to nil.
func DecodeResult(data []byte) (*Result, error) {
	fields, err := tlv.Parse(data)
	if err != nil {
		return nil, err
	}

	r := &Result{}
	if r.SessionID, err = fields.String(tagResultSessionID); err != nil {
		return nil, err
	}
	success, err := fields.Byte(tagResultSuccess)
	if err != nil {
		return nil, err
	}
	r.Success = success != 0

	if fields.Has(tagResultErrorMessage) {
		msg, err := fields.String(tagResultErrorMessage)
		if err != nil {
			return nil, err
		}
		r.ErrorMessage = &msg
	}

	return r, nil
}
