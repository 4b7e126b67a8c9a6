package domain

import "encoding/json"

// Validation failure reasons.
const (
	ReasonMalformed   = "malformed"
	ReasonMissingType = "missing-type"
)

// ValidationError describes a rejected inbound frame. It is always
// recoverable: the caller answers with an error envelope and keeps the
// connection open.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonMissingType:
		return `invalid message structure: "type" is required`
	default:
		return "malformed message: expected a JSON object"
	}
}

// Envelope is the validated unit of inbound message content. It is only
// ever constructed by DecodeEnvelope.
type Envelope struct {
	Type    string
	Payload json.RawMessage
}

// DecodeEnvelope parses a raw frame into an Envelope. The frame must be a
// JSON object with a string "type" field; anything else fails with a
// *ValidationError carrying ReasonMalformed (unparseable, or not an object)
// or ReasonMissingType (no "type", or "type" not a string). Decoding is
// pure and never panics on untrusted input.
func DecodeEnvelope(raw []byte) (*Envelope, error) {
	var fields struct {
		Type    json.RawMessage `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &ValidationError{Reason: ReasonMalformed}
	}
	if len(fields.Type) == 0 {
		return nil, &ValidationError{Reason: ReasonMissingType}
	}

	var typ string
	if err := json.Unmarshal(fields.Type, &typ); err != nil {
		return nil, &ValidationError{Reason: ReasonMissingType}
	}

	return &Envelope{Type: typ, Payload: fields.Payload}, nil
}

// PayloadText renders the payload for echoing back to the peer: string
// payloads are returned verbatim, anything else as its compact JSON text,
// and an absent payload as the empty string.
func (e *Envelope) PayloadText() string {
	if len(e.Payload) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Payload, &s); err == nil {
		return s
	}
	return string(e.Payload)
}

// Bind unmarshals the payload into a typed message shape.
func (e *Envelope) Bind(v interface{}) error {
	if len(e.Payload) == 0 {
		return &ValidationError{Reason: ReasonMalformed}
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return &ValidationError{Reason: ReasonMalformed}
	}
	return nil
}
