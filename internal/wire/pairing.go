package wire

import (
	"fmt"
	"log/slog"

	"google.golang.org/protobuf/encoding/protowire"
)

// ProtocolVersion is stamped on every outbound pairing message.
const ProtocolVersion = 2

// PairingStatus is the status code carried by every pairing message.
type PairingStatus int32

// Pairing statuses.
const (
	StatusUnknown          PairingStatus = 0
	StatusOK               PairingStatus = 200
	StatusError            PairingStatus = 400
	StatusBadConfiguration PairingStatus = 401
	StatusBadSecret        PairingStatus = 402
)

func (s PairingStatus) valid() bool {
	switch s {
	case StatusUnknown, StatusOK, StatusError, StatusBadConfiguration, StatusBadSecret:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (s PairingStatus) String() string {
	switch s {
	case StatusOK:
		return "STATUS_OK"
	case StatusError:
		return "STATUS_ERROR"
	case StatusBadConfiguration:
		return "STATUS_BAD_CONFIGURATION"
	case StatusBadSecret:
		return "STATUS_BAD_SECRET"
	case StatusUnknown:
		return "UNKNOWN"
	}
	return fmt.Sprintf("STATUS(%d)", int32(s))
}

// RoleType is a pairing participant role.
type RoleType int32

// Roles.
const (
	RoleUnknown RoleType = 0
	RoleInput   RoleType = 1
	RoleOutput  RoleType = 2
)

func (r RoleType) valid() bool { return r >= RoleUnknown && r <= RoleOutput }

// EncodingType is the alphabet the pairing code is displayed in.
type EncodingType int32

// Encoding types.
const (
	EncodingUnknown      EncodingType = 0
	EncodingAlphanumeric EncodingType = 1
	EncodingNumeric      EncodingType = 2
	EncodingHexadecimal  EncodingType = 3
	EncodingQRCode       EncodingType = 4
)

func (e EncodingType) valid() bool { return e >= EncodingUnknown && e <= EncodingQRCode }

// PairingPayload is the tagged union of pairing message variants.
type PairingPayload interface {
	body
	pairingField() protowire.Number
	validate() error
	kind() string
}

// PairingMessage is the envelope for every message on the pairing port.
// A nil Payload is an all-absent message.
type PairingMessage struct {
	ProtocolVersion int32
	Status          PairingStatus
	Payload         PairingPayload
}

// NewPairingMessage wraps p in an OK envelope with the current protocol
// version.
func NewPairingMessage(p PairingPayload) *PairingMessage {
	return &PairingMessage{ProtocolVersion: ProtocolVersion, Status: StatusOK, Payload: p}
}

// Kind names the populated variant.
func (m *PairingMessage) Kind() string {
	if m.Payload == nil {
		return "unknown"
	}
	return m.Payload.kind()
}

// Validate checks the message against the pairing schema.
func (m *PairingMessage) Validate() error {
	if !m.Status.valid() {
		return fmt.Errorf("%w: unknown pairing status %d", ErrSchemaViolation, m.Status)
	}
	if m.Payload == nil {
		return nil
	}
	return m.Payload.validate()
}

// LogValue implements slog.LogValuer. The pairing secret is never logged.
func (m *PairingMessage) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", m.Kind()),
		slog.String("status", m.Status.String()),
	}
	switch p := m.Payload.(type) {
	case nil:
	case *PairingSecret, *PairingSecretAck:
		attrs = append(attrs, slog.String("payload", "[REDACTED]"))
	default:
		attrs = append(attrs, slog.String("payload", fmt.Sprintf("%+v", p)))
	}
	return slog.GroupValue(attrs...)
}

func (m *PairingMessage) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, m.ProtocolVersion)
	b = appendInt32(b, 2, int32(m.Status))
	if m.Payload != nil {
		b = appendMessage(b, m.Payload.pairingField(), m.Payload)
	}
	return b
}

func (m *PairingMessage) unmarshal(b []byte) error {
	*m = PairingMessage{}
	r := newFieldReader(b)
	for r.next() {
		var p PairingPayload
		switch r.num {
		case 1:
			m.ProtocolVersion = r.int32()
		case 2:
			m.Status = PairingStatus(r.int32())
		case 10:
			p = &PairingRequest{}
		case 11:
			p = &PairingRequestAck{}
		case 20:
			p = &PairingOption{}
		case 30:
			p = &PairingConfiguration{}
		case 31:
			p = &PairingConfigurationAck{}
		case 40:
			p = &PairingSecret{}
		case 41:
			p = &PairingSecretAck{}
		default:
			r.skip()
		}
		if p != nil {
			r.message(p)
			m.Payload = p
		}
	}
	return r.err
}

// PairingRequest opens the handshake.
type PairingRequest struct {
	ServiceName string
	ClientName  string
}

func (*PairingRequest) pairingField() protowire.Number { return 10 }
func (*PairingRequest) kind() string                   { return "pairing_request" }

func (p *PairingRequest) validate() error {
	if err := checkString("pairing_request.service_name", p.ServiceName); err != nil {
		return err
	}
	return checkString("pairing_request.client_name", p.ClientName)
}

func (p *PairingRequest) appendTo(b []byte) []byte {
	b = appendString(b, 1, p.ServiceName)
	return appendString(b, 2, p.ClientName)
}

func (p *PairingRequest) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			p.ServiceName = r.string()
		case 2:
			p.ClientName = r.string()
		default:
			r.skip()
		}
	}
	return r.err
}

// PairingRequestAck acknowledges a PairingRequest.
type PairingRequestAck struct {
	ServerName string
}

func (*PairingRequestAck) pairingField() protowire.Number { return 11 }
func (*PairingRequestAck) kind() string                   { return "pairing_request_ack" }

func (p *PairingRequestAck) validate() error {
	return checkString("pairing_request_ack.server_name", p.ServerName)
}

func (p *PairingRequestAck) appendTo(b []byte) []byte {
	return appendString(b, 1, p.ServerName)
}

func (p *PairingRequestAck) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		if r.num == 1 {
			p.ServerName = r.string()
		} else {
			r.skip()
		}
	}
	return r.err
}

// PairingEncoding describes how the pairing code is shown.
type PairingEncoding struct {
	Type         EncodingType
	SymbolLength uint32
}

func (e *PairingEncoding) validate() error {
	if !e.Type.valid() {
		return fmt.Errorf("%w: unknown encoding type %d", ErrSchemaViolation, e.Type)
	}
	return nil
}

func (e *PairingEncoding) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, int32(e.Type))
	return appendUint32(b, 2, e.SymbolLength)
}

func (e *PairingEncoding) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			e.Type = EncodingType(r.int32())
		case 2:
			e.SymbolLength = r.uint32()
		default:
			r.skip()
		}
	}
	return r.err
}

// PairingOption advertises supported encodings and the preferred role.
type PairingOption struct {
	InputEncodings  []PairingEncoding
	OutputEncodings []PairingEncoding
	PreferredRole   RoleType
}

func (*PairingOption) pairingField() protowire.Number { return 20 }
func (*PairingOption) kind() string                   { return "pairing_option" }

func (p *PairingOption) validate() error {
	if !p.PreferredRole.valid() {
		return fmt.Errorf("%w: unknown role %d", ErrSchemaViolation, p.PreferredRole)
	}
	for i := range p.InputEncodings {
		if err := p.InputEncodings[i].validate(); err != nil {
			return err
		}
	}
	for i := range p.OutputEncodings {
		if err := p.OutputEncodings[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

func (p *PairingOption) appendTo(b []byte) []byte {
	for i := range p.InputEncodings {
		b = appendMessage(b, 1, &p.InputEncodings[i])
	}
	for i := range p.OutputEncodings {
		b = appendMessage(b, 2, &p.OutputEncodings[i])
	}
	return appendInt32(b, 3, int32(p.PreferredRole))
}

func (p *PairingOption) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			var e PairingEncoding
			r.message(&e)
			p.InputEncodings = append(p.InputEncodings, e)
		case 2:
			var e PairingEncoding
			r.message(&e)
			p.OutputEncodings = append(p.OutputEncodings, e)
		case 3:
			p.PreferredRole = RoleType(r.int32())
		default:
			r.skip()
		}
	}
	return r.err
}

// PairingConfiguration fixes the encoding and this client's role.
type PairingConfiguration struct {
	Encoding   *PairingEncoding
	ClientRole RoleType
}

func (*PairingConfiguration) pairingField() protowire.Number { return 30 }
func (*PairingConfiguration) kind() string                   { return "pairing_configuration" }

func (p *PairingConfiguration) validate() error {
	if !p.ClientRole.valid() {
		return fmt.Errorf("%w: unknown role %d", ErrSchemaViolation, p.ClientRole)
	}
	if p.Encoding != nil {
		return p.Encoding.validate()
	}
	return nil
}

func (p *PairingConfiguration) appendTo(b []byte) []byte {
	if p.Encoding != nil {
		b = appendMessage(b, 1, p.Encoding)
	}
	return appendInt32(b, 2, int32(p.ClientRole))
}

func (p *PairingConfiguration) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			p.Encoding = &PairingEncoding{}
			r.message(p.Encoding)
		case 2:
			p.ClientRole = RoleType(r.int32())
		default:
			r.skip()
		}
	}
	return r.err
}

// PairingConfigurationAck acknowledges the configuration; the device now
// displays the code.
type PairingConfigurationAck struct{}

func (*PairingConfigurationAck) pairingField() protowire.Number { return 31 }
func (*PairingConfigurationAck) kind() string                   { return "pairing_configuration_ack" }
func (*PairingConfigurationAck) validate() error                { return nil }
func (*PairingConfigurationAck) appendTo(b []byte) []byte       { return b }
func (*PairingConfigurationAck) unmarshal(b []byte) error       { return skipAll(b) }

// PairingSecret carries the digest proving the user read the code.
type PairingSecret struct {
	Secret []byte
}

func (*PairingSecret) pairingField() protowire.Number { return 40 }
func (*PairingSecret) kind() string                   { return "pairing_secret" }
func (*PairingSecret) validate() error                { return nil }

func (p *PairingSecret) appendTo(b []byte) []byte {
	return appendBytes(b, 1, p.Secret)
}

func (p *PairingSecret) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		if r.num == 1 {
			p.Secret = r.copyBytes()
		} else {
			r.skip()
		}
	}
	return r.err
}

// PairingSecretAck completes pairing.
type PairingSecretAck struct {
	Secret []byte
}

func (*PairingSecretAck) pairingField() protowire.Number { return 41 }
func (*PairingSecretAck) kind() string                   { return "pairing_secret_ack" }
func (*PairingSecretAck) validate() error                { return nil }

func (p *PairingSecretAck) appendTo(b []byte) []byte {
	return appendBytes(b, 1, p.Secret)
}

func (p *PairingSecretAck) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		if r.num == 1 {
			p.Secret = r.copyBytes()
		} else {
			r.skip()
		}
	}
	return r.err
}
