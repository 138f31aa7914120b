package wire

import (
	"fmt"
	"log/slog"

	"github.com/louis49/androidtv-remote/pkg/keycode"
	"google.golang.org/protobuf/encoding/protowire"
)

// RemotePayload is the tagged union of remote message variants.
type RemotePayload interface {
	body
	remoteField() protowire.Number
	validate() error
	kind() string
}

// RemoteMessage is the envelope for every message on the remote port. A nil
// Payload is an all-absent message.
type RemoteMessage struct {
	Payload RemotePayload
}

// NewRemoteMessage wraps p in an envelope.
func NewRemoteMessage(p RemotePayload) *RemoteMessage {
	return &RemoteMessage{Payload: p}
}

// Kind names the populated variant.
func (m *RemoteMessage) Kind() string {
	if m.Payload == nil {
		return "unknown"
	}
	return m.Payload.kind()
}

// Validate checks the message against the remote schema.
func (m *RemoteMessage) Validate() error {
	if m.Payload == nil {
		return nil
	}
	return m.Payload.validate()
}

// LogValue implements slog.LogValuer.
func (m *RemoteMessage) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("kind", m.Kind())}
	if m.Payload != nil {
		attrs = append(attrs, slog.String("payload", fmt.Sprintf("%+v", m.Payload)))
	}
	return slog.GroupValue(attrs...)
}

func (m *RemoteMessage) appendTo(b []byte) []byte {
	if m.Payload == nil {
		return b
	}
	return appendMessage(b, m.Payload.remoteField(), m.Payload)
}

func (m *RemoteMessage) unmarshal(b []byte) error {
	*m = RemoteMessage{}
	r := newFieldReader(b)
	for r.next() {
		p := newRemotePayload(r.num)
		if p == nil {
			r.skip()
			continue
		}
		r.message(p)
		m.Payload = p
	}
	return r.err
}

func newRemotePayload(num protowire.Number) RemotePayload {
	switch num {
	case 1:
		return &RemoteConfigure{}
	case 2:
		return &RemoteSetActive{}
	case 3:
		return &RemoteError{}
	case 8:
		return &RemotePingRequest{}
	case 9:
		return &RemotePingResponse{}
	case 10:
		return &RemoteKeyInject{}
	case 20:
		return &RemoteImeKeyInject{}
	case 21:
		return &RemoteImeBatchEdit{}
	case 22:
		return &RemoteImeShowRequest{}
	case 30:
		return &RemoteVoiceBegin{}
	case 31:
		return &RemoteVoicePayload{}
	case 32:
		return &RemoteVoiceEnd{}
	case 40:
		return &RemoteStart{}
	case 50:
		return &RemoteSetVolumeLevel{}
	case 51:
		return &RemoteAdjustVolumeLevel{}
	case 60:
		return &RemoteSetPreferredAudioDevice{}
	case 61:
		return &RemoteResetPreferredAudioDevice{}
	case 90:
		return &RemoteAppLinkLaunchRequest{}
	}
	return nil
}

// RemoteDeviceInfo describes this client to the device.
type RemoteDeviceInfo struct {
	Model       string
	Vendor      string
	Unknown1    int32
	Unknown2    string
	PackageName string
	AppVersion  string
}

func (d *RemoteDeviceInfo) validate() error {
	for _, f := range []struct{ name, v string }{
		{"model", d.Model}, {"vendor", d.Vendor}, {"unknown2", d.Unknown2},
		{"package_name", d.PackageName}, {"app_version", d.AppVersion},
	} {
		if err := checkString("device_info."+f.name, f.v); err != nil {
			return err
		}
	}
	return nil
}

func (d *RemoteDeviceInfo) appendTo(b []byte) []byte {
	b = appendString(b, 1, d.Model)
	b = appendString(b, 2, d.Vendor)
	b = appendInt32(b, 3, d.Unknown1)
	b = appendString(b, 4, d.Unknown2)
	b = appendString(b, 5, d.PackageName)
	return appendString(b, 6, d.AppVersion)
}

func (d *RemoteDeviceInfo) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			d.Model = r.string()
		case 2:
			d.Vendor = r.string()
		case 3:
			d.Unknown1 = r.int32()
		case 4:
			d.Unknown2 = r.string()
		case 5:
			d.PackageName = r.string()
		case 6:
			d.AppVersion = r.string()
		default:
			r.skip()
		}
	}
	return r.err
}

// RemoteConfigure is exchanged once at session start.
type RemoteConfigure struct {
	Code1      int32
	DeviceInfo *RemoteDeviceInfo
}

func (*RemoteConfigure) remoteField() protowire.Number { return 1 }
func (*RemoteConfigure) kind() string                  { return "remote_configure" }

func (p *RemoteConfigure) validate() error {
	if p.DeviceInfo != nil {
		return p.DeviceInfo.validate()
	}
	return nil
}

func (p *RemoteConfigure) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, p.Code1)
	if p.DeviceInfo != nil {
		b = appendMessage(b, 2, p.DeviceInfo)
	}
	return b
}

func (p *RemoteConfigure) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			p.Code1 = r.int32()
		case 2:
			p.DeviceInfo = &RemoteDeviceInfo{}
			r.message(p.DeviceInfo)
		default:
			r.skip()
		}
	}
	return r.err
}

// RemoteSetActive marks the session active.
type RemoteSetActive struct {
	Active int32
}

func (*RemoteSetActive) remoteField() protowire.Number { return 2 }
func (*RemoteSetActive) kind() string                  { return "remote_set_active" }
func (*RemoteSetActive) validate() error               { return nil }

func (p *RemoteSetActive) appendTo(b []byte) []byte { return appendInt32(b, 1, p.Active) }

func (p *RemoteSetActive) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		if r.num == 1 {
			p.Active = r.int32()
		} else {
			r.skip()
		}
	}
	return r.err
}

// RemoteError reports a device-side error, echoing the offending message.
type RemoteError struct {
	Value   bool
	Message *RemoteMessage
}

func (*RemoteError) remoteField() protowire.Number { return 3 }
func (*RemoteError) kind() string                  { return "remote_error" }

func (p *RemoteError) validate() error {
	if p.Message != nil {
		return p.Message.Validate()
	}
	return nil
}

func (p *RemoteError) appendTo(b []byte) []byte {
	b = appendBool(b, 1, p.Value)
	if p.Message != nil {
		b = appendMessage(b, 2, p.Message)
	}
	return b
}

func (p *RemoteError) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			p.Value = r.bool()
		case 2:
			p.Message = &RemoteMessage{}
			r.message(p.Message)
		default:
			r.skip()
		}
	}
	return r.err
}

// RemotePingRequest is the device's keepalive probe.
type RemotePingRequest struct {
	Val1 int32
	Val2 int32
}

func (*RemotePingRequest) remoteField() protowire.Number { return 8 }
func (*RemotePingRequest) kind() string                  { return "remote_ping_request" }
func (*RemotePingRequest) validate() error               { return nil }

func (p *RemotePingRequest) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, p.Val1)
	return appendInt32(b, 2, p.Val2)
}

func (p *RemotePingRequest) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			p.Val1 = r.int32()
		case 2:
			p.Val2 = r.int32()
		default:
			r.skip()
		}
	}
	return r.err
}

// RemotePingResponse answers a ping with its first value.
type RemotePingResponse struct {
	Val1 int32
}

func (*RemotePingResponse) remoteField() protowire.Number { return 9 }
func (*RemotePingResponse) kind() string                  { return "remote_ping_response" }
func (*RemotePingResponse) validate() error               { return nil }

func (p *RemotePingResponse) appendTo(b []byte) []byte { return appendInt32(b, 1, p.Val1) }

func (p *RemotePingResponse) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		if r.num == 1 {
			p.Val1 = r.int32()
		} else {
			r.skip()
		}
	}
	return r.err
}

// RemoteKeyInject presses a key.
type RemoteKeyInject struct {
	KeyCode   keycode.KeyCode
	Direction keycode.Direction
}

func (*RemoteKeyInject) remoteField() protowire.Number { return 10 }
func (*RemoteKeyInject) kind() string                  { return "remote_key_inject" }

func (p *RemoteKeyInject) validate() error {
	if !p.KeyCode.Valid() {
		return fmt.Errorf("%w: unknown key code %d", ErrSchemaViolation, p.KeyCode)
	}
	if !p.Direction.Valid() {
		return fmt.Errorf("%w: unknown direction %d", ErrSchemaViolation, p.Direction)
	}
	return nil
}

func (p *RemoteKeyInject) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, int32(p.KeyCode))
	return appendInt32(b, 2, int32(p.Direction))
}

func (p *RemoteKeyInject) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			p.KeyCode = keycode.KeyCode(r.int32())
		case 2:
			p.Direction = keycode.Direction(r.int32())
		default:
			r.skip()
		}
	}
	return r.err
}

// RemoteAppInfo identifies the foreground application.
type RemoteAppInfo struct {
	Counter    int32
	Int2       int32
	Int3       int32
	Int4       string
	Int7       int32
	Int8       int32
	Label      string
	AppPackage string
	Int13      int32
}

func (a *RemoteAppInfo) validate() error {
	for _, f := range []struct{ name, v string }{
		{"int4", a.Int4}, {"label", a.Label}, {"app_package", a.AppPackage},
	} {
		if err := checkString("app_info."+f.name, f.v); err != nil {
			return err
		}
	}
	return nil
}

func (a *RemoteAppInfo) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, a.Counter)
	b = appendInt32(b, 2, a.Int2)
	b = appendInt32(b, 3, a.Int3)
	b = appendString(b, 4, a.Int4)
	b = appendInt32(b, 7, a.Int7)
	b = appendInt32(b, 8, a.Int8)
	b = appendString(b, 10, a.Label)
	b = appendString(b, 12, a.AppPackage)
	return appendInt32(b, 13, a.Int13)
}

func (a *RemoteAppInfo) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			a.Counter = r.int32()
		case 2:
			a.Int2 = r.int32()
		case 3:
			a.Int3 = r.int32()
		case 4:
			a.Int4 = r.string()
		case 7:
			a.Int7 = r.int32()
		case 8:
			a.Int8 = r.int32()
		case 10:
			a.Label = r.string()
		case 12:
			a.AppPackage = r.string()
		case 13:
			a.Int13 = r.int32()
		default:
			r.skip()
		}
	}
	return r.err
}

// RemoteTextFieldStatus describes the focused text field.
type RemoteTextFieldStatus struct {
	CounterField int32
	Value        string
	Start        int32
	End          int32
	Int5         int32
	Label        string
}

func (s *RemoteTextFieldStatus) validate() error {
	if err := checkString("text_field_status.value", s.Value); err != nil {
		return err
	}
	return checkString("text_field_status.label", s.Label)
}

func (s *RemoteTextFieldStatus) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, s.CounterField)
	b = appendString(b, 2, s.Value)
	b = appendInt32(b, 3, s.Start)
	b = appendInt32(b, 4, s.End)
	b = appendInt32(b, 5, s.Int5)
	return appendString(b, 6, s.Label)
}

func (s *RemoteTextFieldStatus) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			s.CounterField = r.int32()
		case 2:
			s.Value = r.string()
		case 3:
			s.Start = r.int32()
		case 4:
			s.End = r.int32()
		case 5:
			s.Int5 = r.int32()
		case 6:
			s.Label = r.string()
		default:
			r.skip()
		}
	}
	return r.err
}

// RemoteImeKeyInject reports (inbound) or sets (outbound) IME state; the
// device sends it whenever the foreground app changes.
type RemoteImeKeyInject struct {
	AppInfo         *RemoteAppInfo
	TextFieldStatus *RemoteTextFieldStatus
}

func (*RemoteImeKeyInject) remoteField() protowire.Number { return 20 }
func (*RemoteImeKeyInject) kind() string                  { return "remote_ime_key_inject" }

func (p *RemoteImeKeyInject) validate() error {
	if p.AppInfo != nil {
		if err := p.AppInfo.validate(); err != nil {
			return err
		}
	}
	if p.TextFieldStatus != nil {
		return p.TextFieldStatus.validate()
	}
	return nil
}

func (p *RemoteImeKeyInject) appendTo(b []byte) []byte {
	if p.AppInfo != nil {
		b = appendMessage(b, 1, p.AppInfo)
	}
	if p.TextFieldStatus != nil {
		b = appendMessage(b, 2, p.TextFieldStatus)
	}
	return b
}

func (p *RemoteImeKeyInject) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			p.AppInfo = &RemoteAppInfo{}
			r.message(p.AppInfo)
		case 2:
			p.TextFieldStatus = &RemoteTextFieldStatus{}
			r.message(p.TextFieldStatus)
		default:
			r.skip()
		}
	}
	return r.err
}

// RemoteImeObject is a text span edit.
type RemoteImeObject struct {
	Start int32
	End   int32
	Value string
}

func (o *RemoteImeObject) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, o.Start)
	b = appendInt32(b, 2, o.End)
	return appendString(b, 3, o.Value)
}

func (o *RemoteImeObject) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			o.Start = r.int32()
		case 2:
			o.End = r.int32()
		case 3:
			o.Value = r.string()
		default:
			r.skip()
		}
	}
	return r.err
}

// RemoteEditInfo is one edit in a batch.
type RemoteEditInfo struct {
	Insert          int32
	TextFieldStatus *RemoteImeObject
}

func (e *RemoteEditInfo) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, e.Insert)
	if e.TextFieldStatus != nil {
		b = appendMessage(b, 2, e.TextFieldStatus)
	}
	return b
}

func (e *RemoteEditInfo) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			e.Insert = r.int32()
		case 2:
			e.TextFieldStatus = &RemoteImeObject{}
			r.message(e.TextFieldStatus)
		default:
			r.skip()
		}
	}
	return r.err
}

// RemoteImeBatchEdit carries text edits for the focused field.
type RemoteImeBatchEdit struct {
	ImeCounter   int32
	FieldCounter int32
	EditInfo     []RemoteEditInfo
}

func (*RemoteImeBatchEdit) remoteField() protowire.Number { return 21 }
func (*RemoteImeBatchEdit) kind() string                  { return "remote_ime_batch_edit" }

func (p *RemoteImeBatchEdit) validate() error {
	for i := range p.EditInfo {
		if s := p.EditInfo[i].TextFieldStatus; s != nil {
			if err := checkString("edit_info.value", s.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *RemoteImeBatchEdit) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, p.ImeCounter)
	b = appendInt32(b, 2, p.FieldCounter)
	for i := range p.EditInfo {
		b = appendMessage(b, 3, &p.EditInfo[i])
	}
	return b
}

func (p *RemoteImeBatchEdit) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			p.ImeCounter = r.int32()
		case 2:
			p.FieldCounter = r.int32()
		case 3:
			var e RemoteEditInfo
			r.message(&e)
			p.EditInfo = append(p.EditInfo, e)
		default:
			r.skip()
		}
	}
	return r.err
}

// RemoteImeShowRequest asks the client to show a keyboard.
type RemoteImeShowRequest struct {
	RemoteTextFieldStatus *RemoteTextFieldStatus
}

func (*RemoteImeShowRequest) remoteField() protowire.Number { return 22 }
func (*RemoteImeShowRequest) kind() string                  { return "remote_ime_show_request" }

func (p *RemoteImeShowRequest) validate() error {
	if p.RemoteTextFieldStatus != nil {
		return p.RemoteTextFieldStatus.validate()
	}
	return nil
}

func (p *RemoteImeShowRequest) appendTo(b []byte) []byte {
	if p.RemoteTextFieldStatus != nil {
		b = appendMessage(b, 2, p.RemoteTextFieldStatus)
	}
	return b
}

func (p *RemoteImeShowRequest) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		if r.num == 2 {
			p.RemoteTextFieldStatus = &RemoteTextFieldStatus{}
			r.message(p.RemoteTextFieldStatus)
		} else {
			r.skip()
		}
	}
	return r.err
}

// RemoteVoiceBegin opens a voice session.
type RemoteVoiceBegin struct {
	SessionID   int32
	PackageName string
}

func (*RemoteVoiceBegin) remoteField() protowire.Number { return 30 }
func (*RemoteVoiceBegin) kind() string                  { return "remote_voice_begin" }

func (p *RemoteVoiceBegin) validate() error {
	return checkString("voice_begin.package_name", p.PackageName)
}

func (p *RemoteVoiceBegin) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, p.SessionID)
	return appendString(b, 2, p.PackageName)
}

func (p *RemoteVoiceBegin) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			p.SessionID = r.int32()
		case 2:
			p.PackageName = r.string()
		default:
			r.skip()
		}
	}
	return r.err
}

// RemoteVoicePayload carries audio samples.
type RemoteVoicePayload struct {
	SessionID int32
	Samples   []byte
}

func (*RemoteVoicePayload) remoteField() protowire.Number { return 31 }
func (*RemoteVoicePayload) kind() string                  { return "remote_voice_payload" }
func (*RemoteVoicePayload) validate() error               { return nil }

func (p *RemoteVoicePayload) appendTo(b []byte) []byte {
	b = appendInt32(b, 1, p.SessionID)
	return appendBytes(b, 2, p.Samples)
}

func (p *RemoteVoicePayload) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			p.SessionID = r.int32()
		case 2:
			p.Samples = r.copyBytes()
		default:
			r.skip()
		}
	}
	return r.err
}

// RemoteVoiceEnd closes a voice session.
type RemoteVoiceEnd struct {
	SessionID int32
}

func (*RemoteVoiceEnd) remoteField() protowire.Number { return 32 }
func (*RemoteVoiceEnd) kind() string                  { return "remote_voice_end" }
func (*RemoteVoiceEnd) validate() error               { return nil }

func (p *RemoteVoiceEnd) appendTo(b []byte) []byte { return appendInt32(b, 1, p.SessionID) }

func (p *RemoteVoiceEnd) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		if r.num == 1 {
			p.SessionID = r.int32()
		} else {
			r.skip()
		}
	}
	return r.err
}

// RemoteStart reports the device's power state.
type RemoteStart struct {
	Started bool
}

func (*RemoteStart) remoteField() protowire.Number { return 40 }
func (*RemoteStart) kind() string                  { return "remote_start" }
func (*RemoteStart) validate() error               { return nil }

func (p *RemoteStart) appendTo(b []byte) []byte { return appendBool(b, 1, p.Started) }

func (p *RemoteStart) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		if r.num == 1 {
			p.Started = r.bool()
		} else {
			r.skip()
		}
	}
	return r.err
}

// RemoteSetVolumeLevel reports the device's volume.
type RemoteSetVolumeLevel struct {
	Unknown1    uint32
	Unknown2    uint32
	PlayerModel string
	Unknown4    uint32
	Unknown5    uint32
	VolumeMax   uint32
	VolumeLevel uint32
	VolumeMuted bool
}

func (*RemoteSetVolumeLevel) remoteField() protowire.Number { return 50 }
func (*RemoteSetVolumeLevel) kind() string                  { return "remote_set_volume_level" }

func (p *RemoteSetVolumeLevel) validate() error {
	return checkString("set_volume_level.player_model", p.PlayerModel)
}

func (p *RemoteSetVolumeLevel) appendTo(b []byte) []byte {
	b = appendUint32(b, 1, p.Unknown1)
	b = appendUint32(b, 2, p.Unknown2)
	b = appendString(b, 3, p.PlayerModel)
	b = appendUint32(b, 4, p.Unknown4)
	b = appendUint32(b, 5, p.Unknown5)
	b = appendUint32(b, 6, p.VolumeMax)
	b = appendUint32(b, 7, p.VolumeLevel)
	return appendBool(b, 8, p.VolumeMuted)
}

func (p *RemoteSetVolumeLevel) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			p.Unknown1 = r.uint32()
		case 2:
			p.Unknown2 = r.uint32()
		case 3:
			p.PlayerModel = r.string()
		case 4:
			p.Unknown4 = r.uint32()
		case 5:
			p.Unknown5 = r.uint32()
		case 6:
			p.VolumeMax = r.uint32()
		case 7:
			p.VolumeLevel = r.uint32()
		case 8:
			p.VolumeMuted = r.bool()
		default:
			r.skip()
		}
	}
	return r.err
}

func skipAll(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		r.skip()
	}
	return r.err
}

// RemoteAdjustVolumeLevel has no fields on the wire.
type RemoteAdjustVolumeLevel struct{}

func (*RemoteAdjustVolumeLevel) remoteField() protowire.Number { return 51 }
func (*RemoteAdjustVolumeLevel) kind() string                  { return "remote_adjust_volume_level" }
func (*RemoteAdjustVolumeLevel) validate() error               { return nil }
func (*RemoteAdjustVolumeLevel) appendTo(b []byte) []byte      { return b }
func (*RemoteAdjustVolumeLevel) unmarshal(b []byte) error      { return skipAll(b) }

// RemoteSetPreferredAudioDevice has no fields on the wire.
type RemoteSetPreferredAudioDevice struct{}

func (*RemoteSetPreferredAudioDevice) remoteField() protowire.Number { return 60 }
func (*RemoteSetPreferredAudioDevice) kind() string                  { return "remote_set_preferred_audio_device" }
func (*RemoteSetPreferredAudioDevice) validate() error               { return nil }
func (*RemoteSetPreferredAudioDevice) appendTo(b []byte) []byte      { return b }
func (*RemoteSetPreferredAudioDevice) unmarshal(b []byte) error      { return skipAll(b) }

// RemoteResetPreferredAudioDevice has no fields on the wire.
type RemoteResetPreferredAudioDevice struct{}

func (*RemoteResetPreferredAudioDevice) remoteField() protowire.Number { return 61 }
func (*RemoteResetPreferredAudioDevice) kind() string                  { return "remote_reset_preferred_audio_device" }
func (*RemoteResetPreferredAudioDevice) validate() error               { return nil }
func (*RemoteResetPreferredAudioDevice) appendTo(b []byte) []byte      { return b }
func (*RemoteResetPreferredAudioDevice) unmarshal(b []byte) error      { return skipAll(b) }

// RemoteAppLinkLaunchRequest opens a deep link on the device.
type RemoteAppLinkLaunchRequest struct {
	AppLink string
}

func (*RemoteAppLinkLaunchRequest) remoteField() protowire.Number { return 90 }
func (*RemoteAppLinkLaunchRequest) kind() string                  { return "remote_app_link_launch_request" }

func (p *RemoteAppLinkLaunchRequest) validate() error {
	return checkString("app_link_launch_request.app_link", p.AppLink)
}

func (p *RemoteAppLinkLaunchRequest) appendTo(b []byte) []byte {
	return appendString(b, 1, p.AppLink)
}

func (p *RemoteAppLinkLaunchRequest) unmarshal(b []byte) error {
	r := newFieldReader(b)
	for r.next() {
		if r.num == 1 {
			p.AppLink = r.string()
		} else {
			r.skip()
		}
	}
	return r.err
}
