package wire

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/louis49/androidtv-remote/pkg/keycode"
	"google.golang.org/protobuf/encoding/protowire"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

type countingObserver struct {
	sent, received []string
}

func (o *countingObserver) FrameSent(schema, kind string) {
	o.sent = append(o.sent, schema+"/"+kind)
}

func (o *countingObserver) FrameReceived(schema, kind string) {
	o.received = append(o.received, schema+"/"+kind)
}

func TestEncode_PairingRequestBytes(t *testing.T) {
	t.Parallel()

	c := NewPairingCodec(quietLogger(), nil)
	got, err := c.Encode(NewPairingMessage(&PairingRequest{ServiceName: "svc", ClientName: "cli"}))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := []byte{
		0x11,       // frame length 17
		0x08, 0x02, // protocol_version = 2
		0x10, 0xC8, 0x01, // status = 200
		0x52, 0x0A, // pairing_request, 10 bytes
		0x0A, 0x03, 's', 'v', 'c',
		0x12, 0x03, 'c', 'l', 'i',
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = % x\nwant     % x", got, want)
	}
}

func TestEncode_PingBytes(t *testing.T) {
	t.Parallel()

	c := NewRemoteCodec(quietLogger(), nil)
	got, err := c.Encode(NewRemoteMessage(&RemotePingResponse{Val1: 5}))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0x04, 0x4A, 0x02, 0x08, 0x05}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = % x, want % x", got, want)
	}
}

func TestPairingRoundTrip(t *testing.T) {
	t.Parallel()

	hex6 := PairingEncoding{Type: EncodingHexadecimal, SymbolLength: 6}
	payloads := []PairingPayload{
		&PairingRequest{ServiceName: "Service Name", ClientName: "Model"},
		&PairingRequestAck{ServerName: "Living Room TV"},
		&PairingOption{
			InputEncodings:  []PairingEncoding{hex6},
			OutputEncodings: []PairingEncoding{{Type: EncodingNumeric, SymbolLength: 4}},
			PreferredRole:   RoleInput,
		},
		&PairingConfiguration{Encoding: &hex6, ClientRole: RoleInput},
		&PairingConfigurationAck{},
		&PairingSecret{Secret: bytes.Repeat([]byte{0xA5}, 32)},
		&PairingSecretAck{Secret: []byte{1, 2, 3}},
		nil,
	}

	c := NewPairingCodec(quietLogger(), nil)
	for _, p := range payloads {
		in := NewPairingMessage(p)
		frame, err := c.Encode(in)
		if err != nil {
			t.Fatalf("Encode(%s): %v", in.Kind(), err)
		}

		var out PairingMessage
		n, err := c.Decode(frame, &out)
		if err != nil {
			t.Fatalf("Decode(%s): %v", in.Kind(), err)
		}
		if n != len(frame) {
			t.Errorf("%s: consumed %d of %d bytes", in.Kind(), n, len(frame))
		}
		if diff := cmp.Diff(in, &out, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%s round trip mismatch (-want +got):\n%s", in.Kind(), diff)
		}
	}
}

func TestRemoteRoundTrip(t *testing.T) {
	t.Parallel()

	status := &RemoteTextFieldStatus{CounterField: 3, Value: "héllo", Start: 1, End: 4, Int5: 1, Label: "Search"}
	payloads := []RemotePayload{
		&RemoteConfigure{Code1: 622, DeviceInfo: &RemoteDeviceInfo{
			Model: "ThinkPad", Vendor: "Lenovo", Unknown1: 1, Unknown2: "1",
			PackageName: "androidtv-remote", AppVersion: "1.0.0",
		}},
		&RemoteSetActive{Active: 622},
		&RemoteError{Value: true, Message: NewRemoteMessage(&RemoteKeyInject{KeyCode: keycode.Home, Direction: keycode.DirectionShort})},
		&RemotePingRequest{Val1: 12, Val2: -1},
		&RemotePingResponse{Val1: 12},
		&RemoteKeyInject{KeyCode: keycode.Power, Direction: keycode.DirectionShort},
		&RemoteImeKeyInject{
			AppInfo:         &RemoteAppInfo{Counter: 1, Int2: 2, Int3: 3, Int4: "4", Int7: 7, Int8: 8, Label: "YouTube", AppPackage: "com.google.android.youtube.tv", Int13: 13},
			TextFieldStatus: status,
		},
		&RemoteImeBatchEdit{ImeCounter: 1, FieldCounter: 2, EditInfo: []RemoteEditInfo{
			{Insert: 1, TextFieldStatus: &RemoteImeObject{Start: 0, End: 2, Value: "ab"}},
			{Insert: 0},
		}},
		&RemoteImeShowRequest{RemoteTextFieldStatus: status},
		&RemoteVoiceBegin{SessionID: 9, PackageName: "com.example"},
		&RemoteVoicePayload{SessionID: 9, Samples: []byte{0, 1, 2, 3}},
		&RemoteVoiceEnd{SessionID: 9},
		&RemoteStart{Started: true},
		&RemoteSetVolumeLevel{Unknown1: 1, PlayerModel: "speaker", VolumeMax: 100, VolumeLevel: 42, VolumeMuted: true},
		&RemoteAdjustVolumeLevel{},
		&RemoteSetPreferredAudioDevice{},
		&RemoteResetPreferredAudioDevice{},
		&RemoteAppLinkLaunchRequest{AppLink: "https://www.netflix.com/title"},
		nil,
	}

	obs := &countingObserver{}
	c := NewRemoteCodec(quietLogger(), obs)
	for _, p := range payloads {
		in := NewRemoteMessage(p)
		frame, err := c.Encode(in)
		if err != nil {
			t.Fatalf("Encode(%s): %v", in.Kind(), err)
		}

		var out RemoteMessage
		if _, err := c.Decode(frame, &out); err != nil {
			t.Fatalf("Decode(%s): %v", in.Kind(), err)
		}
		if diff := cmp.Diff(in, &out, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%s round trip mismatch (-want +got):\n%s", in.Kind(), diff)
		}
	}

	if len(obs.sent) != len(payloads) || len(obs.received) != len(payloads) {
		t.Errorf("observer saw %d sent / %d received, want %d each", len(obs.sent), len(obs.received), len(payloads))
	}
	if obs.sent[0] != "remote/remote_configure" {
		t.Errorf("first observed frame = %q, want remote/remote_configure", obs.sent[0])
	}
}

func TestEncode_SchemaViolation(t *testing.T) {
	t.Parallel()

	pairing := NewPairingCodec(quietLogger(), nil)
	remote := NewRemoteCodec(quietLogger(), nil)

	tests := []struct {
		name  string
		codec *Codec
		msg   Message
	}{
		{"unknown status", pairing, &PairingMessage{ProtocolVersion: 2, Status: 201}},
		{"unknown role", pairing, NewPairingMessage(&PairingOption{PreferredRole: 7})},
		{"unknown encoding", pairing, NewPairingMessage(&PairingConfiguration{Encoding: &PairingEncoding{Type: 9}, ClientRole: RoleInput})},
		{"invalid utf8", pairing, NewPairingMessage(&PairingRequest{ServiceName: "\xff\xfe"})},
		{"unknown key code", remote, NewRemoteMessage(&RemoteKeyInject{KeyCode: 5000, Direction: keycode.DirectionShort})},
		{"unknown direction", remote, NewRemoteMessage(&RemoteKeyInject{KeyCode: keycode.Home, Direction: 8})},
		{"nested violation", remote, NewRemoteMessage(&RemoteError{Message: NewRemoteMessage(&RemoteKeyInject{KeyCode: -3})})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.codec.Encode(tt.msg)
			if !errors.Is(err, ErrSchemaViolation) {
				t.Fatalf("Encode error = %v, want ErrSchemaViolation", err)
			}
		})
	}
}

func TestDecode_SkipsUnknownFields(t *testing.T) {
	t.Parallel()

	var payload []byte
	payload = protowire.AppendTag(payload, 99, protowire.VarintType)
	payload = protowire.AppendVarint(payload, 7)
	payload = protowire.AppendTag(payload, 40, protowire.BytesType)
	payload = protowire.AppendBytes(payload, []byte{0x08, 0x01})
	payload = protowire.AppendTag(payload, 100, protowire.BytesType)
	payload = protowire.AppendString(payload, "future")

	var m RemoteMessage
	c := NewRemoteCodec(quietLogger(), nil)
	if _, err := c.Decode(AppendFrame(nil, payload), &m); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	start, ok := m.Payload.(*RemoteStart)
	if !ok {
		t.Fatalf("payload = %T, want *RemoteStart", m.Payload)
	}
	if !start.Started {
		t.Error("Started = false, want true")
	}
}

func TestDecode_Corrupt(t *testing.T) {
	t.Parallel()

	wrongType := protowire.AppendTag(nil, 40, protowire.VarintType)
	wrongType = protowire.AppendVarint(wrongType, 1)

	truncated := protowire.AppendTag(nil, 10, protowire.BytesType)
	truncated = protowire.AppendVarint(truncated, 20)
	truncated = append(truncated, 0x08)

	tests := []struct {
		name    string
		payload []byte
	}{
		{"variant with varint wire type", wrongType},
		{"nested length past end", truncated},
		{"bare tag", []byte{0x08}},
		{"invalid field number", []byte{0x00}},
	}

	c := NewRemoteCodec(quietLogger(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var m RemoteMessage
			_, err := c.Decode(AppendFrame(nil, tt.payload), &m)
			if !errors.Is(err, ErrFrameCorrupt) {
				t.Fatalf("Decode error = %v, want ErrFrameCorrupt", err)
			}
		})
	}
}

func TestDecode_Incomplete(t *testing.T) {
	t.Parallel()

	c := NewPairingCodec(quietLogger(), nil)
	frame, err := c.Encode(NewPairingMessage(&PairingRequestAck{ServerName: "tv"}))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var m PairingMessage
	if _, err := c.Decode(frame[:len(frame)-1], &m); !errors.Is(err, ErrIncompleteFrame) {
		t.Fatalf("Decode error = %v, want ErrIncompleteFrame", err)
	}
}

func TestDecode_AllAbsentIsUnknown(t *testing.T) {
	t.Parallel()

	var m RemoteMessage
	c := NewRemoteCodec(quietLogger(), nil)
	if _, err := c.Decode([]byte{0x00}, &m); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Payload != nil || m.Kind() != "unknown" {
		t.Errorf("Kind() = %q, want unknown", m.Kind())
	}
}

func TestCodec_LogRedaction(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	pairing := NewPairingCodec(logger, nil)
	if _, err := pairing.Encode(NewPairingMessage(&PairingSecret{Secret: []byte("topsecretdigest")})); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	remote := NewRemoteCodec(logger, nil)
	if _, err := remote.Encode(NewRemoteMessage(&RemotePingResponse{Val1: 77})); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := remote.Encode(NewRemoteMessage(&RemoteKeyInject{KeyCode: keycode.Home, Direction: keycode.DirectionShort})); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "topsecretdigest") || strings.Contains(out, "746f70") {
		t.Errorf("secret leaked into log: %s", out)
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Errorf("expected redaction marker in log: %s", out)
	}
	if strings.Contains(out, "remote_ping_response") {
		t.Errorf("ping payload should not be logged: %s", out)
	}
	if !strings.Contains(out, "remote_key_inject") {
		t.Errorf("key inject should be logged: %s", out)
	}
}
