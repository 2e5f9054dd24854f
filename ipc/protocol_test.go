package ipc

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	env, err := NewEnvelope(TypeCompile, CompileRequest{FactionID: "principality", VariantID: "penitents"})
	if err != nil {
		t.Fatal(err)
	}
	env.ID = "42"

	var buf bytes.Buffer
	if err := WriteEnvelope(&buf, env); err != nil {
		t.Fatalf("WriteEnvelope: %v", err)
	}
	if got := binary.LittleEndian.Uint32(buf.Bytes()[:4]); int(got) != buf.Len()-4 {
		t.Errorf("length prefix = %d, want %d", got, buf.Len()-4)
	}

	got, err := ReadEnvelope(&buf)
	if err != nil {
		t.Fatalf("ReadEnvelope: %v", err)
	}
	if got.Type != TypeCompile || got.ID != "42" {
		t.Errorf("got %+v", got)
	}
	var req CompileRequest
	if err := got.Decode(&req); err != nil {
		t.Fatal(err)
	}
	if req.FactionID != "principality" || req.VariantID != "penitents" {
		t.Errorf("req = %+v", req)
	}
}

func TestReadEnvelopeRejectsBadFrames(t *testing.T) {
	frame := func(n uint32, body string) *bytes.Reader {
		b := binary.LittleEndian.AppendUint32(nil, n)
		return bytes.NewReader(append(b, body...))
	}
	tests := []struct {
		name string
		in   *bytes.Reader
		want string
	}{
		{"zero length", frame(0, ""), "invalid message length"},
		{"oversized", frame(MaxFrameSize+1, ""), "invalid message length"},
		{"truncated", frame(10, "{}"), "read payload"},
		{"not json", frame(3, "abc"), "unmarshal envelope"},
		{"no prefix", bytes.NewReader([]byte{1}), "read length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadEnvelope(tt.in)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestDecodeEmptyData(t *testing.T) {
	var req CompileRequest
	if err := (Envelope{Type: TypeCompile}).Decode(&req); err == nil {
		t.Error("expected error for empty data")
	}
}
