package savefile

import (
	"bytes"
	"testing"

	"savebridge/internal/fault"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		[]byte("hello"),
		{0x00, 0xff, 0x10, 0x80, 0x7f},
		bytes.Repeat([]byte{0xab, 0x00, 0xcd}, 1000),
	}

	for _, in := range cases {
		p := Encode(in)
		if p.UnencodedSize != len(in) {
			t.Errorf("UnencodedSize = %d, want %d", p.UnencodedSize, len(in))
		}
		out, err := p.Decode()
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if !bytes.Equal(out, in) {
			t.Errorf("round trip mismatch: got %d bytes, want %d", len(out), len(in))
		}
	}
}

func TestDecodeSizeMismatch(t *testing.T) {
	p := Encode([]byte("some save content"))
	p.UnencodedSize++

	if _, err := p.Decode(); !fault.IsKind(err, fault.Decode) {
		t.Errorf("expected decode fault on declared size mismatch, got %v", err)
	}

	p.UnencodedSize -= 2
	if _, err := p.Decode(); !fault.IsKind(err, fault.Decode) {
		t.Errorf("expected decode fault on short declared size, got %v", err)
	}
}

func TestDecodeBadAlphabet(t *testing.T) {
	p := Payload{UnencodedSize: 4, Base64: "ab!_97=="}
	if _, err := p.Decode(); !fault.IsKind(err, fault.Decode) {
		t.Errorf("expected decode fault on alphabet violation, got %v", err)
	}
}

func TestDecodeNegativeSize(t *testing.T) {
	p := Payload{UnencodedSize: -1, Base64: ""}
	if _, err := p.Decode(); !fault.IsKind(err, fault.Decode) {
		t.Errorf("expected decode fault on negative size, got %v", err)
	}
}
