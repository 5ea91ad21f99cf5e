// Package savefile moves raw save bytes across the JSON bridge.
//
// Files travel as a size-guarded base64 envelope: the encoder records the
// exact unencoded length next to the text, and the decoder refuses any
// payload whose decoded length disagrees with it. A truncated or corrupted
// envelope fails loudly instead of yielding a wrong-length buffer.
package savefile

import (
	"encoding/base64"

	"savebridge/internal/fault"
)

// Envelope carries one file's content between the host and the UI.
// Field names are the wire contract with the UI; do not rename.
type Envelope struct {
	Path string  `json:"path"`
	File Payload `json:"file"`
}

// Payload is the encoded file body inside an Envelope.
type Payload struct {
	UnencodedSize int    `json:"unencoded_size"`
	Base64        string `json:"base64"`
}

// Encode renders bytes as an envelope payload. Standard alphabet, padded,
// no line wrapping.
func Encode(data []byte) Payload {
	return Payload{
		UnencodedSize: len(data),
		Base64:        base64.StdEncoding.EncodeToString(data),
	}
}

// Decode recovers the original bytes from a payload. The result is always
// exactly UnencodedSize bytes; any alphabet violation or length
// disagreement is a Decode fault. There is no partial success.
func (p Payload) Decode() ([]byte, error) {
	if p.UnencodedSize < 0 {
		return nil, fault.New(fault.Decode, "negative unencoded size %d", p.UnencodedSize)
	}
	decoded, err := base64.StdEncoding.DecodeString(p.Base64)
	if err != nil {
		return nil, fault.Wrap(fault.Decode, err, "malformed base64 payload")
	}
	if len(decoded) != p.UnencodedSize {
		return nil, fault.New(fault.Decode, "size mismatch: declared %d bytes, decoded %d", p.UnencodedSize, len(decoded))
	}
	return decoded, nil
}
