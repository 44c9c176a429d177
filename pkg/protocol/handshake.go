package protocol

import "fmt"

// Version is the wire protocol version sent in the handshake.
const Version uint8 = 1

// Handshake is the first frame of a session. It tells the client which of
// its elements to mount into and names the session for logs.
type Handshake struct {
	Version   uint8
	SessionID string
	Root      uint32 // Document ID of the container the app renders into
}

// EncodeHandshake encodes a Handshake to bytes.
func EncodeHandshake(h *Handshake) []byte {
	e := NewEncoder()
	e.WriteByte(h.Version)
	e.WriteString(h.SessionID)
	e.WriteUvarint(uint64(h.Root))
	return e.Bytes()
}

// DecodeHandshake decodes a Handshake and rejects other protocol versions.
func DecodeHandshake(data []byte) (*Handshake, error) {
	d := NewDecoder(data)
	version, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("protocol: version %d not supported (want %d)", version, Version)
	}
	session, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	root, err := d.ReadUint32Varint()
	if err != nil {
		return nil, err
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return &Handshake{Version: version, SessionID: session, Root: root}, nil
}
