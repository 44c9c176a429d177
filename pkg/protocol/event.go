package protocol

import "errors"

// ErrEmptyEventType is returned for an event without a type.
var ErrEmptyEventType = errors.New("protocol: event type is empty")

// Event is a user interaction reported by the client.
type Event struct {
	Node  uint32 // Document ID of the element the event fired on
	Type  string // DOM event type, e.g. "click", "input"
	Value string // Current value for input/change events
}

// EncodeEvent encodes an event to bytes.
//
// Format: [Node: varint][Type: len-prefixed][Value: len-prefixed]
func EncodeEvent(ev *Event) []byte {
	e := NewEncoder()
	EncodeEventTo(e, ev)
	return e.Bytes()
}

// EncodeEventTo encodes an event using the provided encoder.
func EncodeEventTo(e *Encoder, ev *Event) {
	e.WriteUvarint(uint64(ev.Node))
	e.WriteString(ev.Type)
	e.WriteString(ev.Value)
}

// DecodeEvent decodes an event from bytes.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)
	ev, err := DecodeEventFrom(d)
	if err != nil {
		return nil, err
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return ev, nil
}

// DecodeEventFrom decodes an event from a decoder.
func DecodeEventFrom(d *Decoder) (*Event, error) {
	node, err := d.ReadUint32Varint()
	if err != nil {
		return nil, err
	}
	typ, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	if typ == "" {
		return nil, ErrEmptyEventType
	}
	value, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	return &Event{Node: node, Type: typ, Value: value}, nil
}
