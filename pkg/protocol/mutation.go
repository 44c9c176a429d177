package protocol

import (
	"errors"
	"fmt"

	"github.com/vango-dev/vdomkit/pkg/memdom"
)

// ErrUnknownOp is returned when a mutation carries an unrecognized opcode.
var ErrUnknownOp = errors.New("protocol: unknown mutation op")

// EncodeMutationTo encodes a single mutation.
//
// Format: [Op: byte][Target: varint][op-specific fields]
func EncodeMutationTo(e *Encoder, m memdom.Mutation) {
	e.WriteByte(byte(m.Op))
	e.WriteUvarint(uint64(m.Target))

	switch m.Op {
	case memdom.OpCreateElement, memdom.OpRemoveAttr,
		memdom.OpAddListener, memdom.OpRemoveListener:
		e.WriteString(m.Name)
	case memdom.OpCreateText, memdom.OpSetText:
		e.WriteString(m.Value)
	case memdom.OpSetAttr, memdom.OpSetProperty:
		e.WriteString(m.Name)
		e.WriteString(m.Value)
	case memdom.OpAppend:
		e.WriteUvarint(uint64(m.Child))
	case memdom.OpInsertBefore:
		e.WriteUvarint(uint64(m.Child))
		e.WriteUvarint(uint64(m.Ref))
	case memdom.OpRemove:
		// Target only
	}
}

// DecodeMutationFrom decodes a single mutation.
func DecodeMutationFrom(d *Decoder) (memdom.Mutation, error) {
	var m memdom.Mutation

	op, err := d.ReadByte()
	if err != nil {
		return m, err
	}
	m.Op = memdom.MutationOp(op)

	if m.Target, err = d.ReadUint32Varint(); err != nil {
		return m, err
	}

	switch m.Op {
	case memdom.OpCreateElement, memdom.OpRemoveAttr,
		memdom.OpAddListener, memdom.OpRemoveListener:
		m.Name, err = d.ReadString()
	case memdom.OpCreateText, memdom.OpSetText:
		m.Value, err = d.ReadString()
	case memdom.OpSetAttr, memdom.OpSetProperty:
		if m.Name, err = d.ReadString(); err == nil {
			m.Value, err = d.ReadString()
		}
	case memdom.OpAppend:
		m.Child, err = d.ReadUint32Varint()
	case memdom.OpInsertBefore:
		if m.Child, err = d.ReadUint32Varint(); err == nil {
			m.Ref, err = d.ReadUint32Varint()
		}
	case memdom.OpRemove:
	default:
		return m, fmt.Errorf("%w: 0x%02x", ErrUnknownOp, op)
	}
	return m, err
}

// EncodeMutations encodes a batch as a count followed by the mutations.
func EncodeMutations(ms []memdom.Mutation) []byte {
	e := NewEncoder()
	e.WriteUvarint(uint64(len(ms)))
	for _, m := range ms {
		EncodeMutationTo(e, m)
	}
	return e.Bytes()
}

// DecodeMutations decodes a payload produced by EncodeMutations.
func DecodeMutations(data []byte) ([]memdom.Mutation, error) {
	d := NewDecoder(data)
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	ms := make([]memdom.Mutation, 0, count)
	for i := 0; i < count; i++ {
		m, err := DecodeMutationFrom(d)
		if err != nil {
			return nil, fmt.Errorf("mutation %d: %w", i, err)
		}
		ms = append(ms, m)
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return ms, nil
}

// MutationFrames splits a batch into frames whose payloads fit within
// MaxPayloadSize. The last frame carries FlagFinal. An empty batch yields a
// single final frame with zero mutations.
func MutationFrames(ms []memdom.Mutation) ([]*Frame, error) {
	var frames []*Frame
	item := NewEncoder()
	body := NewEncoder()
	count := 0

	flush := func() {
		e := NewEncoder()
		e.WriteUvarint(uint64(count))
		e.WriteBytes(body.Bytes())
		payload := make([]byte, e.Len())
		copy(payload, e.Bytes())
		frames = append(frames, NewFrame(FrameMutations, payload))
		body.Reset()
		count = 0
	}

	for _, m := range ms {
		item.Reset()
		EncodeMutationTo(item, m)
		if MaxVarintLen+item.Len() > MaxPayloadSize {
			return nil, fmt.Errorf("%w: single %s mutation is %d bytes", ErrFrameTooLarge, m.Op, item.Len())
		}
		if UvarintLen(uint64(count+1))+body.Len()+item.Len() > MaxPayloadSize {
			flush()
		}
		body.WriteBytes(item.Bytes())
		count++
	}
	flush()
	frames[len(frames)-1].Flags |= FlagFinal
	return frames, nil
}

// BatchReader reassembles mutation batches from consecutive frames.
type BatchReader struct {
	pending []memdom.Mutation
}

// Add decodes a FrameMutations frame. It returns the complete batch and true
// once a frame carrying FlagFinal arrives.
func (b *BatchReader) Add(f *Frame) ([]memdom.Mutation, bool, error) {
	if f.Type != FrameMutations {
		return nil, false, ErrInvalidFrameType
	}
	ms, err := DecodeMutations(f.Payload)
	if err != nil {
		return nil, false, err
	}
	b.pending = append(b.pending, ms...)
	if !f.Flags.Has(FlagFinal) {
		return nil, false, nil
	}
	out := b.pending
	b.pending = nil
	return out, true, nil
}
