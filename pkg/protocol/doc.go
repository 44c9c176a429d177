// Package protocol implements the binary wire format spoken between the
// live demo server and its browser client.
//
// The server streams the mutation log of a session's document; the client
// replays it against the real DOM and reports user events back by node ID.
//
// # Wire Format
//
// All messages are framed with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameHandshake (0x00): Server → Client session setup (root node ID)
//   - FrameEvent (0x01): Client → Server user event
//   - FrameMutations (0x02): Server → Client mutation batch
//   - FrameError (0x05): Server → Client error report
//
// A mutation batch larger than MaxPayloadSize is split across consecutive
// FrameMutations frames. The last frame of a batch carries FlagFinal.
//
// # Encoding
//
//   - Varint: node IDs, counts and lengths (protobuf-style)
//   - Length-prefixed: strings prefixed with a varint length
//   - Big-endian: fixed-width integers (uint16)
//
// Example SetText mutation encoding:
//
//	[Op: 0x03][Target: varint][Value: len-prefixed]
package protocol
