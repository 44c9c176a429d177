package memdom

import "fmt"

// MutationOp is the type of a recorded document mutation.
type MutationOp uint8

const (
	OpCreateElement  MutationOp = 0x01 // New element (Name = tag)
	OpCreateText     MutationOp = 0x02 // New text node (Value = data)
	OpSetText        MutationOp = 0x03 // Update text content
	OpSetAttr        MutationOp = 0x04 // Set/update attribute
	OpRemoveAttr     MutationOp = 0x05 // Remove attribute
	OpSetProperty    MutationOp = 0x06 // Set live property (value, checked)
	OpAddListener    MutationOp = 0x07 // Subscribe to event
	OpRemoveListener MutationOp = 0x08 // Unsubscribe from event
	OpAppend         MutationOp = 0x09 // Append Child to Target
	OpInsertBefore   MutationOp = 0x0A // Insert Child before Ref under Target
	OpRemove         MutationOp = 0x0B // Detach Target
)

// String returns the string representation of the MutationOp.
func (op MutationOp) String() string {
	switch op {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpSetText:
		return "SetText"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpSetProperty:
		return "SetProperty"
	case OpAddListener:
		return "AddListener"
	case OpRemoveListener:
		return "RemoveListener"
	case OpAppend:
		return "Append"
	case OpInsertBefore:
		return "InsertBefore"
	case OpRemove:
		return "Remove"
	default:
		return "Unknown"
	}
}

// Mutation is a single recorded document operation. Node references are
// document IDs so a log stays meaningful after nodes are detached.
type Mutation struct {
	Op     MutationOp
	Target uint32 // Node the operation applies to
	Child  uint32 // Append/InsertBefore: the node being inserted
	Ref    uint32 // InsertBefore: reference sibling
	Name   string // Tag, attribute, property or event name
	Value  string // Text, attribute or property value
}

// String renders the mutation for logs and CLI output.
func (m Mutation) String() string {
	switch m.Op {
	case OpCreateElement:
		return fmt.Sprintf("%s #%d <%s>", m.Op, m.Target, m.Name)
	case OpCreateText, OpSetText:
		return fmt.Sprintf("%s #%d %q", m.Op, m.Target, m.Value)
	case OpSetAttr, OpSetProperty:
		return fmt.Sprintf("%s #%d %s=%q", m.Op, m.Target, m.Name, m.Value)
	case OpRemoveAttr, OpAddListener, OpRemoveListener:
		return fmt.Sprintf("%s #%d %s", m.Op, m.Target, m.Name)
	case OpAppend:
		return fmt.Sprintf("%s #%d -> #%d", m.Op, m.Child, m.Target)
	case OpInsertBefore:
		return fmt.Sprintf("%s #%d -> #%d before #%d", m.Op, m.Child, m.Target, m.Ref)
	default:
		return fmt.Sprintf("%s #%d", m.Op, m.Target)
	}
}

// Count returns how many mutations in ms have one of the given ops.
func Count(ms []Mutation, ops ...MutationOp) int {
	n := 0
	for _, m := range ms {
		for _, op := range ops {
			if m.Op == op {
				n++
				break
			}
		}
	}
	return n
}
