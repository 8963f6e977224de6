package graph

import "github.com/svdkit/svdkit/pkg/model"

// ID identifies a node within a Graph. IDs are assigned sequentially and
// never reused within one Graph's lifetime.
type ID int64

// NodeKind distinguishes Element nodes from Placeholder nodes.
type NodeKind int

const (
	KindElement NodeKind = iota
	KindPlaceholder
)

// Status tracks an Element node's position in its state machine
// (Unprocessed -> Processable -> Processed; see spec §4.6).
type Status int

const (
	StatusUnprocessed Status = iota
	StatusProcessed
)

// Node is either an Element (Device/Peripheral/Cluster/Register/Field/
// EnumContainer) or a Placeholder standing in for an unresolved
// derivedFrom path. Which fields are meaningful depends on Kind.
type Node struct {
	ID   ID
	Kind NodeKind

	// Element fields.
	Name          string
	Level         model.Level
	Status        Status
	IsDimTemplate bool
	Parsed        any // *model.Peripheral, *model.Register, etc.
	Processed     any // *model.ProcessedPeripheral, etc., set once processed.

	// Placeholder fields.
	DerivePath string
}

// SetProcessed assigns a node's processed form. It panics if called twice,
// mirroring the reference implementation's "processed is write-once" rule
// (original_source/resolve/graph_elements.py's ElementNode.processed
// setter).
func (n *Node) SetProcessed(v any) {
	if n.Processed != nil {
		panic("graph: node already processed: " + n.Name)
	}
	n.Processed = v
	n.Status = StatusProcessed
}
