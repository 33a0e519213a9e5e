package tree

// NodeID identifies a node parsed from source within one compilation unit.
// Synthesized nodes carry NoNodeID.
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }
