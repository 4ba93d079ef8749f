package bt

import (
	"fmt"
	"math"
)

// NodeID indexes a node inside a Definition's arena. IDs are assigned in
// pre-order during compilation and are stable for the lifetime of the
// definition, so per-agent runtime arrays can be indexed by the same IDs.
type NodeID uint16

// NilNode marks the absence of a node reference.
const NilNode NodeID = math.MaxUint16

// NodeKind discriminates the closed set of node variants. Dispatch is a
// tagged switch over this kind rather than interface indirection, keeping the
// arena flat and the hot path free of virtual calls.
type NodeKind uint8

const (
	NodeRoot NodeKind = iota
	NodeComposite
	NodeDecorator
	NodeLeaf
	NodeService
)

func (k NodeKind) String() string {
	switch k {
	case NodeRoot:
		return "root"
	case NodeComposite:
		return "composite"
	case NodeDecorator:
		return "decorator"
	case NodeLeaf:
		return "leaf"
	case NodeService:
		return "service"
	default:
		return "unknown"
	}
}

// CompositeKind selects the child-evaluation policy of a composite.
type CompositeKind uint8

const (
	CompositeSelector CompositeKind = iota
	CompositeSequence
	CompositeRandom
)

func (k CompositeKind) String() string {
	switch k {
	case CompositeSelector:
		return "selector"
	case CompositeSequence:
		return "sequence"
	case CompositeRandom:
		return "random"
	default:
		return "unknown"
	}
}

// AbortMode is the reactive interruption policy of a watching decorator.
type AbortMode uint8

const (
	AbortNone AbortMode = iota
	AbortSelf
	AbortLowerPriority
	AbortBoth
)

func (m AbortMode) String() string {
	switch m {
	case AbortSelf:
		return "self"
	case AbortLowerPriority:
		return "lower-priority"
	case AbortBoth:
		return "both"
	default:
		return "none"
	}
}

func (m AbortMode) self() bool          { return m == AbortSelf || m == AbortBoth }
func (m AbortMode) lowerPriority() bool { return m == AbortLowerPriority || m == AbortBoth }

// node is one arena entry. The structural graph is fixed after Compile; only
// per-agent runtime state varies.
type node struct {
	kind     NodeKind
	name     string
	parent   NodeID
	children []NodeID

	// composite
	composite CompositeKind
	dynamic   bool

	// decorator
	condition Condition
	recheck   bool // inside a dynamic region: re-check the condition every tick
	watch     KeyID
	watchName string
	abort     AbortMode

	// leaf
	action Action

	// service
	service      ServiceFunc
	interval     uint32
	runOnEnter   bool
	serviceIndex uint16

	// auxiliary slot layout
	slotBase  uint16
	slotCount uint16
}

func (n *node) child() NodeID { return n.children[0] }

// lpWatcher records a lower-priority-aborting decorator for its owning
// composite: the decorator's ID plus the index of the composite child whose
// subtree contains it.
type lpWatcher struct {
	deco   NodeID
	branch int
}

// Definition is the immutable, compiled form of a behavior tree. One
// Definition is shared by reference across every agent running the tree.
type Definition struct {
	name     string
	nodes    []node
	root     NodeID
	slots    int
	services int

	// lpWatchers maps a composite to the LowerPriority/Both decorators it
	// owns, in priority order.
	lpWatchers map[NodeID][]lpWatcher

	// keyNames records every interned key the tree watches, for collision
	// detection and observability.
	keyNames map[KeyID]string
}

func (d *Definition) Name() string   { return d.name }
func (d *Definition) Len() int       { return len(d.nodes) }
func (d *Definition) Root() NodeID   { return d.root }
func (d *Definition) SlotCount() int { return d.slots }

// NodeName returns the authored name of a node.
func (d *Definition) NodeName(id NodeID) string { return d.nodes[id].name }

// NodeKindOf returns the kind of a node.
func (d *Definition) NodeKindOf(id NodeID) NodeKind { return d.nodes[id].kind }

// KeyName resolves an interned key back to its authored name, if the tree
// declared it.
func (d *Definition) KeyName(key KeyID) (string, bool) {
	name, ok := d.keyNames[key]
	return name, ok
}

// internKey records a watched key name, detecting hash collisions between
// distinct names. Collisions are a structural error: two decorators would
// silently share notifications.
func (d *Definition) internKey(name string) (KeyID, error) {
	key := Key(name)
	if prev, ok := d.keyNames[key]; ok && prev != name {
		return 0, fmt.Errorf("%w: key %q collides with %q", ErrInvalidDefinition, name, prev)
	}
	d.keyNames[key] = name
	return key, nil
}
