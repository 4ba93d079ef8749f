package bt

import "fmt"

// Spec is the mutable, author-facing description of one node. A Spec tree is
// flattened into an immutable Definition by Compile; the same Spec can be
// compiled more than once.
type Spec struct {
	name      string
	kind      NodeKind
	composite CompositeKind
	dynamic   bool
	children  []*Spec

	condition Condition
	watchName string
	abort     AbortMode

	action Action

	service    ServiceFunc
	interval   uint32
	runOnEnter bool

	slots int
}

// Selector creates a priority-ordered composite: first Success wins.
func Selector(name string, children ...*Spec) *Spec {
	return &Spec{name: name, kind: NodeComposite, composite: CompositeSelector, children: children}
}

// Sequence creates an all-must-succeed composite.
func Sequence(name string, children ...*Spec) *Spec {
	return &Spec{name: name, kind: NodeComposite, composite: CompositeSequence, children: children}
}

// Random creates a composite that picks one child uniformly at random per
// activation.
func Random(name string, children ...*Spec) *Spec {
	return &Spec{name: name, kind: NodeComposite, composite: CompositeRandom, children: children}
}

// Leaf creates an action leaf.
func Leaf(name string, action Action) *Spec {
	return &Spec{name: name, kind: NodeLeaf, action: action}
}

// LeafFunc creates an action leaf from a plain function.
func LeafFunc(name string, fn func(t *TickContext) Status) *Spec {
	return Leaf(name, ActionFunc(fn))
}

// Guard creates a decorator gating a single child on a condition.
func Guard(name string, cond Condition, child *Spec) *Spec {
	return &Spec{name: name, kind: NodeDecorator, condition: cond, children: []*Spec{child}}
}

// GuardFunc creates a decorator from a plain predicate function.
func GuardFunc(name string, fn func(t *TickContext) bool, child *Spec) *Spec {
	return Guard(name, ConditionFunc(fn), child)
}

// Service attaches a periodic callback to a subtree. interval is measured in
// ticks; runOnEnter fires the callback immediately the first tick the subtree
// becomes active.
func Service(name string, interval uint32, runOnEnter bool, fn ServiceFunc, child *Spec) *Spec {
	return &Spec{
		name: name, kind: NodeService,
		service: fn, interval: interval, runOnEnter: runOnEnter,
		children: []*Spec{child},
	}
}

// Dynamic marks a composite as dynamic: running descendants guarded by
// decorators are re-checked against their conditions every tick.
func (s *Spec) Dynamic() *Spec {
	s.dynamic = true
	return s
}

// Watch declares a reactive watch on a decorator: when the named blackboard
// key changes value, the abort mode decides how execution is interrupted.
func (s *Spec) Watch(key string, mode AbortMode) *Spec {
	s.watchName = key
	s.abort = mode
	return s
}

// WithSlots reserves n auxiliary data slots for the node's callbacks.
func (s *Spec) WithSlots(n int) *Spec {
	s.slots = n
	return s
}

// compiler carries traversal state while flattening a Spec tree.
type compiler struct {
	def     *Definition
	onStack map[*Spec]bool
}

// Compile flattens and validates a Spec tree into a Definition. The given
// spec becomes the single child of an implicit root node.
func Compile(name string, root *Spec) (*Definition, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: root must have exactly one child", ErrInvalidDefinition)
	}
	def := &Definition{
		name:       name,
		lpWatchers: make(map[NodeID][]lpWatcher),
		keyNames:   make(map[KeyID]string),
	}
	def.nodes = append(def.nodes, node{kind: NodeRoot, name: "root", parent: NilNode})
	def.root = 0

	c := &compiler{def: def, onStack: make(map[*Spec]bool)}
	child, err := c.flatten(root, 0, frame{owner: NilNode, branch: -1, dynamic: false})
	if err != nil {
		return nil, err
	}
	def.nodes[0].children = []NodeID{child}
	return def, nil
}

// frame is the inherited compilation context: the nearest ancestor composite,
// the index of its child branch being compiled, and whether that composite is
// dynamic.
type frame struct {
	owner   NodeID
	branch  int
	dynamic bool
}

func (c *compiler) flatten(s *Spec, parent NodeID, fr frame) (NodeID, error) {
	if s == nil {
		return NilNode, fmt.Errorf("%w: nil node under %q", ErrInvalidDefinition, c.def.nodes[parent].name)
	}
	if c.onStack[s] {
		return NilNode, fmt.Errorf("%w: cycle through node %q", ErrInvalidDefinition, s.name)
	}
	c.onStack[s] = true
	defer delete(c.onStack, s)

	if len(c.def.nodes) >= int(NilNode) {
		return NilNode, fmt.Errorf("%w: too many nodes", ErrInvalidDefinition)
	}
	id := NodeID(len(c.def.nodes))
	n := node{
		kind: s.kind, name: s.name, parent: parent,
		composite: s.composite, dynamic: s.dynamic,
		condition: s.condition, abort: s.abort,
		action:  s.action,
		service: s.service, interval: s.interval, runOnEnter: s.runOnEnter,
	}
	n.slotBase = uint16(c.def.slots)
	n.slotCount = uint16(s.slots)
	c.def.slots += s.slots

	switch s.kind {
	case NodeComposite:
		if len(s.children) == 0 {
			return NilNode, fmt.Errorf("%w: composite %q has no children", ErrInvalidDefinition, s.name)
		}
	case NodeDecorator:
		if len(s.children) != 1 || s.condition == nil {
			return NilNode, fmt.Errorf("%w: decorator %q needs one child and a condition", ErrInvalidDefinition, s.name)
		}
		n.recheck = fr.dynamic
		if s.abort != AbortNone {
			if s.watchName == "" {
				return NilNode, fmt.Errorf("%w: decorator %q aborts without a watched key", ErrInvalidDefinition, s.name)
			}
			key, err := c.def.internKey(s.watchName)
			if err != nil {
				return NilNode, err
			}
			n.watch = key
			n.watchName = s.watchName
		}
	case NodeLeaf:
		if len(s.children) != 0 || s.action == nil {
			return NilNode, fmt.Errorf("%w: leaf %q must be childless with an action", ErrInvalidDefinition, s.name)
		}
	case NodeService:
		if len(s.children) != 1 || s.service == nil {
			return NilNode, fmt.Errorf("%w: service %q needs one child and a callback", ErrInvalidDefinition, s.name)
		}
		if s.interval == 0 && !s.runOnEnter {
			return NilNode, fmt.Errorf("%w: service %q has no cadence", ErrInvalidDefinition, s.name)
		}
		n.serviceIndex = uint16(c.def.services)
		c.def.services++
	default:
		return NilNode, fmt.Errorf("%w: node %q has kind %v", ErrInvalidDefinition, s.name, s.kind)
	}

	c.def.nodes = append(c.def.nodes, n)

	if s.kind == NodeDecorator && s.abort.lowerPriority() && fr.owner != NilNode {
		c.def.lpWatchers[fr.owner] = append(c.def.lpWatchers[fr.owner], lpWatcher{deco: id, branch: fr.branch})
	}

	children := make([]NodeID, 0, len(s.children))
	for i, cs := range s.children {
		cf := fr
		if s.kind == NodeComposite {
			cf = frame{owner: id, branch: i, dynamic: s.dynamic}
		}
		cid, err := c.flatten(cs, id, cf)
		if err != nil {
			return NilNode, err
		}
		children = append(children, cid)
	}
	c.def.nodes[id].children = children
	return id, nil
}
