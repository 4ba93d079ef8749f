package bt

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk form of a tree, decodable from JSON or YAML. Nodes
// reference each other by name; the root entry names the top-level node,
// which Compile wraps under the implicit root.
type Document struct {
	Name  string                  `json:"name" yaml:"name"`
	Root  string                  `json:"root" yaml:"root"`
	Nodes map[string]DocumentNode `json:"nodes" yaml:"nodes"`
}

// DocumentNode describes one node of a Document. Which fields apply depends
// on Type: selector/sequence/random take Children, decorator takes Child +
// Condition (and optionally Watch/Abort), leaf takes Action, service takes
// Child + Service + Interval/RunOnEnter.
type DocumentNode struct {
	Type       string         `json:"type" yaml:"type"`
	Dynamic    bool           `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
	Children   []string       `json:"children,omitempty" yaml:"children,omitempty"`
	Child      string         `json:"child,omitempty" yaml:"child,omitempty"`
	Condition  string         `json:"condition,omitempty" yaml:"condition,omitempty"`
	Action     string         `json:"action,omitempty" yaml:"action,omitempty"`
	Service    string         `json:"service,omitempty" yaml:"service,omitempty"`
	Interval   uint32         `json:"interval,omitempty" yaml:"interval,omitempty"`
	RunOnEnter bool           `json:"run_on_enter,omitempty" yaml:"run_on_enter,omitempty"`
	Watch      string         `json:"watch,omitempty" yaml:"watch,omitempty"`
	Abort      string         `json:"abort,omitempty" yaml:"abort,omitempty"`
	Slots      int            `json:"slots,omitempty" yaml:"slots,omitempty"`
	Params     map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// LoadJSON decodes a Document from JSON.
func LoadJSON(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode tree document: %w", err)
	}
	return &d, nil
}

// LoadYAML decodes a Document from YAML.
func LoadYAML(r io.Reader) (*Document, error) {
	var d Document
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode tree document: %w", err)
	}
	return &d, nil
}

// Compile resolves the document against a registry and produces an immutable
// Definition. Structural violations surface as ErrInvalidDefinition.
func (d *Document) Compile(reg *Registry) (*Definition, error) {
	if d.Root == "" {
		return nil, fmt.Errorf("%w: document has no root", ErrInvalidDefinition)
	}
	building := make(map[string]bool)
	var build func(name string) (*Spec, error)
	build = func(name string) (*Spec, error) {
		if building[name] {
			return nil, fmt.Errorf("%w: cycle through node %q", ErrInvalidDefinition, name)
		}
		dn, ok := d.Nodes[name]
		if !ok {
			return nil, fmt.Errorf("%w: node %q not defined", ErrInvalidDefinition, name)
		}
		building[name] = true
		defer delete(building, name)

		switch dn.Type {
		case "selector", "sequence", "random":
			children := make([]*Spec, 0, len(dn.Children))
			for _, cn := range dn.Children {
				ch, err := build(cn)
				if err != nil {
					return nil, err
				}
				children = append(children, ch)
			}
			var s *Spec
			switch dn.Type {
			case "selector":
				s = Selector(name, children...)
			case "sequence":
				s = Sequence(name, children...)
			default:
				s = Random(name, children...)
			}
			if dn.Dynamic {
				s.Dynamic()
			}
			return s, nil
		case "decorator":
			cond, err := reg.NewCondition(dn.Condition, dn.Params)
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", name, err)
			}
			child, err := build(dn.Child)
			if err != nil {
				return nil, err
			}
			s := Guard(name, cond, child).WithSlots(dn.Slots)
			if dn.Watch != "" {
				mode, err := parseAbortMode(dn.Abort)
				if err != nil {
					return nil, fmt.Errorf("node %q: %w", name, err)
				}
				s.Watch(dn.Watch, mode)
			}
			return s, nil
		case "leaf":
			act, err := reg.NewAction(dn.Action, dn.Params)
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", name, err)
			}
			return Leaf(name, act).WithSlots(dn.Slots), nil
		case "service":
			fn, err := reg.NewService(dn.Service, dn.Params)
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", name, err)
			}
			child, err := build(dn.Child)
			if err != nil {
				return nil, err
			}
			return Service(name, dn.Interval, dn.RunOnEnter, fn, child).WithSlots(dn.Slots), nil
		default:
			return nil, fmt.Errorf("%w: %q (node %q)", ErrUnknownNodeType, dn.Type, name)
		}
	}

	root, err := build(d.Root)
	if err != nil {
		return nil, err
	}
	return Compile(d.Name, root)
}

func parseAbortMode(s string) (AbortMode, error) {
	switch s {
	case "", "none":
		return AbortNone, nil
	case "self":
		return AbortSelf, nil
	case "lower-priority":
		return AbortLowerPriority, nil
	case "both":
		return AbortBoth, nil
	default:
		return AbortNone, fmt.Errorf("%w: abort mode %q", ErrInvalidDefinition, s)
	}
}
