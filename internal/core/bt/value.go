package bt

import "math"

// Kind tags the primitive stored in a blackboard Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindEntity
	KindVec2
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindEntity:
		return "entity"
	case KindVec2:
		return "vec2"
	default:
		return "invalid"
	}
}

// Value is a fixed-size tagged union holding any supported blackboard
// primitive. Every kind uses the same 16-byte payload so storage stays
// size-homogeneous regardless of what a tree writes. Value is comparable;
// the blackboard relies on == to detect value-unchanged writes.
type Value struct {
	kind    Kind
	payload [2]uint64
}

func BoolValue(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.payload[0] = 1
	}
	return v
}

func IntValue(i int64) Value {
	return Value{kind: KindInt, payload: [2]uint64{uint64(i), 0}}
}

func FloatValue(f float64) Value {
	return Value{kind: KindFloat, payload: [2]uint64{math.Float64bits(f), 0}}
}

// EntityValue wraps an opaque 64-bit entity handle. Entity handles replace
// string references so every stored value keeps a fixed size.
func EntityValue(id uint64) Value {
	return Value{kind: KindEntity, payload: [2]uint64{id, 0}}
}

func Vec2Value(x, y float64) Value {
	return Value{kind: KindVec2, payload: [2]uint64{math.Float64bits(x), math.Float64bits(y)}}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) Bool() bool      { return v.payload[0] != 0 }
func (v Value) Int() int64      { return int64(v.payload[0]) }
func (v Value) Float() float64  { return math.Float64frombits(v.payload[0]) }
func (v Value) Entity() uint64  { return v.payload[0] }
func (v Value) Vec2() (x, y float64) {
	return math.Float64frombits(v.payload[0]), math.Float64frombits(v.payload[1])
}

// Slot is one auxiliary data cell owned by a node instance. Slots are raw
// type-punned words; the action that declared them is responsible for reading
// them back with the accessor matching what it stored.
type Slot struct {
	bits [2]uint64
}

func (s *Slot) SetInt(i int64)     { s.bits[0] = uint64(i) }
func (s *Slot) Int() int64         { return int64(s.bits[0]) }
func (s *Slot) SetUint(u uint64)   { s.bits[0] = u }
func (s *Slot) Uint() uint64       { return s.bits[0] }
func (s *Slot) SetFloat(f float64) { s.bits[0] = math.Float64bits(f) }
func (s *Slot) Float() float64     { return math.Float64frombits(s.bits[0]) }

func (s *Slot) SetBool(b bool) {
	s.bits[0] = 0
	if b {
		s.bits[0] = 1
	}
}
func (s *Slot) Bool() bool { return s.bits[0] != 0 }

func (s *Slot) SetVec2(x, y float64) {
	s.bits[0] = math.Float64bits(x)
	s.bits[1] = math.Float64bits(y)
}
func (s *Slot) Vec2() (x, y float64) {
	return math.Float64frombits(s.bits[0]), math.Float64frombits(s.bits[1])
}

func (s *Slot) Zero() { s.bits[0], s.bits[1] = 0, 0 }
