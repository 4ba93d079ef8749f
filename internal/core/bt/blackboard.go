package bt

// Blackboard is the per-agent shared store: an interned-key to fixed-size
// value map with change notification. Each agent owns exactly one instance;
// instances are never shared between agents even when agents share a
// Definition, so no locking is needed (see the concurrency notes on Agent).
//
// Besides the values it keeps the reactive watch table: for every key, the
// ordered set of decorator nodes currently watching it. Registration order is
// preserved so notification fan-out is deterministic.
type Blackboard struct {
	entries  map[KeyID]Value
	watchers map[KeyID][]NodeID

	// onChange is invoked synchronously whenever a write actually changes a
	// key's value. Bound by the owning agent.
	onChange func(key KeyID)

	// version counts value-changing writes. Unchanged writes do not bump it.
	version int64
}

// NewBlackboard creates an empty blackboard. Standalone instances (no change
// callback) are valid; notification is simply skipped.
func NewBlackboard() *Blackboard {
	return &Blackboard{
		entries:  make(map[KeyID]Value),
		watchers: make(map[KeyID][]NodeID),
	}
}

// Get retrieves the raw value stored under key.
func (b *Blackboard) Get(key KeyID) (Value, error) {
	v, ok := b.entries[key]
	if !ok {
		return Value{}, ErrKeyNotFound
	}
	return v, nil
}

// Set stores a value under key, creating the key if absent. Re-kinding an
// existing key is a misuse and fails fast with ErrTypeMismatch. A write that
// does not change the value is a no-op: no notification fires.
func (b *Blackboard) Set(key KeyID, v Value) error {
	if v.Kind() == KindInvalid {
		return ErrTypeMismatch
	}
	old, ok := b.entries[key]
	if ok {
		if old.Kind() != v.Kind() {
			return ErrTypeMismatch
		}
		if old == v {
			return nil
		}
	}
	b.entries[key] = v
	b.version++
	if b.onChange != nil {
		b.onChange(key)
	}
	return nil
}

func (b *Blackboard) GetBool(key KeyID) (bool, error) {
	v, err := b.typed(key, KindBool)
	return v.Bool(), err
}

func (b *Blackboard) GetInt(key KeyID) (int64, error) {
	v, err := b.typed(key, KindInt)
	return v.Int(), err
}

func (b *Blackboard) GetFloat(key KeyID) (float64, error) {
	v, err := b.typed(key, KindFloat)
	return v.Float(), err
}

func (b *Blackboard) GetEntity(key KeyID) (uint64, error) {
	v, err := b.typed(key, KindEntity)
	return v.Entity(), err
}

func (b *Blackboard) GetVec2(key KeyID) (x, y float64, err error) {
	v, err := b.typed(key, KindVec2)
	x, y = v.Vec2()
	return x, y, err
}

func (b *Blackboard) SetBool(key KeyID, v bool) error    { return b.Set(key, BoolValue(v)) }
func (b *Blackboard) SetInt(key KeyID, v int64) error    { return b.Set(key, IntValue(v)) }
func (b *Blackboard) SetFloat(key KeyID, v float64) error { return b.Set(key, FloatValue(v)) }
func (b *Blackboard) SetEntity(key KeyID, v uint64) error { return b.Set(key, EntityValue(v)) }
func (b *Blackboard) SetVec2(key KeyID, x, y float64) error {
	return b.Set(key, Vec2Value(x, y))
}

func (b *Blackboard) typed(key KeyID, kind Kind) (Value, error) {
	v, ok := b.entries[key]
	if !ok {
		return Value{}, ErrKeyNotFound
	}
	if v.Kind() != kind {
		return Value{}, ErrTypeMismatch
	}
	return v, nil
}

// Has reports whether the key exists.
func (b *Blackboard) Has(key KeyID) bool {
	_, ok := b.entries[key]
	return ok
}

// Len returns the number of stored keys.
func (b *Blackboard) Len() int { return len(b.entries) }

// Version returns the count of value-changing writes so far.
func (b *Blackboard) Version() int64 { return b.version }

// watch registers a decorator for change notifications on key. Registration
// is idempotent; order of first registration is preserved.
func (b *Blackboard) watch(key KeyID, id NodeID) {
	for _, w := range b.watchers[key] {
		if w == id {
			return
		}
	}
	b.watchers[key] = append(b.watchers[key], id)
}

// unwatch removes a decorator's registration on key.
func (b *Blackboard) unwatch(key KeyID, id NodeID) {
	ws := b.watchers[key]
	for i, w := range ws {
		if w == id {
			b.watchers[key] = append(ws[:i], ws[i+1:]...)
			if len(b.watchers[key]) == 0 {
				delete(b.watchers, key)
			}
			return
		}
	}
}

// watcherCount returns the number of registered watchers for key.
func (b *Blackboard) watcherCount(key KeyID) int { return len(b.watchers[key]) }

// Free releases every entry and watcher registration. Must be called before
// the owning agent is destroyed so no registration outlives the agent.
func (b *Blackboard) Free() {
	b.entries = make(map[KeyID]Value)
	b.watchers = make(map[KeyID][]NodeID)
	b.onChange = nil
}
