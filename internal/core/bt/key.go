package bt

import "github.com/cespare/xxhash/v2"

// KeyID is an interned blackboard key identifier. Keys are interned by
// hashing their name so lookups never touch the string after compilation.
type KeyID uint64

// Key interns a key name. The mapping is stable across processes and
// platforms, which the lockstep model depends on.
func Key(name string) KeyID {
	return KeyID(xxhash.Sum64String(name))
}
