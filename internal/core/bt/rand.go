package bt

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Rand is a deterministic splitmix64 stream. Every (agent, node) pair owns an
// independent stream derived from the simulation seed, so draws never depend
// on wall clock, iteration order of other agents, or platform.
//
// The state pointer aliases the agent's runtime slab; Rand itself is a cheap
// value handle and allocates nothing.
type Rand struct {
	state *uint64
}

func (r Rand) Uint64() uint64 {
	*r.state += 0x9e3779b97f4a7c15
	z := *r.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Intn returns a draw in [0, n). n must be positive.
func (r Rand) Intn(n int) int {
	return int(r.Uint64() % uint64(n))
}

// Float64 returns a draw in [0, 1).
func (r Rand) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

// streamSeed derives the initial splitmix64 state for one node of one agent.
func streamSeed(agentSeed uint64, id NodeID) uint64 {
	var buf [10]byte
	binary.LittleEndian.PutUint64(buf[:8], agentSeed)
	binary.LittleEndian.PutUint16(buf[8:], uint16(id))
	return xxhash.Sum64(buf[:])
}

// agentSeed derives one agent's seed from the shared simulation seed and the
// agent's spawn ordinal.
func agentSeed(simSeed uint64, ordinal uint64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], simSeed)
	binary.LittleEndian.PutUint64(buf[8:], ordinal)
	return xxhash.Sum64(buf[:])
}
