package bt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tickmind/tickmind/internal/core/observability/log"
)

// stubAction returns its scripted statuses in order, repeating the last one.
type stubAction struct {
	statuses   []Status
	calls      int
	interrupts int
}

func (s *stubAction) Tick(_ *TickContext) Status {
	s.calls++
	i := s.calls - 1
	if i >= len(s.statuses) {
		i = len(s.statuses) - 1
	}
	return s.statuses[i]
}

func (s *stubAction) OnInterrupt(_ *TickContext) { s.interrupts++ }

func succeeds() *stubAction { return &stubAction{statuses: []Status{StatusSuccess}} }
func fails() *stubAction    { return &stubAction{statuses: []Status{StatusFailure}} }
func runs() *stubAction     { return &stubAction{statuses: []Status{StatusRunning}} }

// stubCond returns its current value and counts evaluations.
type stubCond struct {
	value bool
	calls int
}

func (c *stubCond) Check(_ *TickContext) bool {
	c.calls++
	return c.value
}

func newTestAgent(t *testing.T, name string, root *Spec) *Agent {
	t.Helper()
	def, err := Compile(name, root)
	require.NoError(t, err)
	return NewAgent("test-agent", def, 42, log.NewNop())
}

func nodeID(t *testing.T, def *Definition, name string) NodeID {
	t.Helper()
	for i := range def.nodes {
		if def.nodes[i].name == name {
			return NodeID(i)
		}
	}
	t.Fatalf("node %q not found", name)
	return NilNode
}

func statusOf(t *testing.T, a *Agent, name string) Status {
	t.Helper()
	return a.state.status[nodeID(t, a.def, name)]
}
