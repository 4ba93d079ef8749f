package bt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tickmind/tickmind/internal/core/observability/log"
)

// randomTree builds Random[a b c] where every leaf records its own draw and
// succeeds immediately.
func randomTree(picks *[]string) *Spec {
	leaf := func(name string) *Spec {
		return LeafFunc(name, func(_ *TickContext) Status {
			*picks = append(*picks, name)
			return StatusSuccess
		})
	}
	return Random("rnd", leaf("a"), leaf("b"), leaf("c"))
}

func TestRandomSelector(t *testing.T) {
	t.Run("Identical Seeds Produce Identical Draws", func(t *testing.T) {
		var first, second []string
		defA, err := Compile("rnd", randomTree(&first))
		require.NoError(t, err)
		defB, err := Compile("rnd", randomTree(&second))
		require.NoError(t, err)

		a := NewAgent("a", defA, 12345, log.NewNop())
		b := NewAgent("b", defB, 12345, log.NewNop())
		for i := 0; i < 200; i++ {
			a.Update()
			b.Update()
		}
		require.Equal(t, first, second)
	})

	t.Run("Draws Are Roughly Uniform", func(t *testing.T) {
		var picks []string
		def, err := Compile("rnd", randomTree(&picks))
		require.NoError(t, err)
		agent := NewAgent("a", def, 7, log.NewNop())

		const draws = 3000
		for i := 0; i < draws; i++ {
			agent.Update()
		}

		counts := map[string]int{}
		for _, p := range picks {
			counts[p]++
		}
		for _, name := range []string{"a", "b", "c"} {
			require.InDelta(t, draws/3, counts[name], draws*0.05,
				"child %s drawn %d times", name, counts[name])
		}
	})

	t.Run("No Re-Draw While Active Child Runs", func(t *testing.T) {
		mk := func(name string, acts map[string]*stubAction) *Spec {
			act := &stubAction{statuses: []Status{StatusRunning, StatusRunning, StatusSuccess}}
			acts[name] = act
			return Leaf(name, act)
		}
		acts := map[string]*stubAction{}
		spec := Random("rnd", mk("a", acts), mk("b", acts), mk("c", acts))
		agent := newTestAgent(t, "sticky", spec)

		agent.Update()
		agent.Update()
		agent.Update()

		// exactly one child was driven through its three-tick run
		total, nonZero := 0, 0
		for _, act := range acts {
			total += act.calls
			if act.calls > 0 {
				nonZero++
			}
		}
		require.Equal(t, 3, total)
		require.Equal(t, 1, nonZero)
	})
}
