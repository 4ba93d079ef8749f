package bt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	t.Run("Stops At First Failure", func(t *testing.T) {
		a, b, c := succeeds(), fails(), succeeds()
		agent := newTestAgent(t, "seq", Sequence("s",
			Leaf("a", a), Leaf("b", b), Leaf("c", c)))

		require.Equal(t, StatusFailure, agent.Update())
		require.Equal(t, 1, a.calls)
		require.Equal(t, 1, b.calls)
		require.Equal(t, 0, c.calls)
		require.Equal(t, StatusInactive, statusOf(t, agent, "c"))
	})

	t.Run("Succeeds When All Succeed", func(t *testing.T) {
		a, b := succeeds(), succeeds()
		agent := newTestAgent(t, "seq", Sequence("s", Leaf("a", a), Leaf("b", b)))

		require.Equal(t, StatusSuccess, agent.Update())
		require.Equal(t, 1, a.calls)
		require.Equal(t, 1, b.calls)
	})

	t.Run("Running Child Resumes, Earlier Children Re-Evaluate", func(t *testing.T) {
		a, b := succeeds(), runs()
		agent := newTestAgent(t, "seq", Sequence("s", Leaf("a", a), Leaf("b", b)))

		require.Equal(t, StatusRunning, agent.Update())
		require.Equal(t, StatusRunning, agent.Update())
		require.Equal(t, 2, a.calls)
		require.Equal(t, 2, b.calls)
		require.Zero(t, b.interrupts)
	})

	t.Run("Completed Leaf Not Re-Ticked After Earlier Failure", func(t *testing.T) {
		a := &stubAction{statuses: []Status{StatusSuccess, StatusFailure}}
		b := succeeds()
		agent := newTestAgent(t, "seq", Sequence("s", Leaf("a", a), Leaf("b", b)))

		require.Equal(t, StatusSuccess, agent.Update())
		require.Equal(t, 1, b.calls)

		require.Equal(t, StatusFailure, agent.Update())
		require.Equal(t, 1, b.calls, "b must not run after a failed")
		require.Equal(t, StatusInactive, statusOf(t, agent, "b"))
	})
}

func TestSelector(t *testing.T) {
	t.Run("Stops At First Success", func(t *testing.T) {
		a, b, c := fails(), succeeds(), succeeds()
		agent := newTestAgent(t, "sel", Selector("s",
			Leaf("a", a), Leaf("b", b), Leaf("c", c)))

		require.Equal(t, StatusSuccess, agent.Update())
		require.Equal(t, 1, a.calls)
		require.Equal(t, 1, b.calls)
		require.Equal(t, 0, c.calls)
		require.Equal(t, StatusInactive, statusOf(t, agent, "c"))
	})

	t.Run("Fails Only When All Fail", func(t *testing.T) {
		a, b := fails(), fails()
		agent := newTestAgent(t, "sel", Selector("s", Leaf("a", a), Leaf("b", b)))

		require.Equal(t, StatusFailure, agent.Update())
		require.Equal(t, 1, a.calls)
		require.Equal(t, 1, b.calls)
	})

	t.Run("Resumes At Running Child", func(t *testing.T) {
		cond := &stubCond{value: false}
		lo := runs()
		agent := newTestAgent(t, "sel", Selector("s",
			Guard("hi", cond, Leaf("hi-leaf", succeeds())),
			Leaf("lo", lo)))

		require.Equal(t, StatusRunning, agent.Update())
		require.Equal(t, 1, cond.calls)

		// while lo is Running the selector resumes at its slot; the failed
		// higher-priority guard is not re-polled
		require.Equal(t, StatusRunning, agent.Update())
		require.Equal(t, 1, cond.calls)
		require.Equal(t, 2, lo.calls)
	})

	t.Run("Re-Evaluates From Start After Running Child Finishes", func(t *testing.T) {
		cond := &stubCond{value: false}
		lo := &stubAction{statuses: []Status{StatusRunning, StatusSuccess}}
		agent := newTestAgent(t, "sel", Selector("s",
			Guard("hi", cond, Leaf("hi-leaf", succeeds())),
			Leaf("lo", lo)))

		require.Equal(t, StatusRunning, agent.Update())
		require.Equal(t, StatusSuccess, agent.Update())

		cond.value = true
		require.Equal(t, StatusSuccess, agent.Update())
		require.Equal(t, 2, cond.calls, "guard re-polled once lo left Running")
		require.Equal(t, StatusInactive, statusOf(t, agent, "lo"))
	})
}

func TestDecorator(t *testing.T) {
	t.Run("False Condition Skips Child", func(t *testing.T) {
		leaf := succeeds()
		cond := &stubCond{value: false}
		agent := newTestAgent(t, "deco", Guard("g", cond, Leaf("leaf", leaf)))

		require.Equal(t, StatusFailure, agent.Update())
		require.Equal(t, 0, leaf.calls)
	})

	t.Run("Latched While Child Running", func(t *testing.T) {
		leaf := &stubAction{statuses: []Status{StatusRunning, StatusRunning, StatusSuccess}}
		cond := &stubCond{value: true}
		agent := newTestAgent(t, "deco", Selector("s",
			Guard("g", cond, Leaf("leaf", leaf))))

		require.Equal(t, StatusRunning, agent.Update())
		require.Equal(t, 1, cond.calls)

		// condition flips but the child holds execution: no re-check, no
		// interruption until the leaf finishes on its own
		cond.value = false
		require.Equal(t, StatusRunning, agent.Update())
		require.Equal(t, 1, cond.calls)
		require.Zero(t, leaf.interrupts)

		require.Equal(t, StatusSuccess, agent.Update())

		// next activation starts fresh: condition polled, child skipped
		require.Equal(t, StatusFailure, agent.Update())
		require.Equal(t, 2, cond.calls)
		require.Equal(t, 3, leaf.calls)
	})

	t.Run("Dynamic Region Re-Checks Every Tick", func(t *testing.T) {
		leaf := runs()
		cond := &stubCond{value: true}
		agent := newTestAgent(t, "deco", Selector("s",
			Guard("g", cond, Leaf("leaf", leaf))).Dynamic())

		require.Equal(t, StatusRunning, agent.Update())
		require.Equal(t, 1, cond.calls)

		cond.value = false
		require.Equal(t, StatusFailure, agent.Update())
		require.Equal(t, 2, cond.calls)
		require.Equal(t, 1, leaf.interrupts)
		require.Equal(t, StatusInactive, statusOf(t, agent, "leaf"))
	})
}

func TestService(t *testing.T) {
	t.Run("RunOnEnter And Interval Cadence", func(t *testing.T) {
		fires := 0
		agent := newTestAgent(t, "svc",
			Service("scan", 3, true, func(_ *TickContext) { fires++ },
				Leaf("idle", runs())))

		agent.Update() // enter: RunOnEnter fires, timer = 3
		require.Equal(t, 1, fires)
		agent.Update() // 2
		agent.Update() // 1
		require.Equal(t, 1, fires)
		agent.Update() // 0 -> fire, reset
		require.Equal(t, 2, fires)
		agent.Update()
		agent.Update()
		agent.Update()
		require.Equal(t, 3, fires)
	})

	t.Run("Passes Child Status Through", func(t *testing.T) {
		agent := newTestAgent(t, "svc",
			Service("scan", 2, false, func(_ *TickContext) {},
				Leaf("work", &stubAction{statuses: []Status{StatusRunning, StatusFailure}})))

		require.Equal(t, StatusRunning, agent.Update())
		require.Equal(t, StatusFailure, agent.Update())
	})

	t.Run("Re-Entry Restarts Timer", func(t *testing.T) {
		fires := 0
		gate := &stubCond{value: true}
		agent := newTestAgent(t, "svc", Selector("root",
			Guard("gate", gate,
				Service("scan", 10, true, func(_ *TickContext) { fires++ },
					Leaf("idle", &stubAction{statuses: []Status{StatusSuccess}}))),
			Leaf("fallback", succeeds())))

		agent.Update()
		require.Equal(t, 1, fires)

		// leave the subtree, then come back: RunOnEnter fires again
		gate.value = false
		agent.Update()
		require.Equal(t, 1, fires)
		gate.value = true
		agent.Update()
		require.Equal(t, 2, fires)
	})
}

func TestLeafSlots(t *testing.T) {
	// a leaf persists progress across ticks in its auxiliary slots and the
	// slots survive interruption
	leaf := LeafFunc("counter", func(tc *TickContext) Status {
		n := tc.Slots[0].Int() + 1
		tc.Slots[0].SetInt(n)
		if n >= 3 {
			return StatusSuccess
		}
		return StatusRunning
	}).WithSlots(1)

	agent := newTestAgent(t, "slots", Sequence("s", leaf))
	require.Equal(t, StatusRunning, agent.Update())
	require.Equal(t, StatusRunning, agent.Update())
	require.Equal(t, StatusSuccess, agent.Update())

	// reset zeroes the slab
	agent.Reset()
	require.Equal(t, StatusRunning, agent.Update())
}

func TestAgentReset(t *testing.T) {
	leaf := runs()
	agent := newTestAgent(t, "reset", Sequence("s", Leaf("a", leaf)))
	require.Equal(t, StatusRunning, agent.Update())
	require.Equal(t, uint64(1), agent.Tick())

	agent.Reset()
	require.Equal(t, uint64(0), agent.Tick())
	require.Equal(t, StatusInactive, statusOf(t, agent, "a"))
}
