package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tickmind/tickmind/internal/core/bt"
	"github.com/tickmind/tickmind/internal/core/observability/log"
	"github.com/tickmind/tickmind/internal/inspector"
)

var (
	keyEnemyVisible = bt.Key("enemy_visible")
	keyEnemyPos     = bt.Key("enemy_pos")
	keyPatrolTarget = bt.Key("patrol_target")
)

// guardTree builds the demo tree: engage a visible enemy, otherwise patrol
// under a periodic scan service. The enemy-visible guard watches its key with
// Both aborts so spotting an enemy pre-empts the patrol and losing sight
// abandons the engagement within the same tick.
func guardTree() (*bt.Definition, error) {
	engage := bt.Sequence("engage",
		bt.LeafFunc("aim", func(t *bt.TickContext) bt.Status {
			// two ticks of aiming, progress kept in slot 0
			progress := t.Slots[0].Int()
			if progress < 2 {
				t.Slots[0].SetInt(progress + 1)
				return bt.StatusRunning
			}
			t.Slots[0].SetInt(0)
			return bt.StatusSuccess
		}).WithSlots(1),
		bt.LeafFunc("attack", func(t *bt.TickContext) bt.Status {
			return bt.StatusSuccess
		}),
	)

	patrol := bt.Service("scan", 5, true, func(t *bt.TickContext) {
		// periodic scan: pick the next patrol target deterministically
		x := float64(t.Rand.Intn(100))
		y := float64(t.Rand.Intn(100))
		_ = t.Board.SetVec2(keyPatrolTarget, x, y)
	},
		bt.LeafFunc("patrol", func(t *bt.TickContext) bt.Status {
			return bt.StatusRunning
		}),
	)

	root := bt.Selector("behavior",
		bt.GuardFunc("enemy-visible", func(t *bt.TickContext) bool {
			visible, err := t.Board.GetBool(keyEnemyVisible)
			return err == nil && visible
		}, engage).Watch("enemy_visible", bt.AbortBoth),
		patrol,
	)
	return bt.Compile("sentry", root)
}

func main() {
	var (
		agents  = flag.Int("agents", 8, "number of agents to simulate")
		ticks   = flag.Uint64("ticks", 200, "simulation ticks to run (0 = until interrupted)")
		seed    = flag.Uint64("seed", 1, "shared simulation seed")
		rate    = flag.Duration("rate", 50*time.Millisecond, "wall-clock pacing per tick")
		inspect = flag.String("inspect", "", "inspector listen address (e.g. :8077), empty to disable")
	)
	flag.Parse()

	logger := log.New(log.LevelInfo)
	mgr := bt.NewManager(*seed, logger)

	def, err := guardTree()
	if err != nil {
		fmt.Fprintln(os.Stderr, "compile tree:", err)
		os.Exit(1)
	}
	for i := 0; i < *agents; i++ {
		if _, err := mgr.SpawnWithID(fmt.Sprintf("sentry-%02d", i), def); err != nil {
			fmt.Fprintln(os.Stderr, "spawn:", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-stopCh
		cancel()
	}()

	var insp *inspector.Server
	if *inspect != "" {
		insp = inspector.New(*inspect, *rate, mgr, logger)
		insp.Start()
	}

	ticker := time.NewTicker(*rate)
	defer ticker.Stop()

	first, _ := mgr.Agent("sentry-00")
	for {
		select {
		case <-ctx.Done():
			logger.Info("interrupted", zap.Uint64("tick", mgr.Tick()))
			shutdown(insp, mgr)
			return
		case <-ticker.C:
		}

		mgr.Update()
		tick := mgr.Tick()

		// scripted stimulus: the first sentry spots an enemy for a while
		if first != nil {
			switch tick {
			case 20:
				_ = first.Board().SetBool(keyEnemyVisible, true)
				_ = first.Board().SetVec2(keyEnemyPos, 12, 34)
			case 40:
				_ = first.Board().SetBool(keyEnemyVisible, false)
			}
		}

		if *ticks > 0 && tick >= *ticks {
			logger.Info("simulation finished", zap.Uint64("tick", tick))
			shutdown(insp, mgr)
			return
		}
	}
}

func shutdown(insp *inspector.Server, mgr *bt.Manager) {
	if insp != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = insp.Stop(ctx)
	}
	for _, s := range mgr.Snapshots() {
		_ = mgr.Despawn(s.AgentID)
	}
}
