//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/tickmind/tickmind/internal/core/bt"
	"github.com/tickmind/tickmind/internal/core/observability/log"
)

// ProvideManager wires the process default logger into an agent manager for
// the given simulation seed.
func ProvideManager(seed uint64) *bt.Manager {
	wire.Build(log.Provide, bt.NewManager)
	return nil
}
