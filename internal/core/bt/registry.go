package bt

import (
	"fmt"
	"sync"
)

// Registry maps authored names to action, condition and service factories so
// tree documents can reference behavior by name. It decouples asset loading
// from concrete implementations.
type Registry struct {
	mu    sync.RWMutex
	acts  map[string]func(params map[string]any) (Action, error)
	conds map[string]func(params map[string]any) (Condition, error)
	svcs  map[string]func(params map[string]any) (ServiceFunc, error)
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		acts:  make(map[string]func(map[string]any) (Action, error)),
		conds: make(map[string]func(map[string]any) (Condition, error)),
		svcs:  make(map[string]func(map[string]any) (ServiceFunc, error)),
	}
}

func (r *Registry) RegisterAction(name string, factory func(params map[string]any) (Action, error)) {
	r.mu.Lock()
	r.acts[name] = factory
	r.mu.Unlock()
}

func (r *Registry) RegisterCondition(name string, factory func(params map[string]any) (Condition, error)) {
	r.mu.Lock()
	r.conds[name] = factory
	r.mu.Unlock()
}

func (r *Registry) RegisterService(name string, factory func(params map[string]any) (ServiceFunc, error)) {
	r.mu.Lock()
	r.svcs[name] = factory
	r.mu.Unlock()
}

func (r *Registry) NewAction(name string, params map[string]any) (Action, error) {
	r.mu.RLock()
	f := r.acts[name]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("unknown action: %s", name)
	}
	return f(params)
}

func (r *Registry) NewCondition(name string, params map[string]any) (Condition, error) {
	r.mu.RLock()
	f := r.conds[name]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("unknown condition: %s", name)
	}
	return f(params)
}

func (r *Registry) NewService(name string, params map[string]any) (ServiceFunc, error) {
	r.mu.RLock()
	f := r.svcs[name]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("unknown service: %s", name)
	}
	return f(params)
}
