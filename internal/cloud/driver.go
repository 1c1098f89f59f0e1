package cloud

import (
	"context"
	"errors"
	"sync"
)

var ErrUnknownDriver = errors.New("unknown cloud driver")

// Driver lists the private addresses of the nodes a cloud provider reports
// for a named cluster. Implementations live outside this module and are
// registered at process startup.
type Driver interface {
	ListPrivateIPs(ctx context.Context, clusterName string) ([]string, error)
}

// Registry holds the cloud drivers available to the discovery builder.
type Registry struct {
	mu      sync.RWMutex
	drivers map[string]Driver
}

func NewRegistry() *Registry {
	return &Registry{drivers: make(map[string]Driver)}
}

// Register installs a driver under a name, replacing any previous one.
func (r *Registry) Register(name string, d Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[name] = d
}

func (r *Registry) Get(name string) (Driver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drivers[name]
	return d, ok
}
