// Package metric defines metric identities. A metric carries its own
// optimization direction; ranking code must never assume one.
package metric

import (
	"fmt"
	"sort"
	"sync"
)

// Metric identifies a performance metric and its natural direction.
type Metric struct {
	Name     string
	Maximize bool
}

var (
	mu       sync.RWMutex
	registry = map[string]Metric{}
)

func init() {
	for _, m := range []Metric{
		{Name: "rmse", Maximize: false},
		{Name: "mae", Maximize: false},
		{Name: "rsq", Maximize: true},
		{Name: "accuracy", Maximize: true},
		{Name: "roc_auc", Maximize: true},
	} {
		registry[m.Name] = m
	}
}

// Register adds a custom metric identity. Registering a name twice is a
// programmer error.
func Register(m Metric) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[m.Name]; exists {
		panic(fmt.Sprintf("metric %q already registered", m.Name))
	}
	registry[m.Name] = m
}

// Lookup resolves a metric name to its identity.
func Lookup(name string) (Metric, error) {
	mu.RLock()
	defer mu.RUnlock()
	m, ok := registry[name]
	if !ok {
		return Metric{}, fmt.Errorf("unknown metric %q", name)
	}
	return m, nil
}

// Names returns the registered metric names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
