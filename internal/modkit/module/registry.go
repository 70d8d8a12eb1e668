package module

import "sync"

// process registry of port sets, filled while the API is composed
var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register stores the port set of a module under name
func Register(name string, ports any) {
	mu.Lock()
	reg[name] = ports
	mu.Unlock()
}

// PortsAs fetches the port set under name and asserts it to T
func PortsAs[T any](name string) (T, bool) {
	mu.RLock()
	v, ok := reg[name]
	mu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	out, ok := v.(T)
	return out, ok
}

// Names lists registered module names
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(reg))
	for k := range reg {
		out = append(out, k)
	}
	return out
}

// Reset clears the registry
func Reset() {
	mu.Lock()
	reg = map[string]any{}
	mu.Unlock()
}
