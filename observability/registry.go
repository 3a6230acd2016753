package observability

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// ErrUnknownObserver is returned when no observer is registered under a name.
var ErrUnknownObserver = errors.New("unknown observer")

var (
	observers = map[string]Observer{
		"noop": NoOpObserver{},
	}
	mutex sync.RWMutex
)

// GetObserver returns a registered observer by name. "noop" is always
// available; "slog" resolves to the process default logger at lookup time
// unless it has been replaced.
func GetObserver(name string) (Observer, error) {
	mutex.RLock()
	defer mutex.RUnlock()

	if obs, exists := observers[name]; exists {
		return obs, nil
	}
	if name == "slog" {
		return NewSlogObserver(slog.Default()), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownObserver, name)
}

// RegisterObserver adds or replaces a named observer in the global registry.
func RegisterObserver(name string, observer Observer) {
	mutex.Lock()
	defer mutex.Unlock()

	observers[name] = observer
}

// ObserverNames returns the registered names, including "slog", sorted.
func ObserverNames() []string {
	mutex.RLock()
	defer mutex.RUnlock()

	names := make([]string, 0, len(observers)+1)
	for name := range observers {
		names = append(names, name)
	}
	if !slices.Contains(names, "slog") {
		names = append(names, "slog")
	}
	slices.Sort(names)
	return names
}
