package exchange

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrNotRegistered is returned by Get for an unknown exchange name.
	ErrNotRegistered = errors.New("exchange not registered")
	// ErrAlreadyRegistered is returned by Register when the name is taken.
	ErrAlreadyRegistered = errors.New("exchange already registered")
)

// Container owns the exchange clients of a process and closes them on exit.
// The CLI registers its client here and resolves it by the configured name.
type Container struct {
	mu        sync.RWMutex
	exchanges map[string]Exchange
}

func NewContainer() *Container {
	return &Container{
		exchanges: make(map[string]Exchange),
	}
}

// Register adds ex under name. A taken name is an error; the caller still
// owns ex in that case and must close it.
func (c *Container) Register(name string, ex Exchange) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.exchanges[name]; ok {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, name)
	}
	c.exchanges[name] = ex
	return nil
}

func (c *Container) Get(name string) (Exchange, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ex, ok := c.exchanges[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	return ex, nil
}

// Names returns the registered names in sorted order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return sortedKeys(c.exchanges)
}

// Remove closes the named exchange and drops it. Unknown names are a no-op.
func (c *Container) Remove(name string) error {
	c.mu.Lock()
	ex, ok := c.exchanges[name]
	delete(c.exchanges, name)
	c.mu.Unlock()

	if !ok {
		return nil
	}
	if err := ex.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}

// CloseAll closes every registered exchange and empties the container.
// The first close error is returned after all exchanges have been closed.
func (c *Container) CloseAll() error {
	c.mu.Lock()
	exchanges := c.exchanges
	c.exchanges = make(map[string]Exchange)
	c.mu.Unlock()

	var first error
	for _, name := range sortedKeys(exchanges) {
		if err := exchanges[name].Close(); err != nil && first == nil {
			first = fmt.Errorf("close %s: %w", name, err)
		}
	}
	return first
}

func sortedKeys(m map[string]Exchange) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
