// Package gen implements component H of SPEC_FULL.md: the .proto and
// native Go code generators driven off a parsed .odvd corpus, plus the
// runtime registry generated code registers itself into so other packages
// can construct a message by long name without importing its generated
// package directly.
package gen

import (
	"fmt"
	"sync"

	"github.com/cluon-io/cluon/odvd"
)

// Factory constructs a fresh message instance with its fields set to their
// schema-declared defaults.
type Factory func() odvd.Described

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register installs factory under longName. Generated code calls this from
// an init() function, matching protoc-gen-go's own registration pattern
// for its generated message types.
func Register(longName string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[longName] = factory
}

// Lookup returns the factory registered for longName, if any.
func Lookup(longName string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[longName]
	return f, ok
}

// New constructs a new instance of longName via its registered factory.
func New(longName string) (odvd.Described, error) {
	f, ok := Lookup(longName)
	if !ok {
		return nil, fmt.Errorf("gen: no type registered for %q", longName)
	}
	return f(), nil
}
