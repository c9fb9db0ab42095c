package weld

import (
	"runtime"
	"strconv"
	"strings"
)

// resolutionChain records the keys a single goroutine is currently resolving,
// in order, so cycles can be reported with the full path.
type resolutionChain struct {
	seen map[string]struct{}
	path []string
}

// enterResolution marks key as in flight for the calling goroutine. It
// returns CircularDependencyError if the goroutine is already resolving key.
// The returned func unwinds the chain and must be deferred.
func (c *Container) enterResolution(key string) (func(), error) {
	id := goid()

	var chain *resolutionChain
	if v, ok := c.resolving.Load(id); ok {
		chain = v.(*resolutionChain)
	} else {
		chain = &resolutionChain{seen: make(map[string]struct{}, 8)}
		c.resolving.Store(id, chain)
	}

	if _, inFlight := chain.seen[key]; inFlight {
		cycle := make([]string, 0, len(chain.path)+1)
		cycle = append(cycle, chain.path...)
		cycle = append(cycle, key)
		return nil, &CircularDependencyError{Chain: cycle}
	}

	chain.seen[key] = struct{}{}
	chain.path = append(chain.path, key)

	return func() {
		delete(chain.seen, key)
		chain.path = chain.path[:len(chain.path)-1]
		if len(chain.path) == 0 {
			c.resolving.Delete(id)
		}
	}, nil
}

// goid returns the current goroutine ID by parsing the stack header.
// Resolution chains are keyed by it so concurrent resolutions do not observe
// each other's in-flight keys.
func goid() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	field := strings.Fields(strings.TrimPrefix(string(buf[:n]), "goroutine "))[0]
	id, _ := strconv.ParseInt(field, 10, 64)
	return id
}
