package excreg

import (
	"sync"

	"github.com/wippyai/imath-bind/iex"
)

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry. On first use it mirrors every
// iex and imath exception class into host modules named after their library
// and seals the registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		r := New()
		var classes []*iex.Class
		for _, c := range iex.All() {
			if c.Library() == iex.LibraryIex || c.Library() == iex.LibraryImath {
				classes = append(classes, c)
			}
		}
		if err := r.RegisterAll(classes, (*iex.Class).Library); err != nil {
			// The catalogue is static; a failure here is a programming error.
			panic(err)
		}
		r.Seal()
		defaultRegistry = r
	})
	return defaultRegistry
}
