// Package repository implements the passive data holders of the system: the
// event catalog and the session store. Both persist through a kv.Store and
// load lazily on first access.
package repository

// loadState tags whether a store has read its backing key yet.
type loadState int

const (
	stateUninitialized loadState = iota
	stateLoaded
)

func (s loadState) String() string {
	switch s {
	case stateLoaded:
		return "loaded"
	default:
		return "uninitialized"
	}
}
