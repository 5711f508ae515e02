package cache

// Cache defines a whole-collection read cache. There is no per-key access,
// eviction, or partial invalidation: the content is always replaced at once.
type Cache[T any] interface {
	// Load returns a copy of the current collection. It never returns nil.
	Load() []T

	// Replace atomically swaps the entire collection for items.
	Replace(items []T)

	// Len returns the number of items in the current collection.
	Len() int

	// Version returns how many times Replace has been called.
	Version() uint64
}
