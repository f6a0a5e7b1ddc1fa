// Package cache provides a small generic LRU cache used to keep compiled
// kernels and GPU pipelines alive across renders.
//
//	c := cache.New[string, []uint32](8)
//	words, err := c.GetOrCreate(path, compile)
//
// Entries that fail to build are never stored, so a later call retries.
// An optional eviction callback lets owners release GPU objects when an
// entry falls out of the cache or the cache is cleared.
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
