// Package cards keeps the in-memory card snapshot in step with the store.
//
// Rebuild is the only code path that writes the cache: it reloads the full
// collection from the store and swaps it in while holding a service-wide
// mutex, so rebuilds never interleave and the last one to run always reads
// the newest committed state. Add and Delete mutate the store and then
// rebuild before returning; the refresher rebuilds on a timer; Seed inserts
// a placeholder card into an empty store once at startup.
package cards
