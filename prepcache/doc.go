// Package prepcache caches interview preps assembled from one primary
// fetch plus eight independent enrichment fetches.
//
// The store is read-through: a cached entry is returned instantly, with
// enrichment slots filling in from a background fan-out as each fetch
// completes. Partially enriched entries are first-class; the entry map
// is persisted across restarts through a blob.Store.
package prepcache
