// Package blob provides the key/value snapshot store the prep cache
// persists through.
//
// It defines a Store interface with memory, file, and Redis
// implementations. Values are opaque blobs; the cache serializes its own
// snapshots.
package blob
