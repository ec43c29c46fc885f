// Package casing translates map keys between the wire naming convention
// (snake_case) and the internal naming convention (camelCase).
//
// Translation is total and recursive over JSON-like values: maps, slices,
// scalars, and nil. Opaque payloads such as multipart bodies are passed
// through untouched.
package casing
