// Package libc provides the native operations wrapped by package posixcall,
// in the C library's calling convention.
//
// Each operation returns its failure sentinel (-1, or MapFailed for Mmap)
// after storing the error number in the ambient error cell, and leaves the
// cell alone on success. This is the contract the errno-encoding adapter
// relies on; callers that want an error value should use posixcall instead.
//
// The package is implemented for linux and darwin. On darwin, operations
// without a native counterpart fall back to a simpler call (see
// doc_darwin.go).
package libc
