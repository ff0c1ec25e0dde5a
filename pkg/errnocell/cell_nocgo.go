//go:build !cgo || !(linux || darwin)

package errnocell

var defaultCell Cell = NewTable()
