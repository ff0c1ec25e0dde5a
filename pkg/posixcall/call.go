package posixcall

import (
	"runtime"

	"github.com/walteh/posixcall/pkg/errno"
	"github.com/walteh/posixcall/pkg/errnocell"
)

// call invokes native with the ambient error cell bracketed around it.
//
// On success the native result is returned unchanged. On failure, detected
// by the result domain's sentinel, the errno the native call left in cell is
// returned encoded as -errno. Either way cell holds on return exactly what
// it held on entry.
//
// The calling goroutine is locked to its thread for the duration so that
// the save, the native call and the restore all see the same cell.
func call[T errno.Result](cell errnocell.Cell, native func() T) T {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	saved := cell.Load()
	r := native()
	if r != errno.Sentinel[T]() {
		cell.Store(saved)
		return r
	}
	err := cell.Load()
	cell.Store(saved)
	return errno.Encode[T](err)
}
