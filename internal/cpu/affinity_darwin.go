//go:build darwin

package cpu

import (
	"runtime"
)

// LockWorker locks the goroutine to an OS thread.
// CPU pinning is not available on macOS, so pin is ignored.
func LockWorker(workerID int, pin bool) func() {
	runtime.LockOSThread()
	return runtime.UnlockOSThread
}

// PinningSupported reports whether LockWorker can pin threads on this platform.
func PinningSupported() bool { return false }
