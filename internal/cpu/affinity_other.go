//go:build !linux && !darwin && !windows

package cpu

import "runtime"

// LockWorker locks the goroutine to an OS thread. Pinning is unsupported here.
func LockWorker(workerID int, pin bool) func() {
	runtime.LockOSThread()
	return runtime.UnlockOSThread
}

// PinningSupported reports whether LockWorker can pin threads on this platform.
func PinningSupported() bool { return false }
