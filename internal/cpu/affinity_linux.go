//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinToCore pins the current OS thread to a specific CPU core and returns
// the mask that was in effect before. Must be called after runtime.LockOSThread().
//
// cpuID is wrapped into [0, runtime.NumCPU()-1].
func pinToCore(cpuID int) (unix.CPUSet, error) {
	var prev unix.CPUSet
	if err := unix.SchedGetaffinity(0, &prev); err != nil {
		return prev, err
	}

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(coreFor(cpuID))

	if err := unix.SchedSetaffinity(0, &mask); err != nil { // 0 = current thread
		return prev, err
	}
	return prev, nil
}

// LockWorker locks the calling goroutine to its OS thread and, when pin is
// set, pins that thread to core (workerID mod NumCPU). The returned function
// restores the previous affinity mask and unlocks the thread; it must be
// called from the same goroutine.
//
// Pinning is best effort: a failing sched_setaffinity leaves the thread
// locked but unpinned.
func LockWorker(workerID int, pin bool) func() {
	runtime.LockOSThread()
	if !pin {
		return runtime.UnlockOSThread
	}

	prev, err := pinToCore(workerID)
	if err != nil {
		return runtime.UnlockOSThread
	}

	return func() {
		_ = unix.SchedSetaffinity(0, &prev)
		runtime.UnlockOSThread()
	}
}

// PinningSupported reports whether LockWorker can pin threads on this platform.
func PinningSupported() bool { return true }
