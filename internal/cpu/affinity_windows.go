//go:build windows

package cpu

import (
	"runtime"
	"syscall"
)

var (
	kernel32              = syscall.NewLazyDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
	getCurrentThread      = kernel32.NewProc("GetCurrentThread")
)

// pinToCore pins the current OS thread to a specific CPU core.
// Must be called after runtime.LockOSThread().
//
// cpuID is wrapped into [0, runtime.NumCPU()-1].
// Returns the previous affinity mask on success.
func pinToCore(cpuID int) (uintptr, error) {
	handle, _, _ := getCurrentThread.Call()

	// Bit N = CPU N, so for CPU 0 it's 1, for CPU 1 it's 2, etc.
	mask := uintptr(1) << uint(coreFor(cpuID))

	prevMask, _, err := setThreadAffinityMask.Call(handle, mask)
	if prevMask == 0 {
		return 0, err
	}
	return prevMask, nil
}

// LockWorker locks the calling goroutine to its OS thread and, when pin is
// set, pins that thread to core (workerID mod NumCPU). The returned function
// restores the previous affinity mask and unlocks the thread.
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
		handle, _, _ := getCurrentThread.Call()
		_, _, _ = setThreadAffinityMask.Call(handle, prev)
		runtime.UnlockOSThread()
	}
}

// PinningSupported reports whether LockWorker can pin threads on this platform.
func PinningSupported() bool { return true }
