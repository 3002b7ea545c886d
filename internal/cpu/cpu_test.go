package cpu

import (
	"runtime"
	"testing"
)

func TestCoreFor_WrapsIntoRange(t *testing.T) {
	n := runtime.NumCPU()
	for _, id := range []int{0, 1, n - 1, n, n + 3, -1, -n - 2} {
		got := coreFor(id)
		if got < 0 || got >= n {
			t.Errorf("coreFor(%d) = %d, want value in [0, %d)", id, got, n)
		}
	}
	if coreFor(n) != 0 {
		t.Errorf("coreFor(%d) = %d, want 0", n, coreFor(n))
	}
}

func TestLockWorker_ReleasesThread(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, pin := range []bool{false, true} {
			release := LockWorker(3, pin)
			release()
		}
	}()
	<-done
}
