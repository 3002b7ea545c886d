// Package profiling writes optional CPU and heap profiles around a run.
package profiling

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
)

// Start enables CPU profiling to cpuProfile and schedules a heap profile to
// memProfile; empty paths disable the respective profile. The returned stop
// function finishes both and must be called once the run is over.
func Start(cpuProfile, memProfile string, logger *slog.Logger) (stop func(), err error) {
	if logger == nil {
		logger = slog.Default()
	}
	cleanups := make([]func(), 0, 2)

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			return nil, fmt.Errorf("create CPU profile: %w", err)
		}

		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("start CPU profile: %w", err)
		}

		logger.Info("CPU profiling enabled", "path", cpuProfile)

		cleanups = append(cleanups, func() {
			pprof.StopCPUProfile()
			if err := f.Close(); err != nil {
				logger.Warn("closing CPU profile", "path", cpuProfile, "error", err)
			}
		})
	}

	if memProfile != "" {
		cleanups = append(cleanups, func() {
			if err := writeHeapProfile(memProfile); err != nil {
				logger.Warn("writing memory profile", "path", memProfile, "error", err)
				return
			}
			logger.Info("memory profile written", "path", memProfile)
		})
	}

	return func() {
		for _, cleanup := range cleanups {
			cleanup()
		}
	}, nil
}

func writeHeapProfile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
