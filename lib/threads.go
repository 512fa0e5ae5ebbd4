package lib

/* threads.go contains functions useful for multi-threading. */

import (
	"fmt"
	"runtime"
)

// SetThreads caps the number of OS threads running user code. Passing a
// non-positive n keeps one thread per core.
func SetThreads(n int) error {
	if n > runtime.NumCPU() {
		return fmt.Errorf("%d threads requested, but your system only has "+
			"%d cores. If you want to use the maximum number of threads, "+
			"set Threads=-1.", n, runtime.NumCPU())
	}
	if n <= 0 {
		n = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(n)
	return nil
}
