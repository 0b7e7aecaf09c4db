package utils

import (
	"runtime"
)

// MemUsage reports heap in use and memory obtained from the OS, in MiB, and the GC count
func MemUsage() (allocMiB, sysMiB uint64, numGC uint32) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc >> 20, m.Sys >> 20, m.NumGC
}
