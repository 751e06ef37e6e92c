package main

// helper to track RAM usage while training on CPU

import (
	"sync"
	"syscall"
	"time"
)

// SI mirrors the linux sysinfo(2) fields the training loop reports.
type SI struct {
	Uptime   time.Duration // time since boot
	Procs    uint64        // number of current processes
	TotalRam uint64        // total usable main memory size [kB]
	FreeRam  uint64        // available memory size [kB]
	mu       sync.Mutex    // ensures atomic writes
}

var sis = &SI{}

// CPUInfo reads the linux sysinfo data structure.
func CPUInfo() *SI {
	si := &syscall.Sysinfo_t{}
	if err := syscall.Sysinfo(si); err != nil {
		panic("syscall.Sysinfo: " + err.Error())
	}

	defer sis.mu.Unlock()
	sis.mu.Lock()

	unit := uint64(si.Unit) * 1024 // kB

	sis.Uptime = time.Duration(si.Uptime) * time.Second
	sis.Procs = uint64(si.Procs)
	sis.TotalRam = uint64(si.Totalram) / unit
	sis.FreeRam = uint64(si.Freeram) / unit

	return sis
}
