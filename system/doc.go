// Package system decodes the system-wide files at the top of /proc: stat,
// interrupts, pagetypeinfo, buddyinfo, meminfo, loadavg, uptime, mounts,
// diskstats, cpuinfo, crypto, swaps, partitions, filesystems, devices,
// modules, ioports, iomem, locks and slabinfo.
//
// Each Parse function takes the whole text of one file and either returns the
// complete record or the first procerr error. Nothing is returned on failure.
package system
