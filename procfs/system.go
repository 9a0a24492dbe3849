package procfs

import (
	"procread/process"
	"procread/system"
	"procread/token"
)

// readAs reads one file under the root and decodes it with parse.
func readAs[T any](fs *FS, parse func(string) (T, error), elem ...string) (T, error) {
	text, err := fs.read(elem...)
	if err != nil {
		var zero T
		return zero, err
	}
	return parse(text)
}

func (fs *FS) SystemStat() (system.SystemStat, error) {
	return readAs(fs, system.ParseSystemStat, "stat")
}

func (fs *FS) Interrupts() (system.Interrupts, error) {
	return readAs(fs, system.ParseInterrupts, "interrupts")
}

// PageTypeInfo reads /proc/pagetypeinfo, which is root-only on most kernels.
func (fs *FS) PageTypeInfo() (system.PageTypeInfo, error) {
	return readAs(fs, system.ParsePageTypeInfo, "pagetypeinfo")
}

func (fs *FS) BuddyInfo() ([]system.BuddyInfo, error) {
	return readAs(fs, system.ParseBuddyInfo, "buddyinfo")
}

func (fs *FS) MemInfo() (system.MemInfo, error) {
	return readAs(fs, system.ParseMemInfo, "meminfo")
}

func (fs *FS) LoadAvg() (system.LoadAvg, error) {
	return readAs(fs, system.ParseLoadAvg, "loadavg")
}

func (fs *FS) Uptime() (system.Uptime, error) {
	return readAs(fs, system.ParseUptime, "uptime")
}

func (fs *FS) DiskStats() ([]system.DiskStat, error) {
	return readAs(fs, system.ParseDiskStats, "diskstats")
}

// Mounts reads the mount table as seen by pid.
func (fs *FS) Mounts(pid process.ProcessID) ([]system.Mount, error) {
	mounts, err := readAs(fs, system.ParseMounts, pidDir(pid), "mounts")
	if err != nil {
		return nil, err
	}
	if fs.unescape {
		for i := range mounts {
			mounts[i].Device = token.UnescapeOctal(mounts[i].Device)
			mounts[i].MountPoint = token.UnescapeOctal(mounts[i].MountPoint)
		}
	}
	return mounts, nil
}

func (fs *FS) CpuInfo() (system.CpuInfo, error) {
	return readAs(fs, system.ParseCpuInfo, "cpuinfo")
}

func (fs *FS) Crypto() ([]system.CryptoAlg, error) {
	return readAs(fs, system.ParseCrypto, "crypto")
}

func (fs *FS) Swaps() ([]system.Swap, error) {
	swaps, err := readAs(fs, system.ParseSwaps, "swaps")
	if err != nil {
		return nil, err
	}
	if fs.unescape {
		for i := range swaps {
			swaps[i].Filename = token.UnescapeOctal(swaps[i].Filename)
		}
	}
	return swaps, nil
}

func (fs *FS) Partitions() ([]system.Partition, error) {
	return readAs(fs, system.ParsePartitions, "partitions")
}

func (fs *FS) Filesystems() ([]system.Filesystem, error) {
	return readAs(fs, system.ParseFilesystems, "filesystems")
}

func (fs *FS) Devices() (system.Devices, error) {
	return readAs(fs, system.ParseDevices, "devices")
}

func (fs *FS) Modules() ([]system.Module, error) {
	return readAs(fs, system.ParseModules, "modules")
}

func (fs *FS) IOPorts() (system.Resources, error) {
	return readAs(fs, resourcesOf("ioports"), "ioports")
}

// IOMem reads /proc/iomem. Addresses read as zero without CAP_SYS_ADMIN.
func (fs *FS) IOMem() (system.Resources, error) {
	return readAs(fs, resourcesOf("iomem"), "iomem")
}

func resourcesOf(format string) func(string) (system.Resources, error) {
	return func(text string) (system.Resources, error) {
		return system.ParseResources(text, format)
	}
}

func (fs *FS) Locks() ([]system.Lock, error) {
	return readAs(fs, system.ParseLocks, "locks")
}

// SlabInfo reads /proc/slabinfo, which is root-only.
func (fs *FS) SlabInfo() ([]system.SlabCache, error) {
	return readAs(fs, system.ParseSlabInfo, "slabinfo")
}
