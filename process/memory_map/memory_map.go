package memory_map

import (
	"fmt"
	"sort"
)

// MemoryMapping is one line of /proc/[pid]/maps
type MemoryMapping struct {
	Start   uint64  // first address of the region
	End     uint64  // one past the last address
	Perms   Perms   // r/w/x and shared-vs-private
	Offset  uint64  // offset into the backing file
	Device  Device  // backing device
	Inode   uint64  // backing inode, 0 for anonymous memory
	Path    PathTag // what backs the region
	Deleted bool    // the backing file was unlinked after mapping
}

// Device is a major:minor device pair
type Device struct {
	Major uint32
	Minor uint32
}

func (d Device) String() string {
	return fmt.Sprintf("%02x:%02x", d.Major, d.Minor)
}

// Size returns the size of the region in bytes
func (m MemoryMapping) Size() uint64 {
	return m.End - m.Start
}

// Contains reports whether addr lies inside the region
func (m MemoryMapping) Contains(addr uint64) bool {
	return addr >= m.Start && addr < m.End
}

// String returns a string representation of the mapping
func (m MemoryMapping) String() string {
	s := fmt.Sprintf("%x-%x %s %08x %s %d %s", m.Start, m.End, m.Perms, m.Offset, m.Device, m.Inode, m.Path)
	if m.Deleted {
		s += " (deleted)"
	}
	return s
}

// Maps is the ordered content of a maps file. The kernel prints regions in
// ascending address order and Parse keeps that order.
type Maps []MemoryMapping

// Lookup returns the region containing addr, scanning every entry
func (mm Maps) Lookup(addr uint64) (MemoryMapping, bool) {
	for _, item := range mm {
		if item.Contains(addr) {
			return item, true
		}
	}
	return MemoryMapping{}, false
}

// Search is Lookup by binary search. It requires ascending order, which holds
// for anything decoded straight from the kernel.
func (mm Maps) Search(addr uint64) (MemoryMapping, bool) {
	i := sort.Search(len(mm), func(i int) bool {
		return mm[i].End > addr
	})
	if i < len(mm) && mm[i].Start <= addr {
		return mm[i], true
	}
	return MemoryMapping{}, false
}

// Readable returns the regions with read permission, in order
func (mm Maps) Readable() Maps {
	var out Maps
	for _, item := range mm {
		if item.Perms.Read {
			out = append(out, item)
		}
	}
	return out
}

// ByPath returns the regions backed by the given file
func (mm Maps) ByPath(path string) Maps {
	var out Maps
	for _, item := range mm {
		if p, ok := item.Path.(Path); ok && p.Name == path {
			out = append(out, item)
		}
	}
	return out
}
