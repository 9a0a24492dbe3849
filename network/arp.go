package network

import (
	"net/netip"

	"procread/field"
	"procread/token"
)

// ARP entry flags (include/uapi/linux/if_arp.h).
const (
	ArpComplete  = 0x02
	ArpPermanent = 0x04
	ArpPublish   = 0x08
)

// ArpEntry is one row of /proc/net/arp.
type ArpEntry struct {
	IP     netip.Addr   `json:"ip" yaml:"ip"`
	HWType uint64       `json:"hw_type" yaml:"hw_type"`
	Flags  uint64       `json:"flags" yaml:"flags"`
	HWAddr HardwareAddr `json:"hw_addr" yaml:"hw_addr"`
	Mask   string       `json:"mask" yaml:"mask"`
	Device string       `json:"device" yaml:"device"`
}

// Complete reports whether the neighbour has been resolved.
func (e ArpEntry) Complete() bool {
	return e.Flags&ArpComplete != 0
}

func ParseArpEntry(line string) (ArpEntry, error) {
	r := field.NewReader(token.Fields(line), 0)
	e := ArpEntry{
		IP:     field.Take(r, "ip", parseIPv4),
		HWType: field.Take(r, "hw_type", parsePrefixedHex),
		Flags:  field.Take(r, "flags", parsePrefixedHex),
		HWAddr: field.Take(r, "hw_addr", parseMAC),
		Mask:   r.Next("mask"),
		Device: r.Next("device"),
	}
	if err := r.Done("arp"); err != nil {
		return ArpEntry{}, err
	}
	return e, nil
}

// ParseArp decodes /proc/net/arp.
func ParseArp(text string) ([]ArpEntry, error) {
	lines, err := headed(text, "arp", "IP", "address", "HW", "type", "Flags", "HW", "address", "Mask", "Device")
	if err != nil {
		return nil, err
	}
	return rows(lines, "arp", 2, ParseArpEntry)
}
