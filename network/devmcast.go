package network

import (
	"procread/field"
	"procread/token"
)

// McastEntry is one row of /proc/net/dev_mcast: a link layer multicast
// address joined on an interface.
type McastEntry struct {
	Index   uint32       `json:"index" yaml:"index"`
	Iface   string       `json:"iface" yaml:"iface"`
	Users   uint64       `json:"users" yaml:"users"`
	Global  uint64       `json:"global_users" yaml:"global_users"`
	Address HardwareAddr `json:"address" yaml:"address"`
}

func ParseMcastEntry(line string) (McastEntry, error) {
	r := field.NewReader(token.Fields(line), 0)
	e := McastEntry{
		Index:   r.Uint32("index"),
		Iface:   r.Next("iface"),
		Users:   r.Uint64("users"),
		Global:  r.Uint64("global_users"),
		Address: field.Take(r, "address", parseHexBytes),
	}
	if err := r.Done("dev_mcast"); err != nil {
		return McastEntry{}, err
	}
	return e, nil
}

// ParseDevMcast decodes /proc/net/dev_mcast, which has no header.
func ParseDevMcast(text string) ([]McastEntry, error) {
	return rows(token.Lines(text), "dev_mcast", 1, ParseMcastEntry)
}

// ParseIPTablesNames decodes /proc/net/ip_tables_names, one loaded table
// name per line.
func ParseIPTablesNames(text string) ([]string, error) {
	return rows(token.Lines(text), "ip_tables_names", 1, func(line string) (string, error) {
		toks := token.Fields(line)
		if err := toks.Expect(1, "table"); err != nil {
			return "", err
		}
		return toks[0], nil
	})
}
