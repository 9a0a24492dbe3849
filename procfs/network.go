package procfs

import (
	"procread/network"
	"procread/process"
)

// /proc/net resolves to the network namespace of the reading process.
// NetDevOf goes through another process to see its namespace.

func (fs *FS) Arp() ([]network.ArpEntry, error) {
	return readAs(fs, network.ParseArp, "net", "arp")
}

func (fs *FS) Routes() ([]network.Route, error) {
	return readAs(fs, network.ParseRoutes, "net", "route")
}

func (fs *FS) NetDev() ([]network.DevStat, error) {
	return readAs(fs, network.ParseNetDev, "net", "dev")
}

// NetDevOf reads the interface counters of pid's network namespace.
func (fs *FS) NetDevOf(pid process.ProcessID) ([]network.DevStat, error) {
	return readAs(fs, network.ParseNetDev, pidDir(pid), "net", "dev")
}

func (fs *FS) DevMcast() ([]network.McastEntry, error) {
	return readAs(fs, network.ParseDevMcast, "net", "dev_mcast")
}

func (fs *FS) Netstat() (network.Counters, error) {
	return readAs(fs, network.ParseNetstat, "net", "netstat")
}

func (fs *FS) SNMP() (network.Counters, error) {
	return readAs(fs, network.ParseSNMP, "net", "snmp")
}

func (fs *FS) SNMP6() (network.Counters, error) {
	return readAs(fs, network.ParseSNMP6, "net", "snmp6")
}

// IPTablesNames reads the loaded iptables tables, root-only.
func (fs *FS) IPTablesNames() ([]string, error) {
	return readAs(fs, network.ParseIPTablesNames, "net", "ip_tables_names")
}
