// Package network decodes the tables under /proc/net: arp, route, dev,
// dev_mcast, netstat, snmp, snmp6 and ip_tables_names.
//
// Addresses are returned as net/netip and net types. Like package system,
// every Parse function returns the whole table or the first procerr error.
package network
