package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"procread/process"
)

// parsePID reads the optional pid argument. No argument and "self" both mean
// the reading process.
func parsePID(args []string) (process.ProcessID, error) {
	if len(args) == 0 || args[0] == "self" {
		return process.Self, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid pid %q", args[0])
	}
	return process.ProcessID(n), nil
}

// readCommand builds a subcommand that reads one record and prints it.
func (a *app) readCommand(use, short string, args cobra.PositionalArgs, read func(args []string) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := read(args)
			if err != nil {
				return err
			}
			return a.emit(v)
		},
	}
}

// pidCommand builds a subcommand taking an optional pid.
func (a *app) pidCommand(name, short string, read func(pid process.ProcessID) (any, error)) *cobra.Command {
	return a.readCommand(name+" [pid]", short, cobra.MaximumNArgs(1), func(args []string) (any, error) {
		pid, err := parsePID(args)
		if err != nil {
			return nil, err
		}
		return read(pid)
	})
}

func (a *app) processCommands() []*cobra.Command {
	var tid int
	pidstat := a.pidCommand("pidstat", "Decode /proc/[pid]/stat or a thread's stat", func(pid process.ProcessID) (any, error) {
		if tid > 0 {
			return a.fs.ThreadStat(pid, process.ProcessID(tid))
		}
		return a.fs.Stat(pid)
	})
	pidstat.Flags().IntVar(&tid, "tid", 0, "read /proc/[pid]/task/[tid]/stat instead")

	return []*cobra.Command{
		a.pidCommand("maps", "Decode /proc/[pid]/maps", func(pid process.ProcessID) (any, error) {
			return a.fs.Maps(pid)
		}),
		pidstat,
		a.pidCommand("statm", "Decode /proc/[pid]/statm", func(pid process.ProcessID) (any, error) {
			return a.fs.Statm(pid)
		}),
		a.pidCommand("status", "Decode /proc/[pid]/status", func(pid process.ProcessID) (any, error) {
			return a.fs.Status(pid)
		}),
		a.pidCommand("info", "Summarise a process from stat and status", func(pid process.ProcessID) (any, error) {
			return a.fs.Info(pid)
		}),
		a.pidCommand("mounts", "Decode /proc/[pid]/mounts", func(pid process.ProcessID) (any, error) {
			return a.fs.Mounts(pid)
		}),
		a.pidCommand("environ", "Decode /proc/[pid]/environ", func(pid process.ProcessID) (any, error) {
			return a.fs.Environ(pid)
		}),
		a.pidCommand("cmdline", "Decode /proc/[pid]/cmdline", func(pid process.ProcessID) (any, error) {
			return a.fs.Cmdline(pid)
		}),
		a.pidCommand("comm", "Show /proc/[pid]/comm", func(pid process.ProcessID) (any, error) {
			return a.fs.Comm(pid)
		}),
	}
}

type reader struct {
	name, short string
	read        func() (any, error)
}

// fileCommands builds one argument-less subcommand per reader.
func (a *app) fileCommands(readers []reader) []*cobra.Command {
	cmds := make([]*cobra.Command, len(readers))
	for i, r := range readers {
		cmds[i] = a.readCommand(r.name, r.short, cobra.NoArgs, func([]string) (any, error) {
			return r.read()
		})
	}
	return cmds
}

func (a *app) systemCommands() []*cobra.Command {
	return a.fileCommands([]reader{
		{"stat", "Decode /proc/stat", func() (any, error) { return a.fs.SystemStat() }},
		{"interrupts", "Decode /proc/interrupts", func() (any, error) { return a.fs.Interrupts() }},
		{"pagetypeinfo", "Decode /proc/pagetypeinfo", func() (any, error) { return a.fs.PageTypeInfo() }},
		{"buddyinfo", "Decode /proc/buddyinfo", func() (any, error) { return a.fs.BuddyInfo() }},
		{"meminfo", "Decode /proc/meminfo", func() (any, error) { return a.fs.MemInfo() }},
		{"loadavg", "Decode /proc/loadavg", func() (any, error) { return a.fs.LoadAvg() }},
		{"uptime", "Decode /proc/uptime", func() (any, error) { return a.fs.Uptime() }},
		{"diskstats", "Decode /proc/diskstats", func() (any, error) { return a.fs.DiskStats() }},
		{"cpuinfo", "Decode /proc/cpuinfo", func() (any, error) { return a.fs.CpuInfo() }},
		{"crypto", "Decode /proc/crypto", func() (any, error) { return a.fs.Crypto() }},
		{"swaps", "Decode /proc/swaps", func() (any, error) { return a.fs.Swaps() }},
		{"partitions", "Decode /proc/partitions", func() (any, error) { return a.fs.Partitions() }},
		{"filesystems", "Decode /proc/filesystems", func() (any, error) { return a.fs.Filesystems() }},
		{"devices", "Decode /proc/devices", func() (any, error) { return a.fs.Devices() }},
		{"modules", "Decode /proc/modules", func() (any, error) { return a.fs.Modules() }},
		{"ioports", "Decode /proc/ioports", func() (any, error) { return a.fs.IOPorts() }},
		{"iomem", "Decode /proc/iomem", func() (any, error) { return a.fs.IOMem() }},
		{"locks", "Decode /proc/locks", func() (any, error) { return a.fs.Locks() }},
		{"slabinfo", "Decode /proc/slabinfo", func() (any, error) { return a.fs.SlabInfo() }},
	})
}

// netCommand groups the /proc/net tables under "net".
func (a *app) netCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "net",
		Short: "Decode the tables under /proc/net",
	}
	cmd.AddCommand(a.fileCommands([]reader{
		{"arp", "Decode /proc/net/arp", func() (any, error) { return a.fs.Arp() }},
		{"route", "Decode /proc/net/route", func() (any, error) { return a.fs.Routes() }},
		{"dev", "Decode /proc/net/dev", func() (any, error) { return a.fs.NetDev() }},
		{"dev_mcast", "Decode /proc/net/dev_mcast", func() (any, error) { return a.fs.DevMcast() }},
		{"netstat", "Decode /proc/net/netstat", func() (any, error) { return a.fs.Netstat() }},
		{"snmp", "Decode /proc/net/snmp", func() (any, error) { return a.fs.SNMP() }},
		{"snmp6", "Decode /proc/net/snmp6", func() (any, error) { return a.fs.SNMP6() }},
		{"ip_tables_names", "List /proc/net/ip_tables_names", func() (any, error) { return a.fs.IPTablesNames() }},
	})...)
	return cmd
}

func (a *app) kernelCommand() *cobra.Command {
	return a.readCommand("kernel", "Show the kernel release", cobra.NoArgs, func([]string) (any, error) {
		rel, err := a.fs.KernelRelease()
		if err != nil {
			return nil, err
		}
		return kernelInfo{
			Release:            rel.String(),
			Major:              rel.Major,
			Minor:              rel.Minor,
			Patch:              rel.Patch,
			PrintsThreadStacks: rel.PrintsThreadStacks(),
		}, nil
	})
}

type kernelInfo struct {
	Release            string `json:"release" yaml:"release"`
	Major              int    `json:"major" yaml:"major"`
	Minor              int    `json:"minor" yaml:"minor"`
	Patch              int    `json:"patch" yaml:"patch"`
	PrintsThreadStacks bool   `json:"prints_thread_stacks" yaml:"prints_thread_stacks"`
}
