package main

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"procread/config"
	"procread/network"
	"procread/process/memory_map"
	"procread/render"
	"procread/system"
)

func (a *app) emit(v any) error {
	switch a.cfg.Output.Format {
	case config.FormatYAML:
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case config.FormatJSON:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return a.table(v)
}

// table prints v the way the kernel lays it out where that reads better than
// a field dump.
func (a *app) table(v any) error {
	o := render.Options{Color: a.cfg.Output.Color}

	switch v := v.(type) {
	case memory_map.Maps:
		return a.mapsTable(v, o)
	case system.Interrupts:
		return render.Records(a.out, v.Rows, o)
	case system.SystemStat:
		cpus := append([]system.CpuTally{v.Cpu}, v.Cores...)
		if err := render.Records(a.out, cpus, o); err != nil {
			return err
		}
		if err := a.gap(); err != nil {
			return err
		}
		return render.Record(a.out, statSummary{
			Ctxt:         v.Ctxt,
			BootTime:     v.BootTime,
			Processes:    v.Processes,
			ProcsRunning: v.ProcsRunning,
			ProcsBlocked: v.ProcsBlocked,
			Interrupts:   v.Intr.Total(),
			SoftIRQ:      v.SoftIRQ.Total(),
		}, o)
	case system.PageTypeInfo:
		if err := render.Record(a.out, pageTypeSummary{
			PageBlockOrder: v.PageBlockOrder,
			PagesPerBlock:  v.PagesPerBlock,
			Orders:         v.Orders,
		}, o); err != nil {
			return err
		}
		if err := a.gap(); err != nil {
			return err
		}
		if err := render.Records(a.out, v.FreePages, o); err != nil {
			return err
		}
		if err := a.gap(); err != nil {
			return err
		}
		return render.Records(a.out, v.BlockCounts, o)
	case system.CpuInfo:
		for i, p := range v.Processors {
			if i > 0 {
				if err := a.gap(); err != nil {
					return err
				}
			}
			if err := render.Record(a.out, p, o); err != nil {
				return err
			}
		}
		if len(v.Machine) == 0 {
			return nil
		}
		if err := a.gap(); err != nil {
			return err
		}
		return render.Records(a.out, v.Machine, o)
	case system.Devices:
		if err := render.Records(a.out, v.Character, o); err != nil {
			return err
		}
		if err := a.gap(); err != nil {
			return err
		}
		return render.Records(a.out, v.Block, o)
	case system.Resources:
		return a.resourceTable(v, o)
	case network.Counters:
		var rows []counterRow
		for _, g := range v {
			for _, c := range g.Counters {
				rows = append(rows, counterRow{Protocol: g.Protocol, Name: c.Name, Value: c.Value})
			}
		}
		return render.Records(a.out, rows, o)
	}

	if k := reflect.ValueOf(v).Kind(); k == reflect.Slice || k == reflect.Array {
		return render.Records(a.out, v, o)
	}
	return render.Record(a.out, v, o)
}

// gap separates two tables of one report.
func (a *app) gap() error {
	_, err := fmt.Fprintln(a.out)
	return err
}

type counterRow struct {
	Protocol string `json:"protocol"`
	Name     string `json:"name"`
	Value    int64  `json:"value"`
}

type statSummary struct {
	Ctxt         uint64 `json:"ctxt"`
	BootTime     uint64 `json:"btime"`
	Processes    uint64 `json:"processes"`
	ProcsRunning uint64 `json:"procs_running"`
	ProcsBlocked uint64 `json:"procs_blocked"`
	Interrupts   uint64 `json:"intr_total"`
	SoftIRQ      uint64 `json:"softirq_total"`
}

type pageTypeSummary struct {
	PageBlockOrder uint64 `json:"page_block_order"`
	PagesPerBlock  uint64 `json:"pages_per_block"`
	Orders         int    `json:"orders"`
}

func hex(v uint64) string {
	return strconv.FormatUint(v, 16)
}

func (a *app) mapsTable(mm memory_map.Maps, o render.Options) error {
	t := render.NewTable(
		render.Column{Header: "START"},
		render.Column{Header: "END"},
		render.Column{Header: "PERMS"},
		render.Column{Header: "OFFSET"},
		render.Column{Header: "DEV"},
		render.Column{Header: "INODE", Right: true},
		render.Column{Header: "PATH"},
	).WithHeaderFormat(o.HeaderFormat())
	for _, m := range mm {
		path := m.Path.String()
		if m.Deleted {
			path += " (deleted)"
		}
		t.AddRow(hex(m.Start), hex(m.End), m.Perms.String(), fmt.Sprintf("%08x", m.Offset),
			m.Device.String(), strconv.FormatUint(m.Inode, 10), path)
	}
	return t.Render(a.out)
}

// resourceTable prints ioports and iomem ranges indented by depth, the way
// the kernel does.
func (a *app) resourceTable(rs system.Resources, o render.Options) error {
	t := render.NewTable(
		render.Column{Header: "START"},
		render.Column{Header: "END"},
		render.Column{Header: "NAME"},
	).WithHeaderFormat(o.HeaderFormat())
	for _, r := range rs {
		t.AddRow(hex(r.Start), hex(r.End), strings.Repeat("  ", r.Depth)+r.Name)
	}
	return t.Render(a.out)
}
