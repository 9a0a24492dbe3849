package network

import (
	"strings"

	"procread/field"
	"procread/procerr"
	"procread/token"
)

// DevReceive and DevTransmit are the two counter groups of /proc/net/dev.
type DevReceive struct {
	Bytes      uint64 `json:"bytes" yaml:"bytes"`
	Packets    uint64 `json:"packets" yaml:"packets"`
	Errs       uint64 `json:"errs" yaml:"errs"`
	Drop       uint64 `json:"drop" yaml:"drop"`
	FIFO       uint64 `json:"fifo" yaml:"fifo"`
	Frame      uint64 `json:"frame" yaml:"frame"`
	Compressed uint64 `json:"compressed" yaml:"compressed"`
	Multicast  uint64 `json:"multicast" yaml:"multicast"`
}

type DevTransmit struct {
	Bytes      uint64 `json:"bytes" yaml:"bytes"`
	Packets    uint64 `json:"packets" yaml:"packets"`
	Errs       uint64 `json:"errs" yaml:"errs"`
	Drop       uint64 `json:"drop" yaml:"drop"`
	FIFO       uint64 `json:"fifo" yaml:"fifo"`
	Colls      uint64 `json:"colls" yaml:"colls"`
	Carrier    uint64 `json:"carrier" yaml:"carrier"`
	Compressed uint64 `json:"compressed" yaml:"compressed"`
}

// DevStat is one interface row of /proc/net/dev.
type DevStat struct {
	Name     string      `json:"name" yaml:"name"`
	Receive  DevReceive  `json:"rx" yaml:"rx"`
	Transmit DevTransmit `json:"tx" yaml:"tx"`
}

var (
	receiveTitles  = []string{"bytes", "packets", "errs", "drop", "fifo", "frame", "compressed", "multicast"}
	transmitTitles = []string{"bytes", "packets", "errs", "drop", "fifo", "colls", "carrier", "compressed"}
)

// ParseDevStat decodes "  eth0: r0 .. r7 t0 .. t7". The counters may
// follow the colon without a space.
func ParseDevStat(line string) (DevStat, error) {
	name, rest, err := token.KeyValue(line, ':', "iface")
	if err != nil {
		return DevStat{}, err
	}
	if name == "" {
		return DevStat{}, procerr.Malformed("iface", line, "empty interface name")
	}
	r := field.NewReader(token.Fields(rest), 1)
	d := DevStat{
		Name: name,
		Receive: DevReceive{
			Bytes:      r.Uint64("rx_bytes"),
			Packets:    r.Uint64("rx_packets"),
			Errs:       r.Uint64("rx_errs"),
			Drop:       r.Uint64("rx_drop"),
			FIFO:       r.Uint64("rx_fifo"),
			Frame:      r.Uint64("rx_frame"),
			Compressed: r.Uint64("rx_compressed"),
			Multicast:  r.Uint64("rx_multicast"),
		},
		Transmit: DevTransmit{
			Bytes:      r.Uint64("tx_bytes"),
			Packets:    r.Uint64("tx_packets"),
			Errs:       r.Uint64("tx_errs"),
			Drop:       r.Uint64("tx_drop"),
			FIFO:       r.Uint64("tx_fifo"),
			Colls:      r.Uint64("tx_colls"),
			Carrier:    r.Uint64("tx_carrier"),
			Compressed: r.Uint64("tx_compressed"),
		},
	}
	if err := r.Done("dev"); err != nil {
		return DevStat{}, err
	}
	return d, nil
}

// checkDevHeader verifies the two title lines. The second one names the
// counters between '|' separators.
func checkDevHeader(lines []string) (int, error) {
	if len(lines) < 2 {
		return len(lines) + 1, procerr.TooFew("header", 2, len(lines))
	}
	groups := token.Split(lines[0], '|')
	if err := groups.Expect(3, "header"); err != nil {
		return 1, err
	}
	if groups[0] != "Inter-" || groups[1] != "Receive" || groups[2] != "Transmit" {
		return 1, procerr.Malformed("header", lines[0], "expected Inter-|Receive|Transmit")
	}
	cols := token.Split(lines[1], '|')
	if err := cols.Expect(3, "header"); err != nil {
		return 2, err
	}
	if cols[0] != "face" {
		return 2, procerr.Malformed("header", cols[0], "expected face")
	}
	for i, want := range [][]string{receiveTitles, transmitTitles} {
		if got := token.Fields(cols[i+1]).Join(); got != strings.Join(want, " ") {
			return 2, procerr.Malformed("header", cols[i+1], "expected %q", strings.Join(want, " "))
		}
	}
	return 0, nil
}

// ParseNetDev decodes /proc/net/dev.
func ParseNetDev(text string) ([]DevStat, error) {
	lines := token.Lines(text)
	if n, err := checkDevHeader(lines); err != nil {
		return nil, procerr.At(err, "dev", n)
	}
	return rows(lines[2:], "dev", 3, ParseDevStat)
}
