package network

import (
	"strings"

	"procread/field"
	"procread/procerr"
	"procread/token"
)

// Counter is one named value of a counter group.
type Counter struct {
	Name  string `json:"name" yaml:"name"`
	Value int64  `json:"value" yaml:"value"`
}

// CounterGroup is one protocol of /proc/net/snmp or /proc/net/netstat
// ("Tcp", "TcpExt", "IpExt"...) with its counters in file order. Values are
// signed because Tcp MaxConn prints -1.
type CounterGroup struct {
	Protocol string    `json:"protocol" yaml:"protocol"`
	Counters []Counter `json:"counters" yaml:"counters"`
}

// Counters is a whole snmp, netstat or snmp6 file.
type Counters []CounterGroup

// Lookup returns the counter name of protocol.
func (c Counters) Lookup(protocol, name string) (int64, bool) {
	for _, g := range c {
		if g.Protocol != protocol {
			continue
		}
		for _, v := range g.Counters {
			if v.Name == name {
				return v.Value, true
			}
		}
	}
	return 0, false
}

func protocolOf(line string) (string, token.List, error) {
	proto, rest, err := token.KeyValue(line, ':', "protocol")
	if err != nil {
		return "", nil, err
	}
	if proto == "" || strings.ContainsAny(proto, " \t") {
		return "", nil, procerr.Malformed("protocol", proto, "bad protocol prefix")
	}
	return proto, token.Fields(rest), nil
}

// ParseCounterPairs decodes the paired-line layout of /proc/net/snmp and
// /proc/net/netstat, named by format: a "Proto: names..." line followed by
// a "Proto: values..." line with the same prefix and as many values.
func ParseCounterPairs(text, format string) (Counters, error) {
	lines := token.Lines(text)
	if len(lines)%2 != 0 {
		return nil, procerr.At(&procerr.Error{
			Kind: procerr.KindMalformed, Field: "pairs", Msg: "title line without values",
		}, format, len(lines))
	}
	out := make(Counters, 0, len(lines)/2)
	for i := 0; i < len(lines); i += 2 {
		proto, names, err := protocolOf(lines[i])
		if err != nil {
			return nil, procerr.At(err, format, i+1)
		}
		vproto, values, err := protocolOf(lines[i+1])
		if err != nil {
			return nil, procerr.At(err, format, i+2)
		}
		if vproto != proto {
			return nil, procerr.At(procerr.Malformed("protocol", vproto, "values follow %s titles", proto), format, i+2)
		}
		if err := values.Expect(len(names), proto); err != nil {
			return nil, procerr.At(err, format, i+2)
		}
		g := CounterGroup{Protocol: proto, Counters: make([]Counter, len(names))}
		for j, name := range names {
			v, err := field.Int64(values[j], name)
			if err != nil {
				return nil, procerr.At(err, format, i+2)
			}
			g.Counters[j] = Counter{Name: name, Value: v}
		}
		out = append(out, g)
	}
	return out, nil
}

func ParseSNMP(text string) (Counters, error)    { return ParseCounterPairs(text, "snmp") }
func ParseNetstat(text string) (Counters, error) { return ParseCounterPairs(text, "netstat") }

// snmp6Protocols are the name prefixes of /proc/net/snmp6, longest first so
// that Icmp6 and Udp6 are not read as Ip6 or Udp.
var snmp6Protocols = []string{"UdpLite6", "Icmp6", "Udp6", "Ip6"}

// ParseSNMP6 decodes /proc/net/snmp6: one "Ip6InReceives   123" pair per
// line. Counters are grouped by their protocol prefix in first-seen order.
func ParseSNMP6(text string) (Counters, error) {
	var out Counters
	index := map[string]int{}
	for i, line := range token.Lines(text) {
		toks := token.Fields(line)
		if err := toks.Expect(2, "snmp6"); err != nil {
			return nil, procerr.At(err, "snmp6", i+1)
		}
		proto := ""
		for _, p := range snmp6Protocols {
			if strings.HasPrefix(toks[0], p) && len(toks[0]) > len(p) {
				proto = p
				break
			}
		}
		if proto == "" {
			return nil, procerr.At(procerr.Malformed("protocol", toks[0], "unknown snmp6 prefix"), "snmp6", i+1)
		}
		v, err := field.Int64(toks[1], toks[0])
		if err != nil {
			return nil, procerr.At(err, "snmp6", i+1)
		}
		g, ok := index[proto]
		if !ok {
			g = len(out)
			index[proto] = g
			out = append(out, CounterGroup{Protocol: proto})
		}
		out[g].Counters = append(out[g].Counters, Counter{Name: strings.TrimPrefix(toks[0], proto), Value: v})
	}
	return out, nil
}
