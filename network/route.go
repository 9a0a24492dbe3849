package network

import (
	"encoding/binary"
	"math/bits"
	"net/netip"

	"procread/field"
	"procread/token"
)

// Route flags (include/uapi/linux/route.h).
const (
	RouteUp      = 0x0001
	RouteGateway = 0x0002
	RouteHost    = 0x0004
	RouteReject  = 0x0200
)

// Route is one row of /proc/net/route, the IPv4 main table.
type Route struct {
	Iface       string     `json:"iface" yaml:"iface"`
	Destination netip.Addr `json:"destination" yaml:"destination"`
	Gateway     netip.Addr `json:"gateway" yaml:"gateway"`
	Flags       uint64     `json:"flags" yaml:"flags"`
	RefCnt      uint64     `json:"refcnt" yaml:"refcnt"`
	Use         uint64     `json:"use" yaml:"use"`
	Metric      uint64     `json:"metric" yaml:"metric"`
	Mask        netip.Addr `json:"mask" yaml:"mask"`
	MTU         uint64     `json:"mtu" yaml:"mtu"`
	Window      uint64     `json:"window" yaml:"window"`
	IRTT        uint64     `json:"irtt" yaml:"irtt"`
}

// Prefix combines destination and mask. ok is false for a non-contiguous
// mask.
func (r Route) Prefix() (netip.Prefix, bool) {
	m4 := r.Mask.As4()
	m := binary.BigEndian.Uint32(m4[:])
	ones := bits.LeadingZeros32(^m)
	if m<<ones != 0 {
		return netip.Prefix{}, false
	}
	p, err := r.Destination.Prefix(ones)
	return p, err == nil
}

// Default reports whether the route is 0.0.0.0/0.
func (r Route) Default() bool {
	return r.Destination == netip.IPv4Unspecified() && r.Mask == netip.IPv4Unspecified()
}

func ParseRoute(line string) (Route, error) {
	r := field.NewReader(token.Fields(line), 0)
	rt := Route{
		Iface:       r.Next("iface"),
		Destination: field.Take(r, "destination", parseRouteAddr),
		Gateway:     field.Take(r, "gateway", parseRouteAddr),
		Flags:       r.Hex64("flags"),
		RefCnt:      r.Uint64("refcnt"),
		Use:         r.Uint64("use"),
		Metric:      r.Uint64("metric"),
		Mask:        field.Take(r, "mask", parseRouteAddr),
		MTU:         r.Uint64("mtu"),
		Window:      r.Uint64("window"),
		IRTT:        r.Uint64("irtt"),
	}
	if err := r.Done("route"); err != nil {
		return Route{}, err
	}
	return rt, nil
}

// ParseRoutes decodes /proc/net/route.
func ParseRoutes(text string) ([]Route, error) {
	lines, err := headed(text, "route", "Iface", "Destination", "Gateway", "Flags", "RefCnt", "Use", "Metric", "Mask", "MTU", "Window", "IRTT")
	if err != nil {
		return nil, err
	}
	return rows(lines, "route", 2, ParseRoute)
}
