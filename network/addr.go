package network

import (
	"encoding/binary"
	"encoding/hex"
	"net"
	"net/netip"
	"strings"

	"procread/field"
	"procread/procerr"
	"procread/token"
)

// HardwareAddr is a link layer address that prints and marshals as
// colon-separated hex.
type HardwareAddr net.HardwareAddr

func (a HardwareAddr) String() string {
	return net.HardwareAddr(a).String()
}

func (a HardwareAddr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// parseMAC decodes "00:50:bf:25:68:f3".
func parseMAC(tok, name string) (HardwareAddr, error) {
	hw, err := net.ParseMAC(tok)
	if err != nil {
		return nil, procerr.Malformed(name, tok, "not a hardware address")
	}
	return HardwareAddr(hw), nil
}

// parseHexBytes decodes an address printed as bare hex digits, as in
// dev_mcast.
func parseHexBytes(tok, name string) (HardwareAddr, error) {
	b, err := hex.DecodeString(tok)
	if err != nil || len(b) == 0 {
		return nil, procerr.Malformed(name, tok, "not a hex address")
	}
	return HardwareAddr(b), nil
}

func parseIPv4(tok, name string) (netip.Addr, error) {
	a, err := netip.ParseAddr(tok)
	if err != nil || !a.Is4() {
		return netip.Addr{}, procerr.Malformed(name, tok, "not an IPv4 address")
	}
	return a, nil
}

// parseRouteAddr decodes the 8 hex digit form of a __be32 address that
// /proc/net/route prints in host byte order. Little-endian hosts are
// assumed.
func parseRouteAddr(tok, name string) (netip.Addr, error) {
	if len(tok) != 8 {
		return netip.Addr{}, procerr.Malformed(name, tok, "expected 8 hex digits")
	}
	v, err := field.Uint(tok, 16, 32, name)
	if err != nil {
		return netip.Addr{}, err
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return netip.AddrFrom4(b), nil
}

// parsePrefixedHex decodes a 0x-prefixed hex number.
func parsePrefixedHex(tok, name string) (uint64, error) {
	digits, ok := strings.CutPrefix(tok, "0x")
	if !ok {
		return 0, procerr.Malformed(name, tok, "expected 0x prefix")
	}
	return field.Hex64(digits, name)
}

// headed splits off the column title line of a table file.
func headed(text, format string, titles ...string) ([]string, error) {
	lines := token.Lines(text)
	if len(lines) == 0 {
		return nil, &procerr.Error{Kind: procerr.KindMalformed, Format: format, Field: "header", Line: 1, Msg: "header line missing"}
	}
	if err := token.Titled(lines[0], titles...); err != nil {
		return nil, procerr.At(err, format, 1)
	}
	return lines[1:], nil
}

// rows decodes every line of a headerless or already headed table.
func rows[T any](lines []string, format string, first int, parse func(string) (T, error)) ([]T, error) {
	out := make([]T, 0, len(lines))
	for i, line := range lines {
		v, err := parse(line)
		if err != nil {
			return nil, procerr.At(err, format, first+i)
		}
		out = append(out, v)
	}
	return out, nil
}
