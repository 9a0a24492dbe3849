package system

import (
	"procread/procerr"
	"procread/token"
)

// BuddyOrders is the number of allocation orders printed per zone.
const BuddyOrders = 11

// BuddyInfo is one row of /proc/buddyinfo: free chunk counts per order.
type BuddyInfo struct {
	NodeZone `yaml:",inline"`
	Free     []uint64 `json:"free" yaml:"free"`
}

func parseBuddyRow(line string) (BuddyInfo, error) {
	toks := token.Fields(line)
	if err := toks.Expect(4+BuddyOrders, "buddyinfo"); err != nil {
		return BuddyInfo{}, err
	}
	nz, err := parseNodeZone(toks, false)
	if err != nil {
		return BuddyInfo{}, err
	}
	free, err := uintColumns(toks.From(4), "free")
	if err != nil {
		return BuddyInfo{}, err
	}
	return BuddyInfo{NodeZone: nz, Free: free}, nil
}

// ParseBuddyInfo decodes /proc/buddyinfo.
func ParseBuddyInfo(text string) ([]BuddyInfo, error) {
	lines := token.Lines(text)
	out := make([]BuddyInfo, 0, len(lines))
	for i, line := range lines {
		b, err := parseBuddyRow(line)
		if err != nil {
			return nil, procerr.At(err, "buddyinfo", i+1)
		}
		out = append(out, b)
	}
	return out, nil
}
