package system

import (
	"strconv"
	"strings"

	"procread/field"
	"procread/procerr"
	"procread/token"
)

// NodeZone identifies a memory zone on a NUMA node.
type NodeZone struct {
	Node uint32 `json:"node" yaml:"node"`
	Zone string `json:"zone" yaml:"zone"`
}

// Label renders nz as "node 0 zone DMA".
func (nz NodeZone) Label() string {
	return "node " + strconv.FormatUint(uint64(nz.Node), 10) + " zone " + nz.Zone
}

// parseNodeZone decodes the "Node 0, zone DMA" prefix shared by buddyinfo and
// pagetypeinfo. A trailing comma after the zone name is accepted when
// zoneComma is set and required to be absent otherwise.
func parseNodeZone(toks token.List, zoneComma bool) (NodeZone, error) {
	if err := toks.AtLeast(4, "zone"); err != nil {
		return NodeZone{}, err
	}
	if toks[0] != "Node" {
		return NodeZone{}, procerr.Malformed("node", toks[0], "expected literal Node")
	}
	nodeTok, ok := strings.CutSuffix(toks[1], ",")
	if !ok {
		return NodeZone{}, procerr.Malformed("node", toks[1], "node id must end with a comma")
	}
	node, err := field.Uint32(nodeTok, "node")
	if err != nil {
		return NodeZone{}, err
	}
	if toks[2] != "zone" {
		return NodeZone{}, procerr.Malformed("zone", toks[2], "expected literal zone")
	}
	zone := toks[3]
	if zoneComma {
		var ok bool
		if zone, ok = strings.CutSuffix(zone, ","); !ok {
			return NodeZone{}, procerr.Malformed("zone", toks[3], "zone name must end with a comma")
		}
	}
	if zone == "" || strings.HasSuffix(zone, ",") {
		return NodeZone{}, procerr.Malformed("zone", toks[3], "bad zone name")
	}
	return NodeZone{Node: node, Zone: zone}, nil
}

func uintColumns(toks token.List, name string) ([]uint64, error) {
	out := make([]uint64, len(toks))
	for i, tok := range toks {
		v, err := field.Uint64(tok, name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
