package system

import (
	"procread/field"
	"procread/procerr"
	"procread/token"
)

// Device is one "major name" row of /proc/devices.
type Device struct {
	Major uint32 `json:"major" yaml:"major"`
	Name  string `json:"name" yaml:"name"`
}

// Devices is /proc/devices: the registered character and block majors.
type Devices struct {
	Character []Device `json:"character" yaml:"character"`
	Block     []Device `json:"block" yaml:"block"`
}

const (
	characterTitle = "Character devices:"
	blockTitle     = "Block devices:"
)

// ParseDevice decodes a row. The name runs to the end of the line.
func ParseDevice(line string) (Device, error) {
	head, name := token.Head(line, 1)
	major, err := head.At(0, "major")
	if err != nil {
		return Device{}, err
	}
	if name == "" {
		return Device{}, procerr.TooFew("name", 2, 1)
	}
	m, err := field.Uint32(major, "major")
	if err != nil {
		return Device{}, err
	}
	return Device{Major: m, Name: name}, nil
}

func parseDeviceBlock(block []string, title string, line int) ([]Device, error) {
	if token.Fields(block[0]).Join() != title {
		return nil, procerr.At(procerr.Malformed("title", block[0], "expected %q", title), "devices", line)
	}
	out := make([]Device, 0, len(block)-1)
	for i, row := range block[1:] {
		d, err := ParseDevice(row)
		if err != nil {
			return nil, procerr.At(err, "devices", line+i+1)
		}
		out = append(out, d)
	}
	return out, nil
}

// ParseDevices decodes /proc/devices: the character block, a blank line and
// the block device block.
func ParseDevices(text string) (Devices, error) {
	blocks := token.Blocks(text)
	if len(blocks) != 2 {
		return Devices{}, &procerr.Error{
			Kind: procerr.KindMalformed, Format: "devices", Field: "blocks",
			Expected: 2, Found: len(blocks), Msg: "expected character and block sections",
		}
	}
	var (
		d   Devices
		err error
	)
	if d.Character, err = parseDeviceBlock(blocks[0], characterTitle, 1); err != nil {
		return Devices{}, err
	}
	if d.Block, err = parseDeviceBlock(blocks[1], blockTitle, len(blocks[0])+2); err != nil {
		return Devices{}, err
	}
	return d, nil
}
