package system

import (
	"procread/field"
	"procread/procerr"
)

// CryptoAlg is one block of /proc/crypto. Name, driver, module and type are
// printed for every algorithm; the remaining keys depend on the type
// (blocksize, digestsize, min keysize...) and are kept in Attributes.
type CryptoAlg struct {
	Name       string              `json:"name" yaml:"name"`
	Driver     string              `json:"driver" yaml:"driver"`
	Module     string              `json:"module" yaml:"module"`
	Priority   field.Maybe[int64]  `json:"priority" yaml:"priority"`
	RefCnt     field.Maybe[uint64] `json:"refcnt" yaml:"refcnt"`
	SelfTest   string              `json:"selftest,omitempty" yaml:"selftest,omitempty"`
	Internal   field.Maybe[bool]   `json:"internal" yaml:"internal"` // 4.3
	Type       string              `json:"type" yaml:"type"`
	Attributes []Entry             `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Passed reports whether the kernel self test of the algorithm succeeded.
func (c CryptoAlg) Passed() bool {
	return c.SelfTest == "passed"
}

// Attribute returns the value of a type-specific key.
func (c CryptoAlg) Attribute(key string) (string, bool) {
	return lookup(c.Attributes, key)
}

var cryptoRequired = []string{"name", "driver", "module", "type"}

func parseCryptoAlg(entries []Entry) (CryptoAlg, int, error) {
	var c CryptoAlg
	slots := map[string]field.Slot{
		"name":     textSlot(&c.Name),
		"driver":   textSlot(&c.Driver),
		"module":   textSlot(&c.Module),
		"priority": field.Into(&c.Priority, "priority", field.Int64),
		"refcnt":   field.Into(&c.RefCnt, "refcnt", field.Uint64),
		"selftest": textSlot(&c.SelfTest),
		"internal": field.Into(&c.Internal, "internal", field.YesNo.Parse),
		"type":     textSlot(&c.Type),
	}
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if seen[e.Key] {
			return CryptoAlg{}, i, procerr.Malformed("key", e.Key, "duplicate key")
		}
		seen[e.Key] = true
		if slot, ok := slots[e.Key]; ok {
			if err := slot(e.Value); err != nil {
				return CryptoAlg{}, i, err
			}
			continue
		}
		c.Attributes = append(c.Attributes, e)
	}
	for _, key := range cryptoRequired {
		if !seen[key] {
			return CryptoAlg{}, 0, &procerr.Error{Kind: procerr.KindMalformed, Field: key, Msg: "key missing"}
		}
	}
	return c, 0, nil
}

// ParseCrypto decodes /proc/crypto, one algorithm per blank-line separated
// block.
func ParseCrypto(text string) ([]CryptoAlg, error) {
	blocks, err := entryBlocks(text, ':', "crypto")
	if err != nil {
		return nil, err
	}
	out := make([]CryptoAlg, 0, len(blocks))
	for _, b := range blocks {
		c, n, err := parseCryptoAlg(b.entries)
		if err != nil {
			return nil, procerr.At(err, "crypto", b.line+n)
		}
		out = append(out, c)
	}
	return out, nil
}
