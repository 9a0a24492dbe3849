package memory_map

import "procread/field"

// Perms is the decoded permission column (e.g. "r-xp")
type Perms struct {
	Read    bool
	Write   bool
	Execute bool
	Shared  bool // 's'; 'p' means private copy-on-write
}

var canonicalPerms = []string{
	"rwxp", "rwxs", "rw-p", "rw-s",
	"r-xp", "r-xs", "r--p", "r--s",
	"-wxp", "-wxs", "-w-p", "-w-s",
	"--xp", "--xs", "---p", "---s",
}

var permsVocabulary = func() field.Vocabulary[Perms] {
	v := make(field.Vocabulary[Perms], len(canonicalPerms))
	for _, s := range canonicalPerms {
		v[s] = Perms{
			Read:    s[0] == 'r',
			Write:   s[1] == 'w',
			Execute: s[2] == 'x',
			Shared:  s[3] == 's',
		}
	}
	return v
}()

// ParsePerms decodes one of the 16 canonical permission strings.
func ParsePerms(tok string) (Perms, error) {
	return permsVocabulary.Parse(tok, "perms")
}

func (p Perms) String() string {
	b := []byte("---p")
	if p.Read {
		b[0] = 'r'
	}
	if p.Write {
		b[1] = 'w'
	}
	if p.Execute {
		b[2] = 'x'
	}
	if p.Shared {
		b[3] = 's'
	}
	return string(b)
}

func (p Perms) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
