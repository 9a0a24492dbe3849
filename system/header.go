package system

import (
	"procread/procerr"
	"procread/token"
)

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
