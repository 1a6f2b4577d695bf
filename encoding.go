package contentkit

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// DefaultCharmap is the fixed single-byte encoding used when none is configured.
// ISO 8859-1 maps byte b to code point b, so decoding is plain widening.
var DefaultCharmap = charmap.ISO8859_1

var charmaps = map[string]*charmap.Charmap{
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"latin9":       charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"windows-1251": charmap.Windows1251,
	"koi8-r":       charmap.KOI8R,
	"cp437":        charmap.CodePage437,
}

// LookupCharmap resolves an encoding name (case-insensitive) to a single-byte
// charmap. Multi-byte encodings are not supported: every byte is one character.
func LookupCharmap(name string) (*charmap.Charmap, error) {
	cm, ok := charmaps[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, name)
	}
	return cm, nil
}
