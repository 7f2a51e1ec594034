// Package fetcher loads and parses local input files in the formats the
// directory sources distribute: CSV in assorted encodings, and XLSX.
package fetcher

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// fallbackEncodings are tried in order when a file is not valid UTF-8.
// Latin-1 maps every byte, so the loop always terminates with a decode.
var fallbackEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"windows-1252", charmap.Windows1252},
	{"iso-8859-1", charmap.ISO8859_1},
}

// LoadFileWithFallback reads a file as UTF-8, retrying with the legacy
// encodings government and directory exports commonly use. Returns the
// decoded text and the encoding that produced it.
func LoadFileWithFallback(path string) (string, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", eris.Wrapf(err, "fetcher: read %s", path)
	}

	if utf8.Valid(raw) {
		return string(raw), "utf-8", nil
	}

	for _, fe := range fallbackEncodings {
		decoded, err := fe.enc.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		text := string(decoded)
		// A replacement rune means the decode lost bytes; try the next one.
		if strings.ContainsRune(text, utf8.RuneError) {
			continue
		}
		zap.L().Debug("fetcher: decoded with fallback encoding",
			zap.String("path", path),
			zap.String("encoding", fe.name),
		)
		return text, fe.name, nil
	}

	return "", "", eris.Errorf("fetcher: no encoding could decode %s", path)
}
