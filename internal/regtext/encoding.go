package regtext

import (
	"errors"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var errUnsupportedEncoding = errors.New("regtext: unsupported encoding")

// decodeInput converts data to UTF-8. A byte order mark wins over enc;
// without one, enc selects the encoding and defaults to UTF-8.
func decodeInput(data []byte, enc string) (string, error) {
	var fallback transform.Transformer
	switch strings.ToUpper(enc) {
	case "", EncodingUTF8:
		fallback = unicode.UTF8.NewDecoder()
	case EncodingUTF16LE:
		fallback = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	default:
		return "", errUnsupportedEncoding
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// encodeOutput converts UTF-8 text to enc. UTF-16LE output carries a BOM,
// as regedit writes it.
func encodeOutput(text string, enc string) ([]byte, error) {
	switch strings.ToUpper(enc) {
	case "", EncodingUTF16LE:
		encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
		out, _, err := transform.Bytes(encoder, []byte(text))
		return out, err
	case EncodingUTF8:
		return []byte(text), nil
	default:
		return nil, errUnsupportedEncoding
	}
}
