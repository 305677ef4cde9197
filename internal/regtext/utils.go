package regtext

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// unescapeRegString undoes the \\ and \" escapes of .reg strings.
func unescapeRegString(s string) string {
	if strings.IndexByte(s, '\\') == -1 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '"') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// findClosingQuote returns the index of the quote closing the one at
// position 0, skipping quotes escaped by an odd run of backslashes, or -1.
func findClosingQuote(line string) int {
	for i := 1; i < len(line); i++ {
		if line[i] != '"' {
			continue
		}
		n := 0
		for j := i - 1; j >= 1 && line[j] == '\\'; j-- {
			n++
		}
		if n%2 == 0 {
			return i
		}
	}
	return -1
}

// parseHexBytes parses the comma-separated bytes after the first colon.
// Whitespace is ignored and single digits are zero-padded.
func parseHexBytes(payload string) ([]byte, error) {
	colon := strings.IndexByte(payload, ':')
	if colon == -1 {
		return nil, errors.New("invalid hex data format: missing colon")
	}
	body := removeWhitespace(payload[colon+1:])
	if body == "" {
		return nil, nil
	}
	parts := strings.Split(body, HexByteSeparator)
	buf := make([]byte, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if len(p) == 1 {
			p = "0" + p
		}
		b, err := hex.DecodeString(p)
		if err != nil || len(b) != 1 {
			return nil, fmt.Errorf("invalid hex byte %q", p)
		}
		buf = append(buf, b[0])
	}
	return buf, nil
}

func removeWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n', '\\':
			return -1
		}
		return r
	}, s)
}
