package regtext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/joshuapare/shellns/pkg/types"
)

// Section is one [key] block: a store-relative path and its values.
type Section struct {
	Path   string
	Values []types.NamedValue
}

// EmitOptions controls Marshal.
type EmitOptions struct {
	// Encoding is EncodingUTF16LE (default) or EncodingUTF8.
	Encoding string
	// Comments are written as ';' lines after the header.
	Comments []string
}

// Marshal renders sections as a .reg file, in the given order.
func Marshal(sections []Section, opts EmitOptions) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(RegFileHeader + CRLF)
	for _, c := range opts.Comments {
		buf.WriteString(CommentPrefix + " " + c + CRLF)
	}
	buf.WriteString(CRLF)

	for _, s := range sections {
		if err := checkLine("key path", s.Path); err != nil {
			return nil, fmt.Errorf("regtext: %w", err)
		}
		buf.WriteString(KeyOpenBracket + qualify(s.Path) + KeyCloseBracket + CRLF)
		for _, nv := range s.Values {
			if err := emitValue(&buf, nv); err != nil {
				return nil, fmt.Errorf("regtext: %s value %q: %w", s.Path, nv.Name, err)
			}
		}
		buf.WriteString(CRLF)
	}
	return encodeOutput(buf.String(), opts.Encoding)
}

func qualify(path string) string {
	if p := types.CleanPath(path); p != "" {
		return HKEYCurrentUser + Backslash + p
	}
	return HKEYCurrentUser
}

func emitValue(buf *bytes.Buffer, nv types.NamedValue) error {
	v := nv.Value
	if err := v.Validate(); err != nil {
		return err
	}
	if err := checkLine("value name", nv.Name); err != nil {
		return err
	}
	var prefix string
	if nv.Name == "" {
		prefix = DefaultValuePrefix
	} else {
		prefix = Quote + escapeString(nv.Name) + Quote + ValueAssignment
	}
	buf.WriteString(prefix)

	switch {
	case v.Type == types.REG_SZ && !strings.ContainsAny(v.Text, "\r\n"):
		buf.WriteString(Quote + escapeString(v.Text) + Quote)
	case v.Type == types.REG_DWORD:
		buf.WriteString(DWORDPrefix)
		fmt.Fprintf(buf, DWORDHexFormat, v.Number)
	default:
		data, err := v.Bytes()
		if err != nil {
			return err
		}
		head := HexPrefix
		if v.Type != types.REG_BINARY {
			head = fmt.Sprintf(HexTypeFormat, uint32(v.Type))
		}
		buf.WriteString(head)
		writeHex(buf, len(prefix)+len(head), data)
	}
	buf.WriteString(CRLF)
	return nil
}

// writeHex writes data as comma-separated bytes, wrapping like regedit once a
// line would pass HexLineWidth. col is the width already used on the line.
func writeHex(buf *bytes.Buffer, col int, data []byte) {
	for i, b := range data {
		item := fmt.Sprintf(HexByteFormat, b)
		if i < len(data)-1 {
			item += HexByteSeparator
		}
		if i > 0 && col+len(item) > HexLineWidth-1 {
			buf.WriteString(Backslash + CRLF + HexContinuationIndent)
			col = len(HexContinuationIndent)
		}
		buf.WriteString(item)
		col += len(item)
	}
}

// checkLine rejects text that would end a .reg line early. Quoted names have
// no escape for CR or LF.
func checkLine(what, s string) error {
	if strings.ContainsAny(s, "\r\n") {
		return types.InvalidArgument("%s %q contains a line break", what, s)
	}
	return nil
}

func escapeString(s string) string {
	s = strings.ReplaceAll(s, Backslash, EscapedBackslash)
	return strings.ReplaceAll(s, Quote, EscapedQuote)
}
