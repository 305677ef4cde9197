package types

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
)

const (
	dwordSize = 4
	qwordSize = 8
	utf16Unit = 2
)

// Value is a typed registry value. Exactly one payload field is meaningful,
// selected by Type:
//
//	REG_SZ, REG_EXPAND_SZ  -> Text
//	REG_DWORD, REG_QWORD   -> Number
//	REG_BINARY             -> Data
//	REG_MULTI_SZ           -> List
//
// Backends read opaque types (REG_NONE, REG_LINK, ...) into Data so they
// can still be listed, but Validate rejects them for writing.
type Value struct {
	Type   RegType
	Text   string
	Number uint64
	Data   []byte
	List   []string
}

// NamedValue pairs a value with its name. The empty name is the default value.
type NamedValue struct {
	Name  string
	Value Value
}

// StringValue returns a REG_SZ value.
func StringValue(s string) Value { return Value{Type: REG_SZ, Text: s} }

// ExpandStringValue returns a REG_EXPAND_SZ value.
func ExpandStringValue(s string) Value { return Value{Type: REG_EXPAND_SZ, Text: s} }

// DWORDValue returns a REG_DWORD value.
func DWORDValue(n uint32) Value { return Value{Type: REG_DWORD, Number: uint64(n)} }

// QWORDValue returns a REG_QWORD value.
func QWORDValue(n uint64) Value { return Value{Type: REG_QWORD, Number: n} }

// BinaryValue returns a REG_BINARY value holding a copy of b.
func BinaryValue(b []byte) Value { return Value{Type: REG_BINARY, Data: bytes.Clone(b)} }

// MultiStringValue returns a REG_MULTI_SZ value holding a copy of list.
func MultiStringValue(list []string) Value {
	return Value{Type: REG_MULTI_SZ, List: slices.Clone(list)}
}

// Validate reports whether v can be written to a store.
func (v Value) Validate() error {
	switch v.Type {
	case REG_SZ, REG_EXPAND_SZ:
		if strings.IndexByte(v.Text, 0) >= 0 {
			return InvalidArgument("%s value contains NUL", v.Type)
		}
	case REG_DWORD:
		if v.Number > 0xFFFFFFFF {
			return InvalidArgument("REG_DWORD value %d overflows 32 bits", v.Number)
		}
	case REG_QWORD, REG_BINARY:
	case REG_MULTI_SZ:
		for i, s := range v.List {
			if s == "" || strings.IndexByte(s, 0) >= 0 {
				return InvalidArgument("REG_MULTI_SZ element %d is empty or contains NUL", i)
			}
		}
	default:
		return InvalidArgument("unsupported value type %s", v.Type)
	}
	return nil
}

// Equal reports whether v and o hold the same type and payload. Nil and
// empty slices compare equal.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case REG_SZ, REG_EXPAND_SZ:
		return v.Text == o.Text
	case REG_DWORD, REG_QWORD:
		return v.Number == o.Number
	case REG_MULTI_SZ:
		return slices.Equal(v.List, o.List)
	default:
		return bytes.Equal(v.Data, o.Data)
	}
}

// String renders the value for listings, e.g. `REG_DWORD:0x00000001`.
func (v Value) String() string {
	switch v.Type {
	case REG_SZ, REG_EXPAND_SZ:
		return fmt.Sprintf("%s:%q", v.Type, v.Text)
	case REG_DWORD:
		return fmt.Sprintf("%s:0x%08x", v.Type, v.Number)
	case REG_QWORD:
		return fmt.Sprintf("%s:0x%016x", v.Type, v.Number)
	case REG_MULTI_SZ:
		return fmt.Sprintf("%s:%q", v.Type, v.List)
	default:
		return fmt.Sprintf("%s:% x", v.Type, v.Data)
	}
}

// Bytes returns the registry's on-disk encoding of v: UTF-16LE with NUL
// terminators for strings, little-endian integers, raw bytes otherwise.
func (v Value) Bytes() ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	switch v.Type {
	case REG_SZ, REG_EXPAND_SZ:
		return EncodeUTF16LE(v.Text, true), nil
	case REG_DWORD:
		buf := make([]byte, dwordSize)
		binary.LittleEndian.PutUint32(buf, uint32(v.Number))
		return buf, nil
	case REG_QWORD:
		buf := make([]byte, qwordSize)
		binary.LittleEndian.PutUint64(buf, v.Number)
		return buf, nil
	case REG_MULTI_SZ:
		var buf bytes.Buffer
		for _, s := range v.List {
			buf.Write(EncodeUTF16LE(s, true))
		}
		buf.Write([]byte{0x00, 0x00})
		return buf.Bytes(), nil
	default:
		return bytes.Clone(v.Data), nil
	}
}

// ParseValue decodes registry-encoded data of type t. It is the inverse of
// Value.Bytes for supported types.
func ParseValue(t RegType, data []byte) (Value, error) {
	switch t {
	case REG_SZ, REG_EXPAND_SZ:
		return Value{Type: t, Text: firstString(DecodeUTF16LE(data))}, nil
	case REG_DWORD:
		if len(data) != dwordSize {
			return Value{}, InvalidArgument("REG_DWORD needs %d bytes, got %d", dwordSize, len(data))
		}
		return DWORDValue(binary.LittleEndian.Uint32(data)), nil
	case REG_QWORD:
		if len(data) != qwordSize {
			return Value{}, InvalidArgument("REG_QWORD needs %d bytes, got %d", qwordSize, len(data))
		}
		return QWORDValue(binary.LittleEndian.Uint64(data)), nil
	case REG_MULTI_SZ:
		var list []string
		for _, s := range strings.Split(DecodeUTF16LE(data), "\x00") {
			if s != "" {
				list = append(list, s)
			}
		}
		return Value{Type: REG_MULTI_SZ, List: list}, nil
	case REG_BINARY:
		return BinaryValue(data), nil
	default:
		return Value{}, InvalidArgument("unsupported value type %s", t)
	}
}

// EncodeUTF16LE encodes s as UTF-16LE, optionally NUL-terminated.
func EncodeUTF16LE(s string, terminate bool) []byte {
	words := utf16.Encode([]rune(s))
	n := len(words)
	if terminate {
		n++
	}
	buf := make([]byte, n*utf16Unit)
	for i, w := range words {
		binary.LittleEndian.PutUint16(buf[i*utf16Unit:], w)
	}
	return buf
}

// DecodeUTF16LE decodes UTF-16LE data, ignoring a trailing odd byte.
func DecodeUTF16LE(data []byte) string {
	if len(data)%utf16Unit == 1 {
		data = data[:len(data)-1]
	}
	words := make([]uint16, len(data)/utf16Unit)
	for i := range words {
		words[i] = binary.LittleEndian.Uint16(data[i*utf16Unit:])
	}
	return string(utf16.Decode(words))
}

func firstString(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i]
	}
	return s
}
