package regtext

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/joshuapare/shellns/pkg/types"
)

func sampleSections() []Section {
	return []Section{
		{Path: `Software\DriveManager`},
		{Path: `Software\DriveManager\Backups\{X}`, Values: []types.NamedValue{
			{Name: "", Value: types.StringValue(`Demo "quoted" C:\path`)},
			{Name: "Flag", Value: types.DWORDValue(0xdeadbeef)},
			{Name: "Size", Value: types.QWORDValue(1 << 40)},
			{Name: "Icon", Value: types.ExpandStringValue(`%SystemRoot%\icon.dll`)},
			{Name: "Paths", Value: types.MultiStringValue([]string{"a", "b"})},
			{Name: "Blob", Value: types.BinaryValue(bytes.Repeat([]byte{0xab}, 100))},
			{Name: "Empty", Value: types.BinaryValue(nil)},
			{Name: "Lines", Value: types.StringValue("one\r\ntwo")},
			{Name: `we"ird\name`, Value: types.StringValue("")},
		}},
	}
}

func sectionsEqual(t *testing.T, want, got []Section) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("got %d sections, want %d", len(got), len(want))
	}
	for i := range want {
		if want[i].Path != got[i].Path {
			t.Errorf("section %d: path %q, want %q", i, got[i].Path, want[i].Path)
		}
		if len(want[i].Values) != len(got[i].Values) {
			t.Fatalf("section %q: got %d values, want %d", want[i].Path, len(got[i].Values), len(want[i].Values))
		}
		for j, w := range want[i].Values {
			g := got[i].Values[j]
			if g.Name != w.Name || !g.Value.Equal(w.Value) {
				t.Errorf("section %q value %d: got %q=%s, want %q=%s", want[i].Path, j, g.Name, g.Value, w.Name, w.Value)
			}
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, enc := range []string{EncodingUTF16LE, EncodingUTF8} {
		t.Run(enc, func(t *testing.T) {
			data, err := Marshal(sampleSections(), EmitOptions{Encoding: enc, Comments: []string{"snapshot"}})
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			got, err := Unmarshal(data, ParseOptions{})
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			sectionsEqual(t, sampleSections(), got)
		})
	}
}

func TestMarshal_UTF16LEHasBOM(t *testing.T) {
	data, err := Marshal(nil, EmitOptions{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xFF, 0xFE}) {
		t.Fatalf("missing UTF-16LE BOM: % x", data[:4])
	}
}

func TestMarshal_Format(t *testing.T) {
	sections := []Section{{Path: `A\B`, Values: []types.NamedValue{
		{Name: "", Value: types.StringValue("Demo")},
		{Name: "Flag", Value: types.DWORDValue(1)},
		{Name: "Size", Value: types.QWORDValue(2)},
		{Name: "Icon", Value: types.ExpandStringValue("x")},
	}}}
	data, err := Marshal(sections, EmitOptions{Encoding: EncodingUTF8})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := "Windows Registry Editor Version 5.00\r\n\r\n" +
		"[HKEY_CURRENT_USER\\A\\B]\r\n" +
		"@=\"Demo\"\r\n" +
		"\"Flag\"=dword:00000001\r\n" +
		"\"Size\"=hex(b):02,00,00,00,00,00,00,00\r\n" +
		"\"Icon\"=hex(2):78,00,00,00\r\n" +
		"\r\n"
	if string(data) != want {
		t.Errorf("got:\n%q\nwant:\n%q", data, want)
	}
}

func TestMarshal_WrapsLongHex(t *testing.T) {
	sections := []Section{{Path: "K", Values: []types.NamedValue{
		{Name: "Blob", Value: types.BinaryValue(bytes.Repeat([]byte{0x01}, 64))},
	}}}
	data, err := Marshal(sections, EmitOptions{Encoding: EncodingUTF8})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, line := range strings.Split(string(data), CRLF) {
		if len(line) > HexLineWidth {
			t.Errorf("line longer than %d: %q", HexLineWidth, line)
		}
	}
	if !strings.Contains(string(data), ",\\\r\n  01") {
		t.Errorf("expected a continuation line in %q", data)
	}
}

func TestMarshal_RejectsInvalidValue(t *testing.T) {
	sections := []Section{{Path: "K", Values: []types.NamedValue{
		{Name: "bad", Value: types.Value{Type: types.REG_LINK}},
	}}}
	if _, err := Marshal(sections, EmitOptions{}); err == nil {
		t.Fatal("expected an error for REG_LINK")
	}
}

func TestMarshal_RejectsLineBreaks(t *testing.T) {
	tests := []struct {
		name     string
		sections []Section
	}{
		{"LF in value name", []Section{{Path: "K", Values: []types.NamedValue{
			{Name: "a\nb", Value: types.StringValue("x")},
		}}}},
		{"CR in value name", []Section{{Path: "K", Values: []types.NamedValue{
			{Name: "a\rb", Value: types.DWORDValue(1)},
		}}}},
		{"LF in key path", []Section{{Path: "K\\a\nb"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Marshal(tt.sections, EmitOptions{})
			if !errors.Is(err, types.ErrInvalidArgument) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestUnmarshal_RegeditInput(t *testing.T) {
	input := "Windows Registry Editor Version 5.00\r\n" +
		"\r\n" +
		"; comment\r\n" +
		"[HKCU\\Software\\Test]\r\n" +
		"@=\"Default\"\r\n" +
		"\"Flag\"=dword:0000000a\r\n" +
		"\"Str\"=hex(1):48,00,69,00,00,00\r\n" +
		"\"Multi\"=hex(7):61,00,00,00,62,00,00,00,\\\r\n" +
		"  00,00\r\n" +
		"\r\n" +
		"[Software\\Test]\r\n" +
		"\"flag\"=dword:0000000b\r\n"

	got, err := Unmarshal([]byte(input), ParseOptions{})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := []Section{{Path: `Software\Test`, Values: []types.NamedValue{
		{Name: "", Value: types.StringValue("Default")},
		{Name: "flag", Value: types.DWORDValue(11)},
		{Name: "Str", Value: types.StringValue("Hi")},
		{Name: "Multi", Value: types.MultiStringValue([]string{"a", "b"})},
	}}}
	sectionsEqual(t, want, got)
}

func TestUnmarshal_UTF16WithoutBOM(t *testing.T) {
	text := RegFileHeader + CRLF + "[K]" + CRLF + "@=\"v\"" + CRLF
	data := types.EncodeUTF16LE(text, false)

	got, err := Unmarshal(data, ParseOptions{Encoding: EncodingUTF16LE})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	sectionsEqual(t, []Section{{Path: "K", Values: []types.NamedValue{{Value: types.StringValue("v")}}}}, got)
}

func TestUnmarshal_Blank(t *testing.T) {
	got, err := Unmarshal([]byte(" \r\n"), ParseOptions{})
	if err != nil || got != nil {
		t.Fatalf("got %v, %v; want no sections", got, err)
	}
}

func TestUnmarshal_Errors(t *testing.T) {
	header := RegFileHeader + "\r\n"
	tests := []struct {
		name  string
		input string
	}{
		{"missing header", "[K]\r\n"},
		{"value without section", header + "\"a\"=\"b\"\r\n"},
		{"malformed section", header + "[K\r\n"},
		{"key deletion", header + "[-K]\r\n"},
		{"value deletion", header + "[K]\r\n\"a\"=-\r\n"},
		{"other hive", header + "[HKEY_LOCAL_MACHINE\\K]\r\n"},
		{"bad dword", header + "[K]\r\n\"a\"=dword:1\r\n"},
		{"bad hex", header + "[K]\r\n\"a\"=hex:zz\r\n"},
		{"bad hex type", header + "[K]\r\n\"a\"=hex(q):00\r\n"},
		{"unsupported type", header + "[K]\r\n\"a\"=hex(0):00\r\n"},
		{"unterminated string", header + "[K]\r\n\"a\"=\"b\r\n"},
		{"unterminated name", header + "[K]\r\n\"a=\"b\r\n"},
		{"dangling continuation", header + "[K]\r\n\"a\"=hex:00,\\\r\n"},
		{"unknown syntax", header + "[K]\r\nbogus\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tt.input), ParseOptions{}); err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
		})
	}
}

func TestUnmarshal_UnsupportedEncoding(t *testing.T) {
	if _, err := Unmarshal([]byte("x"), ParseOptions{Encoding: "EBCDIC"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestUnescapeRegString(t *testing.T) {
	tests := map[string]string{
		`plain`:      `plain`,
		`C:\\dir`:    `C:\dir`,
		`say \"hi\"`: `say "hi"`,
		`a\\\"b`:     `a\"b`,
		`keep\n`:     `keep\n`,
	}
	for in, want := range tests {
		if got := unescapeRegString(in); got != want {
			t.Errorf("unescapeRegString(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFindClosingQuote(t *testing.T) {
	tests := map[string]int{
		`"abc"=x`:    4,
		`"a\"b"=x`:   5,
		`"a\\"=x`:    4,
		`"unclosed`:  -1,
		`"a\\\"b"=x`: 7,
	}
	for in, want := range tests {
		if got := findClosingQuote(in); got != want {
			t.Errorf("findClosingQuote(%q) = %d, want %d", in, got, want)
		}
	}
}
