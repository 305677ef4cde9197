package regtext

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/shellns/pkg/types"
)

// ParseOptions controls Unmarshal.
type ParseOptions struct {
	// Encoding applies when the input has no byte order mark.
	Encoding string
}

// Unmarshal parses a .reg file into sections in file order. Repeated
// sections are merged and a repeated value name keeps the last value. Blank
// input yields no sections.
func Unmarshal(data []byte, opts ParseOptions) ([]Section, error) {
	text, err := decodeInput(data, opts.Encoding)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, ScannerInitialBufferSize), ScannerMaxLineSize)

	var (
		sections   []*Section
		byPath     = make(map[string]*Section)
		current    *Section
		seenHeader bool
		lineNo     int
		pending    strings.Builder
	)
	for scanner.Scan() {
		lineNo++
		trim := strings.TrimSpace(strings.TrimRight(scanner.Text(), CR))

		// Hex payloads continue onto the next line after a trailing backslash.
		if pending.Len() > 0 || (current != nil && isContinued(trim)) {
			pending.WriteString(strings.TrimSuffix(trim, Backslash))
			if isContinued(trim) {
				continue
			}
			trim = pending.String()
			pending.Reset()
		}

		if trim == "" || strings.HasPrefix(trim, CommentPrefix) {
			continue
		}
		if !seenHeader {
			if trim != RegFileHeader {
				return nil, errors.New("regtext: missing header")
			}
			seenHeader = true
			continue
		}
		if strings.HasPrefix(trim, KeyOpenBracket) {
			if !strings.HasSuffix(trim, KeyCloseBracket) {
				return nil, fmt.Errorf("regtext: line %d: malformed section %q", lineNo, trim)
			}
			raw := strings.TrimSuffix(strings.TrimPrefix(trim, KeyOpenBracket), KeyCloseBracket)
			if strings.HasPrefix(raw, DeleteKeyPrefix) {
				return nil, fmt.Errorf("regtext: line %d: key deletion is not supported", lineNo)
			}
			path, err := normalizePath(raw)
			if err != nil {
				return nil, fmt.Errorf("regtext: line %d: %w", lineNo, err)
			}
			folded := types.FoldPath(path)
			if existing, ok := byPath[folded]; ok {
				current = existing
				continue
			}
			current = &Section{Path: path}
			byPath[folded] = current
			sections = append(sections, current)
			continue
		}
		if current == nil {
			return nil, fmt.Errorf("regtext: line %d: value without section", lineNo)
		}
		nv, err := parseValueLine(trim)
		if err != nil {
			return nil, fmt.Errorf("regtext: line %d: %w", lineNo, err)
		}
		current.Values = setValue(current.Values, nv)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if pending.Len() > 0 {
		return nil, errors.New("regtext: input ends inside a continued line")
	}
	if !seenHeader {
		return nil, errors.New("regtext: missing header")
	}

	out := make([]Section, len(sections))
	for i, s := range sections {
		out[i] = *s
	}
	return out, nil
}

func isContinued(line string) bool {
	return strings.HasSuffix(line, Backslash) && !strings.HasPrefix(line, KeyOpenBracket)
}

func setValue(values []types.NamedValue, nv types.NamedValue) []types.NamedValue {
	for i := range values {
		if strings.EqualFold(values[i].Name, nv.Name) {
			values[i] = nv
			return values
		}
	}
	return append(values, nv)
}

// normalizePath strips the HKEY_CURRENT_USER root. Paths under other hives
// are rejected; bare paths are taken as already relative.
func normalizePath(raw string) (string, error) {
	path := types.CleanPath(raw)
	upper := strings.ToUpper(path)
	for _, root := range []string{HKEYCurrentUser, HKEYCurrentUserShort} {
		if upper == root {
			return "", nil
		}
		if strings.HasPrefix(upper, root+Backslash) {
			return path[len(root)+1:], nil
		}
	}
	if strings.HasPrefix(upper, "HKEY_") {
		return "", fmt.Errorf("section %q is outside %s", raw, HKEYCurrentUser)
	}
	return path, nil
}

func parseValueLine(line string) (types.NamedValue, error) {
	if strings.HasPrefix(line, DefaultValuePrefix) {
		v, err := parseValue(line[len(DefaultValuePrefix):])
		return types.NamedValue{Value: v}, err
	}
	if !strings.HasPrefix(line, Quote) {
		return types.NamedValue{}, fmt.Errorf("malformed value line %q", line)
	}
	end := findClosingQuote(line)
	if end < 0 {
		return types.NamedValue{}, fmt.Errorf("unterminated value name in %q", line)
	}
	name := unescapeRegString(line[1:end])
	rest := strings.TrimSpace(line[end+1:])
	if !strings.HasPrefix(rest, ValueAssignment) {
		return types.NamedValue{}, fmt.Errorf("missing '=' in %q", line)
	}
	v, err := parseValue(rest[1:])
	return types.NamedValue{Name: name, Value: v}, err
}

func parseValue(payload string) (types.Value, error) {
	payload = strings.TrimSpace(payload)
	switch {
	case payload == DeleteValueToken:
		return types.Value{}, errors.New("value deletion is not supported")
	case strings.HasPrefix(payload, Quote):
		if len(payload) < 2 || !strings.HasSuffix(payload, Quote) {
			return types.Value{}, fmt.Errorf("unterminated string %q", payload)
		}
		return types.StringValue(unescapeRegString(payload[1 : len(payload)-1])), nil
	case strings.HasPrefix(payload, DWORDPrefix):
		hexPart := payload[len(DWORDPrefix):]
		if len(hexPart) != DWORDHexLength {
			return types.Value{}, fmt.Errorf("invalid dword %q", payload)
		}
		n, err := strconv.ParseUint(hexPart, 16, 32)
		if err != nil {
			return types.Value{}, fmt.Errorf("invalid dword %q: %w", payload, err)
		}
		return types.DWORDValue(uint32(n)), nil
	case strings.HasPrefix(payload, "hex"):
		typ, err := parseHexType(payload)
		if err != nil {
			return types.Value{}, err
		}
		data, err := parseHexBytes(payload)
		if err != nil {
			return types.Value{}, err
		}
		return types.ParseValue(typ, data)
	default:
		return types.Value{}, fmt.Errorf("unsupported value %q", payload)
	}
}

// parseHexType reads the type of a hex payload: "hex:" is REG_BINARY,
// "hex(N):" is type N in hexadecimal.
func parseHexType(payload string) (types.RegType, error) {
	if strings.HasPrefix(payload, HexPrefix) {
		return types.REG_BINARY, nil
	}
	open := strings.IndexByte(payload, '(')
	closing := strings.IndexByte(payload, ')')
	if open != len("hex") || closing < open || !strings.HasPrefix(payload[closing+1:], ":") {
		return 0, fmt.Errorf("malformed hex type in %q", payload)
	}
	n, err := strconv.ParseUint(payload[open+1:closing], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("malformed hex type in %q: %w", payload, err)
	}
	return types.RegType(n), nil
}
