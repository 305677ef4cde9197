package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/joshuapare/shellns/pkg/types"
)

// ValueSet is the complete value snapshot of one entry, keyed by value name.
type ValueSet map[string]types.Value

// FromNamed builds a ValueSet from a store listing.
func FromNamed(values []types.NamedValue) ValueSet {
	set := make(ValueSet, len(values))
	for _, nv := range values {
		set[nv.Name] = nv.Value
	}
	return set
}

// Names returns the value names in sorted order.
func (s ValueSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether both sets hold the same names with equal values.
func (s ValueSet) Equal(o ValueSet) bool {
	if len(s) != len(o) {
		return false
	}
	for name, v := range s {
		ov, ok := o[name]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// wireValue is the JSON shape of one value.
type wireValue struct {
	Value json.RawMessage `json:"value"`
	Type  types.RegType   `json:"type"`
}

// Encode serializes values into deterministic JSON text. Values with an
// unsupported type fail with types.ErrInvalidArgument.
func Encode(values ValueSet) (string, error) {
	wire := make(map[string]wireValue, len(values))
	for name, v := range values {
		if err := v.Validate(); err != nil {
			return "", fmt.Errorf("encode value %q: %w", name, err)
		}
		payload, err := encodePayload(v)
		if err != nil {
			return "", fmt.Errorf("encode value %q: %w", name, err)
		}
		wire[name] = wireValue{Value: payload, Type: v.Type}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(wire); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func encodePayload(v types.Value) (json.RawMessage, error) {
	switch v.Type {
	case types.REG_SZ, types.REG_EXPAND_SZ:
		return marshalNoEscape(v.Text)
	case types.REG_DWORD, types.REG_QWORD:
		return json.Marshal(v.Number)
	case types.REG_MULTI_SZ:
		list := v.List
		if list == nil {
			list = []string{}
		}
		return marshalNoEscape(list)
	case types.REG_BINARY:
		data := v.Data
		if data == nil {
			data = []byte{}
		}
		return json.Marshal(data)
	default:
		return nil, types.InvalidArgument("unsupported value type %s", v.Type)
	}
}

func marshalNoEscape(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses text produced by Encode. Malformed text, unknown type tags
// and payloads that do not match their tag fail with types.ErrCorruptBackup.
func Decode(text string) (ValueSet, error) {
	var wire map[string]*wireValue
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return nil, types.CorruptBackup(err, "backup data is not valid JSON")
	}
	if wire == nil {
		return nil, types.CorruptBackup(nil, "backup data is empty")
	}

	values := make(ValueSet, len(wire))
	for name, w := range wire {
		if w == nil {
			return nil, types.CorruptBackup(nil, "value %q is null", name)
		}
		v, err := decodePayload(w)
		if err != nil {
			return nil, types.CorruptBackup(err, "value %q", name)
		}
		values[name] = v
	}
	return values, nil
}

func decodePayload(w *wireValue) (types.Value, error) {
	if len(w.Value) == 0 || bytes.Equal(w.Value, []byte("null")) {
		return types.Value{}, fmt.Errorf("missing payload")
	}
	v := types.Value{Type: w.Type}
	var err error
	switch w.Type {
	case types.REG_SZ, types.REG_EXPAND_SZ:
		err = json.Unmarshal(w.Value, &v.Text)
	case types.REG_DWORD, types.REG_QWORD:
		err = json.Unmarshal(w.Value, &v.Number)
	case types.REG_MULTI_SZ:
		err = json.Unmarshal(w.Value, &v.List)
	case types.REG_BINARY:
		err = json.Unmarshal(w.Value, &v.Data)
	default:
		return types.Value{}, fmt.Errorf("unknown type tag %d", uint32(w.Type))
	}
	if err != nil {
		return types.Value{}, fmt.Errorf("%s payload: %w", w.Type, err)
	}
	if err := v.Validate(); err != nil {
		return types.Value{}, err
	}
	return v, nil
}
