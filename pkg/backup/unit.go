package backup

import (
	"errors"
	"fmt"

	"github.com/joshuapare/shellns/pkg/types"
)

// Value names of a backup unit.
const (
	FieldName   = "name"
	FieldData   = "original_data"
	FieldTime   = "backup_time"
	FieldMarker = "has_backup"
)

const (
	// TimeLayout formats Unit.CreatedAt.
	TimeLayout = "2006-01-02 15:04:05"
	// UnknownTime is reported for units written without a backup_time.
	UnknownTime = "unknown"
)

// Unit is one backed-up entry.
type Unit struct {
	Name      string
	Values    ValueSet
	CreatedAt string
}

// Info is the metadata of a unit, read without decoding its values.
type Info struct {
	Name      string
	CreatedAt string
}

// Write stores u at path. The marker is written last; callers confirm the
// unit with Present before relying on it.
func Write(s types.Store, path string, u Unit) error {
	data, err := Encode(u.Values)
	if err != nil {
		return err
	}
	writes := []types.NamedValue{
		{Name: FieldName, Value: types.StringValue(u.Name)},
		{Name: FieldData, Value: types.StringValue(data)},
		{Name: FieldTime, Value: types.StringValue(u.CreatedAt)},
		{Name: FieldMarker, Value: types.DWORDValue(1)},
	}
	for _, w := range writes {
		if err := s.SetValue(path, w.Name, w.Value); err != nil {
			return fmt.Errorf("write %s: %w", w.Name, err)
		}
	}
	return nil
}

// Present reports whether path holds a unit whose marker is set. A missing
// path or marker is not an error.
func Present(s types.Store, path string) (bool, error) {
	v, err := s.GetValue(path, FieldMarker)
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return markerSet(v), nil
}

func markerSet(v types.Value) bool {
	switch v.Type {
	case types.REG_DWORD, types.REG_QWORD:
		return v.Number != 0
	default:
		return false
	}
}

// ReadInfo returns the name and capture time of the unit at path without
// decoding its values. ok is false when path holds no marked unit. Missing
// metadata falls back to key and UnknownTime.
func ReadInfo(s types.Store, path, key string) (info Info, ok bool, err error) {
	ok, err = Present(s, path)
	if err != nil || !ok {
		return Info{}, false, err
	}

	info = Info{Name: key, CreatedAt: UnknownTime}
	if name, err := optionalString(s, path, FieldName); err != nil {
		return Info{}, false, err
	} else if name != "" {
		info.Name = name
	}
	if at, err := optionalString(s, path, FieldTime); err != nil {
		return Info{}, false, err
	} else if at != "" {
		info.CreatedAt = at
	}
	return info, true, nil
}

// Read loads and decodes the unit at path. It fails with types.ErrNoBackup
// when no marked unit exists and types.ErrCorruptBackup when the data cannot
// be decoded.
func Read(s types.Store, path, key string) (Unit, error) {
	info, ok, err := ReadInfo(s, path, key)
	if err != nil {
		return Unit{}, err
	}
	if !ok {
		return Unit{}, types.NoBackup("no backup for %q", key)
	}

	raw, err := s.GetValue(path, FieldData)
	if errors.Is(err, types.ErrNotFound) {
		return Unit{}, types.NoBackup("backup for %q has no data", key)
	}
	if err != nil {
		return Unit{}, err
	}
	if raw.Type != types.REG_SZ {
		return Unit{}, types.CorruptBackup(nil, "backup data for %q has type %s", key, raw.Type)
	}

	values, err := Decode(raw.Text)
	if err != nil {
		return Unit{}, err
	}
	return Unit{Name: info.Name, Values: values, CreatedAt: info.CreatedAt}, nil
}

// Remove deletes the unit at path. A missing unit is not an error.
func Remove(s types.Store, path string) error {
	if err := s.DeletePath(path); err != nil && !errors.Is(err, types.ErrNotFound) {
		return err
	}
	return nil
}

func optionalString(s types.Store, path, name string) (string, error) {
	v, err := s.GetValue(path, name)
	if errors.Is(err, types.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if v.Type != types.REG_SZ && v.Type != types.REG_EXPAND_SZ {
		return "", nil
	}
	return v.Text, nil
}
