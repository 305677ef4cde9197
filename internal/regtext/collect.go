package regtext

import (
	"errors"

	"github.com/joshuapare/shellns/pkg/types"
)

// Collect walks each root of s in pre-order and returns one section per
// path, roots included. Missing roots are skipped.
func Collect(s types.Store, roots ...string) ([]Section, error) {
	var out []Section
	for _, root := range roots {
		values, err := s.ListValues(root)
		if errors.Is(err, types.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := collect(s, types.CleanPath(root), values, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func collect(s types.Store, path string, values []types.NamedValue, out *[]Section) error {
	*out = append(*out, Section{Path: path, Values: values})
	children, err := s.ListChildren(path)
	if err != nil {
		return err
	}
	for _, child := range children {
		childPath := types.JoinPath(path, child)
		childValues, err := s.ListValues(childPath)
		if err != nil {
			return err
		}
		if err := collect(s, childPath, childValues, out); err != nil {
			return err
		}
	}
	return nil
}
