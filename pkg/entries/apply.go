package entries

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Failure is one entry that Apply could not transition.
type Failure struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Result summarizes one Apply run.
type Result struct {
	RunID    string    `json:"run_id"`
	Changed  int       `json:"changed"`
	Failures []Failure `json:"failures,omitempty"`
}

// Err joins the failures into one error, or returns nil.
func (res Result) Err() error {
	if len(res.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(res.Failures))
	for _, f := range res.Failures {
		if f.Err != nil {
			errs = append(errs, f.Err)
		} else {
			errs = append(errs, fmt.Errorf("%s: %s", f.Key, f.Message))
		}
	}
	return errors.Join(errs...)
}

// Apply commits every pending entry of cache: entries now wanted visible are
// restored, entries now wanted hidden are hidden. Entries are processed in
// key order and one failure does not stop the rest.
func (r *Registry) Apply(cache Cache) Result {
	res := Result{RunID: uuid.NewString()}
	log := r.log.With("run_id", res.RunID)

	for _, key := range cache.Keys() {
		e := cache[key]
		if !e.Pending() {
			continue
		}
		var err error
		if e.Visible {
			err = r.Restore(key, e)
		} else {
			err = r.Hide(key, e)
		}
		if err != nil {
			log.Warn("transition failed", "key", key, "error", err)
			res.Failures = append(res.Failures, Failure{
				Key:     key,
				Name:    e.Name(),
				Message: err.Error(),
				Err:     err,
			})
			continue
		}
		res.Changed++
	}

	log.Info("apply finished", "changed", res.Changed, "failed", len(res.Failures))
	return res
}
