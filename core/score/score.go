// core/score/score.go
package score

import (
	"errors"

	"kpath-core/ident"
)

// Result is the outcome of scoring one entity against an observed gene set:
// whether the entity can function at all, and what fraction of its ideal
// gene-product complement was observed.
type Result struct {
	Present      bool
	Completeness float64 // in [0,1]
}

// ErrEmptyAggregate signals that a mean was requested over zero children.
// A 0.0 score is a legitimate "absent but defined" result, so "nothing to
// evaluate" must stay a distinct condition rather than a numeric sentinel.
var ErrEmptyAggregate = errors.New("empty aggregate")

// Scorer is the one capability shared by every evaluable entity: expression
// nodes, enzymes, catalysts, reactions, and whole modules.
type Scorer interface {
	Score(observed ident.Set) (Result, error)
}

// AnyMax folds alternatives: present if any alternative is present,
// completeness of the best alternative (OR never averages). Zero
// alternatives score as absent with 0.0 completeness.
func AnyMax[T any](xs []T, f func(T) (Result, error)) (Result, error) {
	var out Result
	for _, x := range xs {
		r, err := f(x)
		if err != nil {
			return Result{}, err
		}
		if r.Present {
			out.Present = true
		}
		if r.Completeness > out.Completeness {
			out.Completeness = r.Completeness
		}
	}
	return out, nil
}

// AllMean folds jointly required parts: present only if every part is
// present, completeness as the arithmetic mean of part completeness
// (a partially satisfied AND earns partial credit).
func AllMean[T any](xs []T, f func(T) (Result, error)) (Result, error) {
	if len(xs) == 0 {
		return Result{}, ErrEmptyAggregate
	}
	out := Result{Present: true}
	total := 0.0
	for _, x := range xs {
		r, err := f(x)
		if err != nil {
			return Result{}, err
		}
		if !r.Present {
			out.Present = false
		}
		total += r.Completeness
	}
	out.Completeness = total / float64(len(xs))
	return out, nil
}
