// internal/report/build.go
package report

import (
	"fmt"

	"kpath-core/expr"
	"kpath-core/ident"
	"kpath-core/pathway"
)

// Evaluation paths: the reaction hierarchy assembled from fetched records,
// or the expression tree parsed from the module's definition text.
const (
	EvalReactions  = "reactions"
	EvalDefinition = "definition"
)

// SummaryStep labels the whole-module row emitted with -summary.
const SummaryStep = "TOTAL"

// Build evaluates one module against one named gene set and returns its
// report rows, one per step, plus an optional whole-module summary row.
func Build(m *pathway.Module, subject string, observed ident.Set, eval string, summary bool) ([]Row, error) {
	switch eval {
	case EvalReactions:
		return buildReactions(m, subject, observed, summary)
	case EvalDefinition:
		return buildDefinition(m, subject, observed, summary)
	default:
		return nil, fmt.Errorf("unknown eval path %q", eval)
	}
}

func buildReactions(m *pathway.Module, subject string, observed ident.Set, summary bool) ([]Row, error) {
	reactions := m.Reactions()
	rows := make([]Row, 0, len(reactions)+1)
	for _, r := range reactions {
		res, err := r.Score(observed)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{
			Module:       m.Accession(),
			Step:         r.Label(),
			Subject:      subject,
			Present:      res.Present,
			Completeness: res.Completeness,
		})
	}
	if summary {
		res, err := m.Score(observed) // ErrEmptyAggregate surfaces here
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{
			Module:       m.Accession(),
			Step:         SummaryStep,
			Subject:      subject,
			Present:      res.Present,
			Completeness: res.Completeness,
		})
	}
	return rows, nil
}

func buildDefinition(m *pathway.Module, subject string, observed ident.Set, summary bool) ([]Row, error) {
	root, err := m.Expression()
	if err != nil {
		return nil, err
	}

	// The top-level AND's children are the module's required steps; a
	// definition without a top-level AND is a single step.
	steps := []expr.Node{root}
	if and, ok := root.(expr.And); ok {
		steps = and.Children
	}

	rows := make([]Row, 0, len(steps)+1)
	for _, step := range steps {
		res, err := step.Score(observed)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{
			Module:       m.Accession(),
			Step:         step.Render(),
			Subject:      subject,
			Present:      res.Present,
			Completeness: res.Completeness,
		})
	}
	if summary {
		res, err := root.Score(observed)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{
			Module:       m.Accession(),
			Step:         SummaryStep,
			Subject:      subject,
			Present:      res.Present,
			Completeness: res.Completeness,
		})
	}
	return rows, nil
}
