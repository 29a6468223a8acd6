// core/expr/expr.go
package expr

import (
	"strings"

	"kpath-core/ident"
	"kpath-core/score"
)

// Node is one combinator in a parsed module definition. Trees are immutable
// after Parse; Score is a pure post-order walk safe for concurrent use.
type Node interface {
	score.Scorer

	// Render writes the node back as definition text. The output is
	// semantically equivalent to the parsed input (same presence and
	// completeness for every observed set), not byte-identical.
	Render() string
}

// Atom is a leaf reference to one ortholog or module accession.
type Atom struct {
	ID ident.ID
}

// And requires every child jointly; presence is all-or-nothing while
// completeness gives partial credit by arithmetic mean. Space- and
// '+'-joined terms both land here.
type And struct {
	Children []Node
}

// Or is satisfied by any single alternative; completeness is the best
// alternative's score.
type Or struct {
	Children []Node
}

// Optional marks a '-'-prefixed subunit: it contributes to completeness
// scoring but its absence never blocks an enclosing And.
type Optional struct {
	Child Node
}

func (a Atom) Score(observed ident.Set) (score.Result, error) {
	if observed.Has(a.ID) {
		return score.Result{Present: true, Completeness: 1.0}, nil
	}
	return score.Result{}, nil
}

func (n And) Score(observed ident.Set) (score.Result, error) {
	return score.AllMean(n.Children, func(c Node) (score.Result, error) { return c.Score(observed) })
}

func (n Or) Score(observed ident.Set) (score.Result, error) {
	return score.AnyMax(n.Children, func(c Node) (score.Result, error) { return c.Score(observed) })
}

func (o Optional) Score(observed ident.Set) (score.Result, error) {
	r, err := o.Child.Score(observed)
	if err != nil {
		return score.Result{}, err
	}
	r.Present = true
	return r, nil
}

func (a Atom) Render() string { return string(a.ID) }

func (n And) Render() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, c := range n.Children {
		opt, isOpt := c.(Optional)
		if i > 0 {
			if isOpt {
				b.WriteByte('-')
			} else {
				b.WriteByte('+')
			}
		}
		if isOpt && i > 0 {
			b.WriteString(opt.Child.Render())
		} else {
			b.WriteString(c.Render())
		}
	}
	b.WriteByte(')')
	return b.String()
}

func (n Or) Render() string {
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = c.Render()
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// Render on a bare Optional only occurs for hand-built trees; parsed trees
// always reach Optional through And.Render.
func (o Optional) Render() string { return "-" + o.Child.Render() }
