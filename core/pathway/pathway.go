// core/pathway/pathway.go

// Package pathway holds the catalytic hierarchy assembled from KEGG records:
// a Module owns ordered Reactions, a Reaction owns alternative Catalysts, a
// Catalyst owns alternative Enzymes, and an Enzyme owns its required subunit
// set. Entities are built through single-writer builders and are read-only
// after Seal, so concurrent scoring of sealed entities needs no locking.
package pathway

import (
	"fmt"
	"sort"
	"strings"

	"kpath-core/expr"
	"kpath-core/ident"
	"kpath-core/score"
)

// ConflictError reports an enzyme accession redefined with a different
// subunit set during assembly. Not fatal; callers decide whether to keep
// the first definition or abort.
type ConflictError struct {
	Accession string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("enzyme %s redefined with conflicting subunits", e.Accession)
}

/* ---------------------------- enzyme ---------------------------- */

// Enzyme is one EC accession plus the ortholog subunits it requires.
type Enzyme struct {
	accession string
	subunits  ident.Set
}

// EnzymeBuilder assembles an Enzyme from multi-line records; Seal freezes it.
type EnzymeBuilder struct {
	accession string
	subunits  ident.Set
}

func NewEnzyme(accession string) *EnzymeBuilder {
	return &EnzymeBuilder{accession: accession, subunits: ident.Set{}}
}

func (b *EnzymeBuilder) Add(ko ident.ID)    { b.subunits.Add(ko) }
func (b *EnzymeBuilder) Remove(ko ident.ID) { delete(b.subunits, ko) }

// Seal returns the immutable enzyme. The builder keeps no reference to the
// returned set, so further Add/Remove calls cannot leak into sealed values.
func (b *EnzymeBuilder) Seal() *Enzyme {
	frozen := make(ident.Set, len(b.subunits))
	for ko := range b.subunits {
		frozen.Add(ko)
	}
	return &Enzyme{accession: b.accession, subunits: frozen}
}

func (e *Enzyme) Accession() string { return e.accession }

// Subunits returns the subunit accessions in sorted order.
func (e *Enzyme) Subunits() []ident.ID {
	out := make([]ident.ID, 0, len(e.subunits))
	for ko := range e.subunits {
		out = append(out, ko)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal compares accession and subunit set.
func (e *Enzyme) Equal(o *Enzyme) bool {
	if e.accession != o.accession || len(e.subunits) != len(o.subunits) {
		return false
	}
	for ko := range e.subunits {
		if !o.subunits.Has(ko) {
			return false
		}
	}
	return true
}

// Score: present iff every subunit was observed; completeness is the
// observed fraction. An enzyme with no known subunits is never present and
// scores 0.0 (never a division by zero).
func (e *Enzyme) Score(observed ident.Set) (score.Result, error) {
	n := len(e.subunits)
	if n == 0 {
		return score.Result{}, nil
	}
	missing := 0
	for ko := range e.subunits {
		if !observed.Has(ko) {
			missing++
		}
	}
	return score.Result{
		Present:      missing == 0,
		Completeness: float64(n-missing) / float64(n),
	}, nil
}

/* --------------------------- catalyst --------------------------- */

// Catalyst groups the alternative enzymes able to drive one reaction step.
type Catalyst struct {
	enzymes []*Enzyme
}

type CatalystBuilder struct {
	enzymes []*Enzyme
}

func NewCatalyst() *CatalystBuilder { return &CatalystBuilder{} }

// Add appends an enzyme alternative. Exact duplicates are dropped silently;
// a same-accession enzyme with different subunits is kept out and reported
// as a *ConflictError so the caller can log the integrity problem.
func (b *CatalystBuilder) Add(e *Enzyme) error {
	for _, have := range b.enzymes {
		if have.Equal(e) {
			return nil
		}
		if have.accession == e.accession {
			return &ConflictError{Accession: e.accession}
		}
	}
	b.enzymes = append(b.enzymes, e)
	return nil
}

func (b *CatalystBuilder) Remove(accession string) {
	kept := b.enzymes[:0]
	for _, e := range b.enzymes {
		if e.accession != accession {
			kept = append(kept, e)
		}
	}
	b.enzymes = kept
}

func (b *CatalystBuilder) Seal() *Catalyst {
	return &Catalyst{enzymes: append([]*Enzyme(nil), b.enzymes...)}
}

func (c *Catalyst) Enzymes() []*Enzyme { return append([]*Enzyme(nil), c.enzymes...) }

// Score: any present enzyme makes the catalyst present; completeness is the
// best enzyme's score. A catalyst with no enzymes scores absent, 0.0.
func (c *Catalyst) Score(observed ident.Set) (score.Result, error) {
	return score.AnyMax(c.enzymes, func(e *Enzyme) (score.Result, error) { return e.Score(observed) })
}

/* --------------------------- reaction --------------------------- */

// Reaction is one module step: compound stoichiometry plus the alternative
// catalytic routes that can drive it. Constructed whole, never mutated.
type Reaction struct {
	stoich    map[string]int
	catalysts []*Catalyst
	data      string // provenance: the original reaction-id field
}

// NewReaction copies stoich (compound id -> signed coefficient; negative
// for substrates, positive for products).
func NewReaction(stoich map[string]int, catalysts []*Catalyst, data string) *Reaction {
	s := make(map[string]int, len(stoich))
	for k, v := range stoich {
		s[k] = v
	}
	return &Reaction{stoich: s, catalysts: append([]*Catalyst(nil), catalysts...), data: data}
}

func (r *Reaction) Data() string           { return r.data }
func (r *Reaction) Catalysts() []*Catalyst { return append([]*Catalyst(nil), r.catalysts...) }

func (r *Reaction) Stoichiometry() map[string]int {
	out := make(map[string]int, len(r.stoich))
	for k, v := range r.stoich {
		out[k] = v
	}
	return out
}

// Label renders the step as a deterministic equation string for reports.
func (r *Reaction) Label() string {
	var subs, prods []string
	for c, coef := range r.stoich {
		if coef < 0 {
			subs = append(subs, c)
		} else {
			prods = append(prods, c)
		}
	}
	sort.Strings(subs)
	sort.Strings(prods)
	return strings.Join(subs, " + ") + " <=> " + strings.Join(prods, " + ")
}

// Score: any present catalyst route makes the step present; completeness is
// the best route's score.
func (r *Reaction) Score(observed ident.Set) (score.Result, error) {
	return score.AnyMax(r.catalysts, func(c *Catalyst) (score.Result, error) { return c.Score(observed) })
}

/* ---------------------------- module ---------------------------- */

// PathwayRef is one PATHWAY cross-reference from a module record.
type PathwayRef struct {
	MapID string
	Name  string
}

// Module is one KEGG module: metadata, the ordered reaction steps, and the
// raw boolean definition text. The definition's expression tree is a
// parallel representation of the pathway logic, independent of the reaction
// hierarchy.
type Module struct {
	accession  string
	name       string
	class      string
	pathways   []PathwayRef
	definition string
	reactions  []*Reaction
}

type ModuleBuilder struct {
	m Module
}

func NewModule(accession string) *ModuleBuilder {
	return &ModuleBuilder{m: Module{accession: accession}}
}

func (b *ModuleBuilder) Accession() string { return b.m.accession }

func (b *ModuleBuilder) SetName(name string)       { b.m.name = name }
func (b *ModuleBuilder) SetClass(class string)     { b.m.class = class }
func (b *ModuleBuilder) SetDefinition(def string)  { b.m.definition = def }
func (b *ModuleBuilder) AddPathway(ref PathwayRef) { b.m.pathways = append(b.m.pathways, ref) }
func (b *ModuleBuilder) AddReaction(r *Reaction)   { b.m.reactions = append(b.m.reactions, r) }

func (b *ModuleBuilder) Seal() *Module {
	m := b.m
	m.pathways = append([]PathwayRef(nil), b.m.pathways...)
	m.reactions = append([]*Reaction(nil), b.m.reactions...)
	return &m
}

func (m *Module) Accession() string      { return m.accession }
func (m *Module) Name() string           { return m.name }
func (m *Module) Class() string          { return m.class }
func (m *Module) Definition() string     { return m.definition }
func (m *Module) Pathways() []PathwayRef { return append([]PathwayRef(nil), m.pathways...) }
func (m *Module) Reactions() []*Reaction { return append([]*Reaction(nil), m.reactions...) }

// Expression parses the raw definition text into its expression tree.
func (m *Module) Expression() (expr.Node, error) {
	return expr.Parse(m.definition)
}

// Score: a module needs every step, so presence is all-or-nothing across
// reactions while completeness is their mean. A module with zero reactions
// returns score.ErrEmptyAggregate rather than a silent 0.0.
func (m *Module) Score(observed ident.Set) (score.Result, error) {
	res, err := score.AllMean(m.reactions, func(r *Reaction) (score.Result, error) {
		return r.Score(observed)
	})
	if err != nil {
		return score.Result{}, fmt.Errorf("module %s: %w", m.accession, err)
	}
	return res, nil
}
