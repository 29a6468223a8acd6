// core/pathway/pathway_test.go
package pathway

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kpath-core/ident"
	"kpath-core/score"
)

func sealedEnzyme(acc string, subunits ...ident.ID) *Enzyme {
	b := NewEnzyme(acc)
	for _, ko := range subunits {
		b.Add(ko)
	}
	return b.Seal()
}

func TestEnzymeScore(t *testing.T) {
	gapdh := sealedEnzyme("1.2.1.12", "K00134", "K00150")

	tests := []struct {
		name         string
		observed     ident.Set
		present      bool
		completeness float64
	}{
		{"all subunits", ident.NewSet("K00134", "K00150"), true, 1.0},
		{"half subunits", ident.NewSet("K00134"), false, 0.5},
		{"unrelated genes", ident.NewSet("K99999"), false, 0.0},
		{"empty observed", ident.NewSet(), false, 0.0},
	}
	for _, tc := range tests {
		r, err := gapdh.Score(tc.observed)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.present, r.Present, tc.name)
		assert.InDelta(t, tc.completeness, r.Completeness, 1e-9, tc.name)
	}
}

func TestEnzymeNoSubunitsNeverPresent(t *testing.T) {
	empty := NewEnzyme("9.9.9.9").Seal()
	for _, observed := range []ident.Set{ident.NewSet(), ident.NewSet("K00134")} {
		r, err := empty.Score(observed)
		require.NoError(t, err)
		assert.False(t, r.Present)
		assert.Zero(t, r.Completeness)
	}
}

func TestEnzymeBuilderSealIsolation(t *testing.T) {
	b := NewEnzyme("1.1.1.1")
	b.Add("K00001")
	e := b.Seal()
	b.Add("K00002")
	b.Remove("K00001")
	assert.Equal(t, []ident.ID{"K00001"}, e.Subunits(), "mutating the builder after Seal must not leak")
}

func TestCatalystScore(t *testing.T) {
	full := sealedEnzyme("1.1.1.1", "K00001", "K00002")
	single := sealedEnzyme("2.2.2.2", "K00003")

	cb := NewCatalyst()
	require.NoError(t, cb.Add(full))
	require.NoError(t, cb.Add(single))
	cat := cb.Seal()

	// Any present enzyme carries the catalyst; completeness is the best one.
	r, err := cat.Score(ident.NewSet("K00003"))
	require.NoError(t, err)
	assert.True(t, r.Present)
	assert.InDelta(t, 1.0, r.Completeness, 1e-9)

	r, err = cat.Score(ident.NewSet("K00001"))
	require.NoError(t, err)
	assert.False(t, r.Present)
	assert.InDelta(t, 0.5, r.Completeness, 1e-9)

	// No enzymes at all: absent, 0.0, no error.
	r, err = NewCatalyst().Seal().Score(ident.NewSet("K00001"))
	require.NoError(t, err)
	assert.False(t, r.Present)
	assert.Zero(t, r.Completeness)
}

func TestCatalystConflictingEnzyme(t *testing.T) {
	cb := NewCatalyst()
	require.NoError(t, cb.Add(sealedEnzyme("1.1.1.1", "K00001")))

	// Exact duplicate is dropped silently.
	require.NoError(t, cb.Add(sealedEnzyme("1.1.1.1", "K00001")))

	// Same accession, different subunits: reported, first definition kept.
	err := cb.Add(sealedEnzyme("1.1.1.1", "K00001", "K00002"))
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "1.1.1.1", conflict.Accession)
	assert.Len(t, cb.Seal().Enzymes(), 1)
}

func newReactionWith(enzymes ...*Enzyme) *Reaction {
	cb := NewCatalyst()
	for _, e := range enzymes {
		_ = cb.Add(e)
	}
	return NewReaction(map[string]int{"C00001": -1, "C00002": 1}, []*Catalyst{cb.Seal()}, "R00001")
}

func TestReactionScoreAndLabel(t *testing.T) {
	r := NewReaction(
		map[string]int{"C00074": -1, "C00031": -1, "C00022": 1},
		[]*Catalyst{
			func() *Catalyst {
				cb := NewCatalyst()
				_ = cb.Add(sealedEnzyme("1.1.1.1", "K00001", "K00002"))
				return cb.Seal()
			}(),
			func() *Catalyst {
				cb := NewCatalyst()
				_ = cb.Add(sealedEnzyme("2.2.2.2", "K00003"))
				return cb.Seal()
			}(),
		},
		"R00200,R00199",
	)

	assert.Equal(t, "C00031 + C00074 <=> C00022", r.Label())
	assert.Equal(t, "R00200,R00199", r.Data())

	res, err := r.Score(ident.NewSet("K00003"))
	require.NoError(t, err)
	assert.True(t, res.Present, "second catalytic route suffices")
	assert.InDelta(t, 1.0, res.Completeness, 1e-9)
}

func TestModuleScore(t *testing.T) {
	b := NewModule("M00001")
	b.SetName("Glycolysis")
	b.AddReaction(newReactionWith(sealedEnzyme("1.1.1.1", "K00001")))
	b.AddReaction(newReactionWith(sealedEnzyme("2.2.2.2", "K00002")))
	m := b.Seal()

	r, err := m.Score(ident.NewSet("K00001", "K00002"))
	require.NoError(t, err)
	assert.True(t, r.Present)
	assert.InDelta(t, 1.0, r.Completeness, 1e-9)

	// A module needs every step.
	r, err = m.Score(ident.NewSet("K00001"))
	require.NoError(t, err)
	assert.False(t, r.Present)
	assert.InDelta(t, 0.5, r.Completeness, 1e-9)
}

func TestModuleScoreEmpty(t *testing.T) {
	m := NewModule("M00000").Seal()
	_, err := m.Score(ident.NewSet("K00001"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, score.ErrEmptyAggregate), "got %v", err)
	assert.Contains(t, err.Error(), "M00000")
}

func TestModuleExpression(t *testing.T) {
	b := NewModule("M00002")
	b.SetDefinition("(K00134,K00150) K00927")
	m := b.Seal()

	n, err := m.Expression()
	require.NoError(t, err)
	r, err := n.Score(ident.NewSet("K00134", "K00927"))
	require.NoError(t, err)
	assert.True(t, r.Present)
	assert.InDelta(t, 1.0, r.Completeness, 1e-9)

	bad := NewModule("M00003")
	bad.SetDefinition("(K00134,K00150")
	_, err = bad.Seal().Expression()
	require.Error(t, err)
}
