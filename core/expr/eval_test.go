// core/expr/eval_test.go
package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kpath-core/ident"
)

func mustParse(t *testing.T, def string) Node {
	t.Helper()
	n, err := Parse(def)
	require.NoError(t, err, "Parse(%q)", def)
	return n
}

func TestNodeScoring(t *testing.T) {
	tests := []struct {
		name         string
		def          string
		observed     []ident.ID
		present      bool
		completeness float64
	}{
		{
			name:         "full complex",
			def:          "K00134+K00150",
			observed:     []ident.ID{"K00134", "K00150"},
			present:      true,
			completeness: 1.0,
		},
		{
			name:         "or branch satisfied inside and",
			def:          "(K00134,K00150) K00927",
			observed:     []ident.ID{"K00134", "K00927"},
			present:      true,
			completeness: 1.0,
		},
		{
			name:         "missing or branch halves the mean",
			def:          "(K00134,K00150) K00927",
			observed:     []ident.ID{"K00927"},
			present:      false,
			completeness: 0.5,
		},
		{
			name:         "optional subunit missing",
			def:          "K00234-K00235",
			observed:     []ident.ID{"K00234"},
			present:      true,
			completeness: 0.5,
		},
		{
			name:         "half complex",
			def:          "K00134+K00150",
			observed:     []ident.ID{"K00134"},
			present:      false,
			completeness: 0.5,
		},
		{
			name:         "or takes the best alternative",
			def:          "K00134+K00150,K00927",
			observed:     []ident.ID{"K00134"},
			present:      false,
			completeness: 0.5,
		},
		{
			name:         "nothing observed",
			def:          "(K00134,K00150) K00927",
			observed:     nil,
			present:      false,
			completeness: 0.0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := mustParse(t, tc.def)
			r, err := n.Score(ident.NewSet(tc.observed...))
			require.NoError(t, err)
			assert.Equal(t, tc.present, r.Present, "presence")
			assert.InDelta(t, tc.completeness, r.Completeness, 1e-9, "completeness")
		})
	}
}

func TestOptionalNeverBlocksAncestors(t *testing.T) {
	n := mustParse(t, "K00234-K00235 K00927")
	full := ident.NewSet("K00234", "K00235", "K00927")
	r, err := n.Score(full)
	require.NoError(t, err)
	assert.True(t, r.Present)
	assert.InDelta(t, 1.0, r.Completeness, 1e-9)

	// Dropping the optional subunit's sole support changes completeness only.
	r, err = n.Score(ident.NewSet("K00234", "K00927"))
	require.NoError(t, err)
	assert.True(t, r.Present, "optional absence must not flip presence")
	assert.InDelta(t, 0.75, r.Completeness, 1e-9) // mean(mean(1,0), 1)
}

func TestAndAllOrNothing(t *testing.T) {
	n := mustParse(t, "K00134 K00150 K00927")
	all := []ident.ID{"K00134", "K00150", "K00927"}
	r, err := n.Score(ident.NewSet(all...))
	require.NoError(t, err)
	require.True(t, r.Present)

	// Removing any single required child flips presence.
	for drop := range all {
		var rest []ident.ID
		for i, id := range all {
			if i != drop {
				rest = append(rest, id)
			}
		}
		r, err := n.Score(ident.NewSet(rest...))
		require.NoError(t, err)
		assert.False(t, r.Present, "without %s", all[drop])
	}
}

func TestOrCompletenessIsExactMax(t *testing.T) {
	or := mustParse(t, "K00134+K00150+K00927,K11389")
	observed := ident.NewSet("K00134", "K00150")

	left, err := mustParse(t, "K00134+K00150+K00927").Score(observed)
	require.NoError(t, err)
	right, err := mustParse(t, "K11389").Score(observed)
	require.NoError(t, err)
	got, err := or.Score(observed)
	require.NoError(t, err)

	want := left.Completeness
	if right.Completeness > want {
		want = right.Completeness
	}
	assert.Equal(t, want, got.Completeness, "OR must equal the best branch exactly")
}

func TestScoreIsPure(t *testing.T) {
	n := mustParse(t, "((K00134,K00150) K00927,K11389) (K00234,K00235)")
	observed := ident.NewSet("K00134", "K00927", "K00234")
	first, err := n.Score(observed)
	require.NoError(t, err)
	second, err := n.Score(observed)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// Semantic round-trip: Render output must score identically to its source
// for every observed subset of the mentioned identifiers.
func TestRenderRoundTrip(t *testing.T) {
	defs := []string{
		"K00134+K00150",
		"K00234-K00235",
		"(K00134,K00150) K00927",
		"((K00134,K00150) K00927,K11389) (K00234,K00235)",
		"K00239+K00240-(K00242,K18859)",
	}
	ids := []ident.ID{"K00134", "K00150", "K00927", "K11389", "K00234", "K00235", "K00239", "K00240", "K00242", "K18859"}

	for _, def := range defs {
		orig := mustParse(t, def)
		back := mustParse(t, orig.Render())
		for mask := 0; mask < 1<<len(ids); mask += 7 { // sampled subsets
			observed := ident.Set{}
			for i, id := range ids {
				if mask&(1<<i) != 0 {
					observed.Add(id)
				}
			}
			a, err := orig.Score(observed)
			require.NoError(t, err)
			b, err := back.Score(observed)
			require.NoError(t, err)
			assert.Equal(t, a, b, "def %q, mask %b", def, mask)
		}
	}
}
