// core/ident/ident.go
package ident

import "fmt"

// ID is an opaque KEGG identifier token. Inside module definitions only two
// lexical classes are legal: an ortholog accession ("K" + 5 digits, e.g.
// K00134) or a module accession ("M" + 5 digits, referenced recursively).
// Equality and hashing are by raw string.
type ID string

func (id ID) String() string { return string(id) }

// IsOrtholog reports whether id has the ortholog accession shape.
func (id ID) IsOrtholog() bool { return wellFormed(string(id), 'K') }

// IsModule reports whether id has the module accession shape.
func (id ID) IsModule() bool { return wellFormed(string(id), 'M') }

// Parse validates a definition-grammar atom: an ortholog or module accession.
func Parse(tok string) (ID, error) {
	if wellFormed(tok, 'K') || wellFormed(tok, 'M') {
		return ID(tok), nil
	}
	return "", fmt.Errorf("ill-formed identifier %q", tok)
}

func wellFormed(tok string, prefix byte) bool {
	if len(tok) != 6 || tok[0] != prefix {
		return false
	}
	for i := 1; i < 6; i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}
	return true
}

// Set is an observed identifier set (e.g. the gene complement of one genome).
type Set map[ID]struct{}

func NewSet(ids ...ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s Set) Add(id ID)      { s[id] = struct{}{} }
func (s Set) Has(id ID) bool { _, ok := s[id]; return ok }
func (s Set) Len() int       { return len(s) }
