// core/genelist/genelist.go
package genelist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"kpath-core/ident"
)

// Sets maps a subject label (organism name, or "" for single-column input)
// to its observed gene identifiers.
type Sets map[string]ident.Set

// Subjects returns the labels in sorted order for deterministic output.
func (s Sets) Subjects() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Load reads observed genes from path. With twoColumn the file is
// "organism<TAB>gene" per line and genes group by organism; otherwise every
// line is one gene identifier collected under the "" subject.
func Load(path string, twoColumn bool) (Sets, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	return Read(fh, path, twoColumn)
}

// Read is Load over an open stream; name is used in error messages.
func Read(r io.Reader, name string, twoColumn bool) (Sets, error) {
	sets := Sets{}
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		subject, gene := "", line
		if twoColumn {
			f := strings.Split(line, "\t")
			if len(f) != 2 || f[0] == "" || f[1] == "" {
				return nil, fmt.Errorf("%s:%d expected organism<TAB>gene", name, ln)
			}
			subject, gene = f[0], strings.TrimSpace(f[1])
		}
		set, ok := sets[subject]
		if !ok {
			set = ident.Set{}
			sets[subject] = set
		}
		set.Add(ident.ID(gene))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return sets, nil
}
