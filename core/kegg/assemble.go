// core/kegg/assemble.go
package kegg

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"kpath-core/pathway"
)

// Assembler reads module records from a stream and resolves their REACTION
// references into a full catalytic hierarchy through Source. A sub-record
// that cannot be retrieved or parsed is omitted and reported via OnSkip;
// assembly proceeds with whatever succeeded.
type Assembler struct {
	Source  Source
	Threads int                               // concurrent sub-record resolutions (<=1 = serial)
	OnSkip  func(accession string, err error) // may be nil; called serially

	mu      sync.Mutex
	enzymes map[string]*pathway.Enzyme // fetch cache, keyed by EC accession

	skipMu sync.Mutex
}

func (a *Assembler) skip(accession string, err error) {
	if a.OnSkip == nil {
		return
	}
	a.skipMu.Lock()
	defer a.skipMu.Unlock()
	a.OnSkip(accession, err)
}

// reactionSpec is one REACTION line held until the record terminator, when
// all specs of the module are resolved together.
type reactionSpec struct {
	rxns string // reaction accessions: ','-separated routes of '+'-joined ids
	eq   string // "C00001 + C00002 -> C00003"
	line int
}

// ReadModules parses every module record in r (records end with "///") and
// assembles each into a pathway.Module. A malformed record is skipped whole
// and reported; the error return is reserved for stream I/O failures and
// context cancellation.
func (a *Assembler) ReadModules(ctx context.Context, r io.Reader) ([]*pathway.Module, error) {
	var (
		modules []*pathway.Module
		b       *pathway.ModuleBuilder
		specs   []reactionSpec
		defn    []string
		name    []string
		class   []string
		state   string
		bad     bool
		lineNo  int
	)

	reset := func() {
		b, specs, defn, name, class, state, bad = nil, nil, nil, nil, nil, "", false
	}

	fail := func(accession string, err error) {
		a.skip(accession, err)
		bad = true
	}

	accession := func() string {
		if b == nil {
			return "?"
		}
		return b.Accession()
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, "///") {
			if b != nil && !bad {
				b.SetName(strings.Join(name, " "))
				b.SetClass(strings.Join(class, "; "))
				b.SetDefinition(strings.Join(defn, " "))
				m, err := a.finish(ctx, b, specs)
				if err != nil {
					return nil, err // context cancellation only
				}
				modules = append(modules, m)
			}
			reset()
			continue
		}
		if bad {
			continue
		}

		tag, body := splitTag(line)
		if tag != "" {
			state = tag
		}

		switch state {
		case "ENTRY":
			f := strings.Fields(body)
			if len(f) == 0 {
				fail("?", &ParseError{Accession: "?", Line: lineNo, Text: line, Msg: "ENTRY missing accession"})
				continue
			}
			b = pathway.NewModule(f[0])
		case "NAME":
			name = append(name, body)
		case "DEFINITION":
			defn = append(defn, body)
		case "CLASS":
			class = append(class, body)
		case "PATHWAY":
			f := strings.Fields(body)
			if len(f) == 0 {
				fail(accession(), &ParseError{Accession: accession(), Line: lineNo, Text: line, Msg: "empty PATHWAY entry"})
				continue
			}
			ref := pathway.PathwayRef{MapID: f[0], Name: strings.Join(f[1:], " ")}
			if b == nil {
				fail("?", &ParseError{Accession: "?", Line: lineNo, Text: line, Msg: "PATHWAY before ENTRY"})
				continue
			}
			b.AddPathway(ref)
		case "REACTION":
			sp, err := parseReactionSpec(body, lineNo)
			if err != nil {
				fail(accession(), err)
				continue
			}
			specs = append(specs, sp)
		default:
			// ORTHOLOGY, COMPOUND, COMMENT, ... carry no data we assemble.
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return modules, nil
}

func splitTag(line string) (tag, body string) {
	if line[0] == ' ' {
		return "", strings.TrimSpace(line)
	}
	if i := strings.IndexByte(line, ' '); i >= 0 {
		return line[:i], strings.TrimSpace(line[i:])
	}
	return line, ""
}

func parseReactionSpec(body string, lineNo int) (reactionSpec, error) {
	f := strings.SplitN(body, " ", 2)
	if len(f) != 2 {
		return reactionSpec{}, &ParseError{Line: lineNo, Text: body, Msg: "REACTION missing equation"}
	}
	eq := strings.TrimSpace(f[1])
	if !strings.Contains(eq, " -> ") {
		return reactionSpec{}, &ParseError{Line: lineNo, Text: body, Msg: "REACTION equation missing '->'"}
	}
	return reactionSpec{rxns: f[0], eq: eq, line: lineNo}, nil
}

// finish resolves all reaction specs of one module and seals it. Specs are
// independent, so they fan out across Threads workers; the assembled module
// keeps the record's reaction order.
func (a *Assembler) finish(ctx context.Context, b *pathway.ModuleBuilder, specs []reactionSpec) (*pathway.Module, error) {
	reactions := make([]*pathway.Reaction, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	limit := a.Threads
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, sp := range specs {
		i, sp := i, sp
		g.Go(func() error {
			r, err := a.resolve(gctx, sp)
			if err != nil {
				return err
			}
			reactions[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range reactions {
		b.AddReaction(r)
	}
	return b.Seal(), nil
}

// resolve builds one Reaction from its spec: ','-separated alternatives each
// become a Catalyst; '+'-joined reaction ids within an alternative pool
// their enzymes into the same Catalyst.
func (a *Assembler) resolve(ctx context.Context, sp reactionSpec) (*pathway.Reaction, error) {
	stoich := parseEquation(sp.eq)

	var catalysts []*pathway.Catalyst
	for _, alt := range strings.Split(sp.rxns, ",") {
		cb := pathway.NewCatalyst()
		for _, rid := range strings.Split(alt, "+") {
			enzymes, err := a.reactionEnzymes(ctx, rid)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				a.skip(rid, err)
				continue
			}
			for _, e := range enzymes {
				if err := cb.Add(e); err != nil {
					a.skip(e.Accession(), err)
				}
			}
		}
		catalysts = append(catalysts, cb.Seal())
	}
	return pathway.NewReaction(stoich, catalysts, sp.rxns), nil
}

// parseEquation maps each substrate to -1 and each product to +1, matching
// the record's directional reading.
func parseEquation(eq string) map[string]int {
	sides := strings.SplitN(eq, " -> ", 2)
	stoich := map[string]int{}
	for _, s := range strings.Split(sides[0], " + ") {
		if s = strings.TrimSpace(s); s != "" {
			stoich[s] = -1
		}
	}
	for _, p := range strings.Split(sides[1], " + ") {
		if p = strings.TrimSpace(p); p != "" {
			stoich[p] = 1
		}
	}
	return stoich
}
