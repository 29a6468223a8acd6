// core/kegg/enzyme.go
package kegg

import (
	"bufio"
	"context"
	"io"
	"strings"

	"kpath-core/ident"
	"kpath-core/pathway"
)

// reactionEnzymes fetches one reaction record and every enzyme record it
// lists, returning the sealed enzymes. Enzyme fetches hit a shared cache so
// an EC accession referenced by many reactions is retrieved once.
func (a *Assembler) reactionEnzymes(ctx context.Context, accession string) ([]*pathway.Enzyme, error) {
	body, err := a.Source.Get(ctx, accession)
	if err != nil {
		return nil, &RetrievalError{Accession: accession, Err: err}
	}
	defer func() { _ = body.Close() }()

	ecs, err := ParseReactionEnzymes(body)
	if err != nil {
		return nil, &RetrievalError{Accession: accession, Err: err}
	}

	var out []*pathway.Enzyme
	for _, ec := range ecs {
		e, err := a.enzyme(ctx, ec)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			a.skip(ec, err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (a *Assembler) enzyme(ctx context.Context, accession string) (*pathway.Enzyme, error) {
	a.mu.Lock()
	if e, ok := a.enzymes[accession]; ok {
		a.mu.Unlock()
		return e, nil
	}
	a.mu.Unlock()

	body, err := a.Source.Get(ctx, accession)
	if err != nil {
		return nil, &RetrievalError{Accession: accession, Err: err}
	}
	defer func() { _ = body.Close() }()

	e, err := ParseEnzyme(body, accession)
	if err != nil {
		return nil, &RetrievalError{Accession: accession, Err: err}
	}

	a.mu.Lock()
	if a.enzymes == nil {
		a.enzymes = map[string]*pathway.Enzyme{}
	}
	if have, ok := a.enzymes[accession]; ok { // lost a race; keep the first
		e = have
	} else {
		a.enzymes[accession] = e
	}
	a.mu.Unlock()
	return e, nil
}

// ParseReactionEnzymes extracts the EC accessions from a reaction record's
// ENZYME field (including continuation lines).
func ParseReactionEnzymes(r io.Reader) ([]string, error) {
	var (
		ecs   []string
		state string
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "///") {
			break
		}
		if line == "" {
			continue
		}
		tag, body := splitTag(line)
		if tag != "" {
			state = tag
		}
		if state == "ENZYME" {
			ecs = append(ecs, strings.Fields(body)...)
		}
	}
	return ecs, sc.Err()
}

// ParseEnzyme builds an enzyme from its record: every ORTHOLOGY line (and
// continuation) contributes one subunit accession. Lines whose first token
// is not a well-formed ortholog id are ignored, as are all other fields.
func ParseEnzyme(r io.Reader, accession string) (*pathway.Enzyme, error) {
	b := pathway.NewEnzyme(accession)
	var state string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "///") {
			break
		}
		if line == "" {
			continue
		}
		tag, body := splitTag(line)
		if tag != "" {
			state = tag
		}
		if state != "ORTHOLOGY" {
			continue
		}
		f := strings.Fields(body)
		if len(f) == 0 {
			continue
		}
		if ko, err := ident.Parse(f[0]); err == nil && ko.IsOrtholog() {
			b.Add(ko)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return b.Seal(), nil
}
