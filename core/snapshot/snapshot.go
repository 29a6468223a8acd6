// core/snapshot/snapshot.go

// Package snapshot persists an assembled module graph as an opaque gob
// stream. The wire structs are a stable v1 schema decoupled from the
// entity types: round-trips preserve every attribute and the ownership
// structure exactly.
package snapshot

import (
	"encoding/gob"
	"io"
	"os"

	"kpath-core/ident"
	"kpath-core/pathway"
)

type enzymeV1 struct {
	Accession string
	Subunits  []string // sorted
}

type catalystV1 struct {
	Enzymes []enzymeV1
}

type reactionV1 struct {
	Data          string
	Stoichiometry map[string]int
	Catalysts     []catalystV1
}

type pathwayRefV1 struct {
	MapID string
	Name  string
}

type moduleV1 struct {
	Accession  string
	Name       string
	Class      string
	Definition string
	Pathways   []pathwayRefV1
	Reactions  []reactionV1
}

// Save gob-encodes the module graph to w.
func Save(w io.Writer, modules []*pathway.Module) error {
	wire := make([]moduleV1, len(modules))
	for i, m := range modules {
		wire[i] = encode(m)
	}
	return gob.NewEncoder(w).Encode(wire)
}

// Load decodes a graph previously written by Save.
func Load(r io.Reader) ([]*pathway.Module, error) {
	var wire []moduleV1
	if err := gob.NewDecoder(r).Decode(&wire); err != nil {
		return nil, err
	}
	out := make([]*pathway.Module, len(wire))
	for i := range wire {
		out[i] = decode(&wire[i])
	}
	return out, nil
}

// SaveFile writes the snapshot atomically enough for a batch tool: create,
// encode, close.
func SaveFile(path string, modules []*pathway.Module) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Save(fh, modules); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}

func LoadFile(path string) ([]*pathway.Module, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	return Load(fh)
}

func encode(m *pathway.Module) moduleV1 {
	w := moduleV1{
		Accession:  m.Accession(),
		Name:       m.Name(),
		Class:      m.Class(),
		Definition: m.Definition(),
	}
	for _, p := range m.Pathways() {
		w.Pathways = append(w.Pathways, pathwayRefV1{MapID: p.MapID, Name: p.Name})
	}
	for _, r := range m.Reactions() {
		rw := reactionV1{Data: r.Data(), Stoichiometry: r.Stoichiometry()}
		for _, c := range r.Catalysts() {
			cw := catalystV1{}
			for _, e := range c.Enzymes() {
				ew := enzymeV1{Accession: e.Accession()}
				for _, ko := range e.Subunits() {
					ew.Subunits = append(ew.Subunits, string(ko))
				}
				cw.Enzymes = append(cw.Enzymes, ew)
			}
			rw.Catalysts = append(rw.Catalysts, cw)
		}
		w.Reactions = append(w.Reactions, rw)
	}
	return w
}

func decode(w *moduleV1) *pathway.Module {
	b := pathway.NewModule(w.Accession)
	b.SetName(w.Name)
	b.SetClass(w.Class)
	b.SetDefinition(w.Definition)
	for _, p := range w.Pathways {
		b.AddPathway(pathway.PathwayRef{MapID: p.MapID, Name: p.Name})
	}
	for _, rw := range w.Reactions {
		var catalysts []*pathway.Catalyst
		for _, cw := range rw.Catalysts {
			cb := pathway.NewCatalyst()
			for _, ew := range cw.Enzymes {
				eb := pathway.NewEnzyme(ew.Accession)
				for _, ko := range ew.Subunits {
					eb.Add(ident.ID(ko))
				}
				_ = cb.Add(eb.Seal()) // wire data was already deduplicated
			}
			catalysts = append(catalysts, cb.Seal())
		}
		b.AddReaction(pathway.NewReaction(rw.Stoichiometry, catalysts, rw.Data))
	}
	return b.Seal()
}
