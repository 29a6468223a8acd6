// internal/cli/options_test.go
package cli

import (
	"flag"
	"testing"
)

func newFS() *flag.FlagSet { return flag.NewFlagSet("test", flag.ContinueOnError) }

func mustParse(t *testing.T, args ...string) Options {
	t.Helper()
	opts, err := ParseArgs(newFS(), args)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	return opts
}

func TestDefaultsOK(t *testing.T) {
	o := mustParse(t, "--genes", "genes.txt", "--pathways", "m.kpath")
	if o.Eval != "reactions" || o.Output != "text" || !o.Header || o.Sort {
		t.Errorf("unexpected defaults %+v", o)
	}
	if len(o.Snapshots) != 1 || o.Snapshots[0] != "m.kpath" {
		t.Errorf("bad snapshots %v", o.Snapshots)
	}
}

func TestPositionalSnapshots(t *testing.T) {
	o := mustParse(t, "--genes", "genes.txt", "a.kpath", "b.kpath")
	if len(o.Snapshots) != 2 {
		t.Errorf("want 2 snapshots, got %v", o.Snapshots)
	}
}

func TestRepeatablePathwaysFlag(t *testing.T) {
	o := mustParse(t, "-g", "genes.txt", "-p", "a.kpath", "-p", "b.kpath")
	if len(o.Snapshots) != 2 || o.Snapshots[1] != "b.kpath" {
		t.Errorf("bad repeatable -p parse %v", o.Snapshots)
	}
}

func TestAliasesOK(t *testing.T) {
	o := mustParse(t, "-g", "genes.tsv", "-2", "-t", "8", "-o", "jsonl", "-q", "m.kpath")
	if o.GeneFile != "genes.tsv" || !o.TwoColumn || o.Threads != 8 ||
		o.Output != "jsonl" || !o.Quiet {
		t.Errorf("bad alias parse %+v", o)
	}
}

func TestNoHeader(t *testing.T) {
	o := mustParse(t, "--genes", "g.txt", "--no-header", "m.kpath")
	if o.Header {
		t.Errorf("--no-header should clear Header")
	}
}

func TestEvalDefinition(t *testing.T) {
	o := mustParse(t, "--genes", "g.txt", "--eval", "definition", "--summary", "m.kpath")
	if o.Eval != "definition" || !o.Summary {
		t.Errorf("bad eval parse %+v", o)
	}
}

func TestVersionShortCircuits(t *testing.T) {
	o, err := ParseArgs(newFS(), []string{"--version"})
	if err != nil || !o.Version {
		t.Fatalf("want version short-circuit, got %+v err %v", o, err)
	}
}

func TestErrorMissingGenes(t *testing.T) {
	if _, err := ParseArgs(newFS(), []string{"m.kpath"}); err == nil {
		t.Fatalf("expected error when --genes missing")
	}
}

func TestErrorNoSnapshots(t *testing.T) {
	if _, err := ParseArgs(newFS(), []string{"--genes", "g.txt"}); err == nil {
		t.Fatalf("expected error with no snapshots")
	}
}

func TestErrorBadEval(t *testing.T) {
	if _, err := ParseArgs(newFS(), []string{"--genes", "g.txt", "--eval", "vibes", "m.kpath"}); err == nil {
		t.Fatalf("expected error for unknown eval path")
	}
}

func TestErrorBadOutput(t *testing.T) {
	if _, err := ParseArgs(newFS(), []string{"--genes", "g.txt", "--output", "xml", "m.kpath"}); err == nil {
		t.Fatalf("expected error for unknown output")
	}
}

func TestErrorNegativeThreads(t *testing.T) {
	if _, err := ParseArgs(newFS(), []string{"--genes", "g.txt", "--threads", "-1", "m.kpath"}); err == nil {
		t.Fatalf("expected error for negative threads")
	}
}
