// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"

	"kpath/internal/cliutil"
	"kpath/internal/report"
	"kpath/internal/version"
)

// Options holds all CLI flags and arguments for the evaluate tool.
type Options struct {
	// Input
	GeneFile  string
	TwoColumn bool
	Snapshots []string

	// Evaluation
	Eval    string // reactions | definition
	Summary bool

	// Performance
	Threads int

	// Output
	Output string // text | json | jsonl
	Sort   bool
	Header bool // true unless --no-header

	// Misc
	Quiet   bool
	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: score KEGG module presence and completeness against observed gene sets

Version: %s

Usage: %s [flags] <snapshot>...
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// sliceValue appends each occurrence to a *[]string (for --pathways/-p).
type sliceValue struct{ dst *[]string }

func (s *sliceValue) String() string {
	if s.dst == nil {
		return ""
	}
	return fmt.Sprint(*s.dst)
}

func (s *sliceValue) Set(v string) error {
	*s.dst = append(*s.dst, v)
	return nil
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	fs.StringVar(&opt.GeneFile, "genes", "", "observed gene list file [*]")
	fs.StringVar(&opt.GeneFile, "g", "", "alias of --genes")
	fs.BoolVar(&opt.TwoColumn, "two-column", false, "gene list is organism<TAB>gene per line [false]")
	fs.BoolVar(&opt.TwoColumn, "2", false, "alias of --two-column")
	snapVal := &sliceValue{dst: &opt.Snapshots}
	fs.Var(snapVal, "pathways", "module snapshot file(s) (repeatable)")
	fs.Var(snapVal, "p", "alias of --pathways")

	fs.StringVar(&opt.Eval, "eval", report.EvalReactions, "evaluation path: reactions | definition [reactions]")
	fs.BoolVar(&opt.Summary, "summary", false, "append a whole-module TOTAL row per module [false]")

	fs.IntVar(&opt.Threads, "threads", 0, "worker threads (0 = all CPUs) [0]")
	fs.IntVar(&opt.Threads, "t", 0, "alias of --threads")

	fs.StringVar(&opt.Output, "output", "text", "output: text | json | jsonl [text]")
	fs.StringVar(&opt.Output, "o", "text", "alias of --output")
	fs.BoolVar(&opt.Sort, "sort", false, "sort rows deterministically (Module,Subject,Step) [false]")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line in text output [false]")

	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress non-essential warnings [false]")
	fs.BoolVar(&opt.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.Header = !noHeader

	exp, err := cliutil.ExpandPositionals(posArgs)
	if err != nil {
		return opt, err
	}
	opt.Snapshots = append(opt.Snapshots, exp...)

	// Validation
	if opt.GeneFile == "" {
		return opt, errors.New("--genes is required")
	}
	if len(opt.Snapshots) == 0 {
		return opt, errors.New("at least one pathway snapshot is required")
	}
	if opt.Eval != report.EvalReactions && opt.Eval != report.EvalDefinition {
		return opt, fmt.Errorf("invalid --eval %q", opt.Eval)
	}
	if opt.Output != "text" && opt.Output != "json" && opt.Output != "jsonl" {
		return opt, fmt.Errorf("invalid --output %q", opt.Output)
	}
	if opt.Threads < 0 {
		return opt, errors.New("--threads must be ≥ 0")
	}
	return opt, nil
}
