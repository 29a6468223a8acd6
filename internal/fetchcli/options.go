// internal/fetchcli/options.go
package fetchcli

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"kpath/internal/version"
)

const DefaultBaseURL = "https://rest.kegg.jp"

// Options holds all CLI flags and arguments for the fetch/assemble tool.
type Options struct {
	Accessions []string // positional module accessions (M numbers)

	OutFile string
	BaseURL string
	Timeout time.Duration
	Threads int

	Verbose bool
	Quiet   bool
	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: fetch KEGG module records and assemble a pathway snapshot

Version: %s

Usage: %s [flags] <module-accession>...
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	fs.StringVar(&opt.OutFile, "out", "", "output snapshot file [*]")
	fs.StringVar(&opt.OutFile, "O", "", "alias of --out")
	fs.StringVar(&opt.BaseURL, "base-url", DefaultBaseURL, "record source base URL ["+DefaultBaseURL+"]")
	fs.DurationVar(&opt.Timeout, "timeout", 30*time.Second, "per-request timeout [30s]")
	fs.IntVar(&opt.Threads, "threads", 4, "concurrent sub-record fetches [4]")
	fs.IntVar(&opt.Threads, "t", 4, "alias of --threads")

	fs.BoolVar(&opt.Verbose, "verbose", false, "log every retrieved accession [false]")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress non-essential warnings [false]")
	fs.BoolVar(&opt.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.Accessions = fs.Args()

	if len(opt.Accessions) == 0 {
		return opt, errors.New("at least one module accession is required")
	}
	if opt.OutFile == "" {
		return opt, errors.New("--out is required")
	}
	if opt.Threads < 1 {
		return opt, errors.New("--threads must be ≥ 1")
	}
	return opt, nil
}
