// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"

	"kpath-core/genelist"
	"kpath-core/pathway"
	"kpath-core/snapshot"
	"kpath/internal/cli"
	"kpath/internal/cmdutil"
	"kpath/internal/pipeline"
	"kpath/internal/report"
	"kpath/internal/version"
	"kpath/internal/writers"
)

// RunContext drives the evaluate tool: load snapshots and gene sets, score
// every module against every subject, stream report rows. Exit codes: 0 ok,
// 1 nothing evaluable, 2 usage error, 3 runtime failure.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("kpath")
	fs.SetOutput(io.Discard)

	showUsage := func() int {
		fs.SetOutput(outw)
		fs.Usage()
		if err := outw.Flush(); writers.IsBrokenPipe(err) {
			return 0
		} else if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		return 0
	}

	if len(argv) == 0 {
		return showUsage()
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return showUsage()
		}
		_, _ = fmt.Fprintln(stderr, err)
		_ = showUsage()
		return 2
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "kpath version %s\n", version.Version)
		return 0
	}

	sets, err := genelist.Load(opts.GeneFile, opts.TwoColumn)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}
	if len(sets) == 0 {
		_, _ = fmt.Fprintf(stderr, "no genes found in %s\n", opts.GeneFile)
		return 2
	}

	var modules []*pathway.Module
	for _, path := range opts.Snapshots {
		ms, err := snapshot.LoadFile(path)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "load %s: %v\n", path, err)
			return 2
		}
		modules = append(modules, ms...)
	}

	threads := opts.Threads
	if threads == 0 {
		threads = runtime.NumCPU()
	}

	in, errCh := writers.StartRowWriter(outw, opts.Output, opts.Sort, opts.Header, 64)
	total := 0
	perr := pipeline.ForEachRow(parent, pipeline.Config{
		Threads: threads,
		Eval:    opts.Eval,
		Summary: opts.Summary,
		Warn: func(module string, err error) {
			cmdutil.Warnf(stderr, opts.Quiet, "skipping module %s: %v", module, err)
		},
	}, modules, sets, func(r report.Row) error {
		in <- r
		total++
		return nil
	})
	close(in)
	werr := <-errCh

	if perr != nil {
		_, _ = fmt.Fprintln(stderr, perr)
		return 3
	}
	if e := outw.Flush(); e != nil && !writers.IsBrokenPipe(e) && werr == nil {
		werr = e
	}
	if werr != nil {
		if writers.IsBrokenPipe(werr) {
			return 0
		}
		_, _ = fmt.Fprintln(stderr, werr)
		return 3
	}
	if total == 0 {
		cmdutil.Warnf(stderr, opts.Quiet, "no rows produced (empty modules or all skipped)")
		return 1
	}
	return 0
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
