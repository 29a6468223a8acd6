// internal/fetchapp/app.go
package fetchapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"kpath-core/kegg"
	"kpath-core/pathway"
	"kpath-core/snapshot"
	"kpath/internal/fetchcli"
	"kpath/internal/keggrest"
	"kpath/internal/version"
	"kpath/internal/writers"
)

// RunContext drives the fetch/assemble tool: retrieve each module record,
// resolve its reaction and enzyme sub-records, and persist the assembled
// graph as one snapshot. Sub-record failures degrade to partial modules and
// are logged; only unreachable module records themselves are fatal.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := fetchcli.NewFlagSet("kpath-fetch")
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

	opts, err := fetchcli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return showUsage()
		}
		_, _ = fmt.Fprintln(stderr, err)
		_ = showUsage()
		return 2
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "kpath-fetch version %s\n", version.Version)
		return 0
	}

	log := newLogger(stderr, opts.Verbose, opts.Quiet)
	defer func() { _ = log.Sync() }()

	client := keggrest.New(opts.BaseURL, opts.Timeout, log)
	skipped := 0
	asm := &kegg.Assembler{
		Source:  client,
		Threads: opts.Threads,
		OnSkip: func(accession string, err error) {
			skipped++
			log.Warn("skipping sub-record, completeness will be partial",
				zap.String("accession", accession), zap.Error(err))
		},
	}

	var modules []*pathway.Module
	for _, acc := range opts.Accessions {
		body, err := client.Get(parent, acc)
		if err != nil {
			log.Error("module record unreachable", zap.String("accession", acc), zap.Error(err))
			return 3
		}
		ms, err := asm.ReadModules(parent, body)
		_ = body.Close()
		if err != nil {
			log.Error("assembly failed", zap.String("accession", acc), zap.Error(err))
			return 3
		}
		if len(ms) == 0 {
			log.Warn("no module record in response", zap.String("accession", acc))
			continue
		}
		for _, m := range ms {
			log.Info("assembled module",
				zap.String("accession", m.Accession()),
				zap.String("name", m.Name()),
				zap.Int("reactions", len(m.Reactions())))
		}
		modules = append(modules, ms...)
	}

	if len(modules) == 0 {
		log.Error("nothing assembled")
		return 1
	}

	if err := snapshot.SaveFile(opts.OutFile, modules); err != nil {
		log.Error("write snapshot", zap.String("path", opts.OutFile), zap.Error(err))
		return 3
	}
	log.Info("snapshot written",
		zap.String("path", opts.OutFile),
		zap.Int("modules", len(modules)),
		zap.Int("skipped_subrecords", skipped))
	return 0
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func newLogger(w io.Writer, verbose, quiet bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	if quiet {
		level = zapcore.ErrorLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core)
}
