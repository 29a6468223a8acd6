// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"sync"

	"kpath-core/genelist"
	"kpath-core/ident"
	"kpath-core/pathway"
	"kpath/internal/report"
)

// Config controls the evaluation fan-out.
type Config struct {
	Threads int    // worker goroutines (>=1)
	Eval    string // report.EvalReactions | report.EvalDefinition
	Summary bool   // append a whole-module TOTAL row

	// Warn observes per-module evaluation failures (bad definition text,
	// empty module); the module is skipped and evaluation continues.
	Warn func(module string, err error)
}

type job struct {
	idx      int
	module   *pathway.Module
	subject  string
	observed ident.Set
}

// ForEachRow evaluates every module against every named gene set and calls
// visit for each resulting row. Jobs run concurrently; rows are delivered
// grouped per (module, subject) in input order. Returns the first visit
// error or ctx.Err().
func ForEachRow(
	ctx context.Context,
	cfg Config,
	modules []*pathway.Module,
	sets genelist.Sets,
	visit func(report.Row) error,
) error {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}

	subjects := sets.Subjects()
	jobs := make([]job, 0, len(modules)*len(subjects))
	for _, m := range modules {
		for _, s := range subjects {
			jobs = append(jobs, job{idx: len(jobs), module: m, subject: s, observed: sets[s]})
		}
	}

	results := make([][]report.Row, len(jobs))
	failed := make([]error, len(jobs))

	ch := make(chan job, cfg.Threads*2)
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for j := range ch {
				rows, err := report.Build(j.module, j.subject, j.observed, cfg.Eval, cfg.Summary)
				if err != nil {
					failed[j.idx] = err
					continue
				}
				results[j.idx] = rows
			}
		}()
	}

feed:
	for _, j := range jobs {
		select {
		case <-ctx.Done():
			break feed
		case ch <- j:
		}
	}
	close(ch)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	for i, j := range jobs {
		if err := failed[i]; err != nil {
			if cfg.Warn != nil {
				cfg.Warn(j.module.Accession(), err)
			}
			continue
		}
		for _, r := range results[i] {
			if err := visit(r); err != nil {
				return err
			}
		}
	}
	return nil
}
