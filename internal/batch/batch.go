// Package batch runs the extractor over a set of documents and aggregates the records.
package batch

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/parcelas/internal/extract"
	"github.com/cleared-dev/parcelas/internal/model"
	"github.com/cleared-dev/parcelas/internal/taxid"
)

// Observer receives one notification per processed document.
// index is 1-based in input order; found counts the records kept for that document.
type Observer interface {
	Progress(index, total, found int)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(index, total, found int)

// Progress calls f.
func (f ObserverFunc) Progress(index, total, found int) { f(index, total, found) }

// Options configures a Runner.
type Options struct {
	// AllowList keeps only records whose CNPJ is listed. Nil disables filtering.
	AllowList          AllowList
	IncludePendingDebt bool
	// Workers > 1 extracts documents concurrently.
	Workers  int
	Observer Observer
	// Logger receives per-document warnings. Nil discards them.
	Logger *zerolog.Logger
}

// Failure is a document that produced no records because it could not be processed.
type Failure struct {
	File string
	Err  error
}

// Result is the outcome of a batch run.
type Result struct {
	Records   []model.InstallmentRecord
	Failures  []Failure
	Documents int // documents processed, including failures
}

// Runner extracts records from documents.
type Runner struct {
	opts      Options
	extractor *extract.Extractor
	log       zerolog.Logger
	mu        sync.Mutex // serializes Observer calls
}

// NewRunner creates a Runner using the default rule set.
func NewRunner(opts Options) *Runner {
	return NewRunnerWithExtractor(opts, extract.New(extract.Options{IncludePendingDebt: opts.IncludePendingDebt}))
}

// NewRunnerWithExtractor creates a Runner over a custom extractor.
func NewRunnerWithExtractor(opts Options, e *extract.Extractor) *Runner {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Runner{opts: opts, extractor: e, log: log}
}

type docResult struct {
	records []model.InstallmentRecord
	failure *Failure
	done    bool
}

// Run processes docs and returns records in input order, then rule order within a document.
// Document failures are collected in Result.Failures and never abort the run.
// Cancellation is checked before each document; on cancel the partial result is returned with ctx.Err().
func (r *Runner) Run(ctx context.Context, docs []model.SourceDocument) (*Result, error) {
	results := make([]docResult, len(docs))

	var runErr error
	if r.opts.Workers > 1 {
		runErr = r.runParallel(ctx, docs, results)
	} else {
		for i := range docs {
			if err := ctx.Err(); err != nil {
				runErr = err
				break
			}
			results[i] = r.process(i, len(docs), docs[i])
		}
	}

	res := &Result{}
	for _, dr := range results {
		if !dr.done {
			continue
		}
		res.Documents++
		if dr.failure != nil {
			res.Failures = append(res.Failures, *dr.failure)
			continue
		}
		res.Records = append(res.Records, dr.records...)
	}
	return res, runErr
}

func (r *Runner) runParallel(ctx context.Context, docs []model.SourceDocument, results []docResult) error {
	g := new(errgroup.Group)
	g.SetLimit(r.opts.Workers)
	for i := range docs {
		if err := ctx.Err(); err != nil {
			_ = g.Wait()
			return err
		}
		i := i
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			results[i] = r.process(i, len(docs), docs[i])
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

func (r *Runner) process(i, total int, doc model.SourceDocument) docResult {
	log := r.log.With().Str("file", doc.Filename).Logger()

	if doc.ReadErr != nil {
		log.Warn().Err(doc.ReadErr).Msg("skipping unreadable document")
		r.notify(i+1, total, 0)
		return docResult{done: true, failure: &Failure{File: doc.Filename, Err: doc.ReadErr}}
	}

	recs, err := r.extractor.Extract(doc)
	if err != nil {
		log.Warn().Err(err).Msg("extraction failed")
		r.notify(i+1, total, 0)
		return docResult{done: true, failure: &Failure{File: doc.Filename, Err: err}}
	}

	if len(recs) > 0 && recs[0].TaxIDDigits != "" && !taxid.Valid(recs[0].TaxIDDigits) {
		log.Warn().Str("cnpj", recs[0].TaxID).Msg("CNPJ check digits do not match")
	}

	if r.opts.AllowList != nil {
		kept := recs[:0]
		for _, rec := range recs {
			if _, ok := r.opts.AllowList[rec.TaxIDDigits]; ok {
				kept = append(kept, rec)
			}
		}
		recs = kept
	}

	log.Debug().Int("records", len(recs)).Msg("document processed")
	r.notify(i+1, total, len(recs))
	return docResult{done: true, records: recs}
}

func (r *Runner) notify(index, total, found int) {
	if r.opts.Observer == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.Observer.Progress(index, total, found)
}
