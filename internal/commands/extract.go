package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/parcelas/internal/batch"
	"github.com/cleared-dev/parcelas/internal/config"
	"github.com/cleared-dev/parcelas/internal/export"
	"github.com/cleared-dev/parcelas/internal/model"
	"github.com/cleared-dev/parcelas/internal/roster"
	"github.com/cleared-dev/parcelas/internal/runlog"
	"github.com/cleared-dev/parcelas/internal/source"
)

// now is replaced in tests.
var now = time.Now

func newExtractCommand() *cobra.Command {
	var (
		pdfDir, companies, outDir, format string
		pendingDebt, groupByCompany      bool
		jsonBackup                       bool
		workers                          int
		company, planType                string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract installment plans from a folder of reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd)
			if err != nil {
				return err
			}

			cfg := p.cfg
			flags := cmd.Flags()
			if flags.Changed("pdfs") {
				cfg.Input.PDFDir = pdfDir
			}
			if flags.Changed("companies") {
				cfg.Input.CompaniesFile = companies
			}
			if flags.Changed("out") {
				cfg.Output.Dir = outDir
			}
			if flags.Changed("format") {
				cfg.Output.Format = format
			}
			if flags.Changed("pending-debt") {
				cfg.Extraction.IncludePendingDebt = pendingDebt
			}
			if flags.Changed("group-by-company") {
				cfg.Extraction.GroupByCompany = groupByCompany
			}
			if flags.Changed("json-backup") {
				cfg.Output.JSONBackup = jsonBackup
			}
			if flags.Changed("workers") {
				cfg.Extraction.Workers = workers
			}

			filter := batch.Filter{Company: company}
			if planType != "" {
				t, ok := model.ParsePlanType(strings.ToUpper(planType))
				if !ok {
					return fmt.Errorf("unknown plan type %q", planType)
				}
				filter.Type = t
			}

			return runExtract(cmd.Context(), cmd.OutOrStdout(), p, filter)
		},
	}

	cmd.Flags().StringVar(&pdfDir, "pdfs", "", "folder with the PDF reports")
	cmd.Flags().StringVar(&companies, "companies", "", "spreadsheet with a CNPJ column to restrict the companies")
	cmd.Flags().StringVar(&outDir, "out", "", "output folder")
	cmd.Flags().StringVar(&format, "format", "", "output format: xlsx or csv")
	cmd.Flags().BoolVar(&pendingDebt, "pending-debt", false, "also extract pending debts (up to 5 per report)")
	cmd.Flags().BoolVar(&groupByCompany, "group-by-company", false, "sort by company instead of plan type")
	cmd.Flags().BoolVar(&jsonBackup, "json-backup", false, "also write a JSON backup")
	cmd.Flags().IntVar(&workers, "workers", 0, "documents extracted concurrently")
	cmd.Flags().StringVar(&company, "company", "", "only keep companies whose name contains this text")
	cmd.Flags().StringVar(&planType, "type", "", "only keep one plan type (e.g. FEDERAL_SUSPENDED or SIEFPAR)")

	return cmd
}

func runExtract(ctx context.Context, out io.Writer, p *project, filter batch.Filter) error {
	cfg, log := p.cfg, p.log
	if ctx == nil {
		ctx = context.Background()
	}

	// Pre-flight: nothing is read before the configuration is usable.
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := requireDir("pdf folder", cfg.Input.PDFDir); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output folder: %w", err)
	}

	var allow batch.AllowList
	if cfg.Input.CompaniesFile != "" {
		if err := requireFile("companies file", cfg.Input.CompaniesFile); err != nil {
			return err
		}
		ids, err := roster.ReadAllowList(cfg.Input.CompaniesFile)
		if err != nil {
			return fmt.Errorf("%w: companies file: %v", config.ErrInvalid, err)
		}
		if ids == nil {
			log.Warn().Str("file", cfg.Input.CompaniesFile).Msg("no CNPJ column found, processing all companies")
		} else {
			allow = batch.NewAllowList(ids)
			log.Info().Int("companies", len(allow)).Msg("loaded company filter")
		}
	}

	start := now()
	docs, err := source.Load(ctx, cfg.Input.PDFDir)
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}
	log.Info().Int("documents", len(docs)).Str("dir", cfg.Input.PDFDir).Msg("found documents")

	runner := batch.NewRunner(batch.Options{
		AllowList:          allow,
		IncludePendingDebt: cfg.Extraction.IncludePendingDebt,
		Workers:            cfg.Extraction.Workers,
		Observer: batch.ObserverFunc(func(index, total, found int) {
			log.Info().Msgf("[%d/%d] %d plans", index, total, found)
		}),
		Logger: &log,
	})
	res, err := runner.Run(ctx, docs)

	entries := failureEntries(start, res)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn().Int("processed", res.Documents).Msg("cancelled, nothing written")
		}
		p.record(append(entries, runlog.Entry{Timestamp: now(), Command: "extract", Action: "cancelled", Count: res.Documents})...)
		return err
	}

	records := res.Records
	order := batch.OrderPlanType
	if cfg.Extraction.GroupByCompany {
		order = batch.OrderCompany
	}
	batch.Sort(records, order)
	records = filter.Apply(records)

	if len(records) == 0 {
		fmt.Fprintln(out, "No installment plans found.")
		p.record(append(entries, runlog.Entry{Timestamp: now(), Command: "extract", Action: "no_matches", Details: cfg.Input.PDFDir})...)
		return nil
	}

	path := filepath.Join(cfg.Output.Dir, export.RecordsFileName(start, cfg.Output.Format))
	err = export.WriteFile(path, func(w io.Writer) error {
		return export.WriteRecords(w, cfg.Output.Format, records)
	})
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}
	entries = append(entries, runlog.Entry{Timestamp: now(), Command: "extract", Action: "export_written", Details: path, Count: len(records)})

	if cfg.Output.JSONBackup {
		backup := filepath.Join(cfg.Output.Dir, export.BackupFileName(start))
		err := export.WriteFile(backup, func(w io.Writer) error {
			return export.WriteRecordsJSON(w, records)
		})
		if err != nil {
			return fmt.Errorf("writing backup: %w", err)
		}
		entries = append(entries, runlog.Entry{Timestamp: now(), Command: "extract", Action: "backup_written", Details: backup, Count: len(records)})
	}
	p.record(entries...)

	printSummary(out, batch.Summarize(records), res, now().Sub(start))
	fmt.Fprintf(out, "Saved %s\n", path)
	return nil
}

func failureEntries(ts time.Time, res *batch.Result) []runlog.Entry {
	var entries []runlog.Entry
	for _, f := range res.Failures {
		entries = append(entries, runlog.Entry{
			Timestamp: ts,
			Command:   "extract",
			Action:    "document_failed",
			Details:   f.File + ": " + f.Err.Error(),
		})
	}
	return entries
}

func printSummary(out io.Writer, s batch.Summary, res *batch.Result, elapsed time.Duration) {
	fmt.Fprintf(out, "Documents:            %d (%d failed)\n", res.Documents, len(res.Failures))
	fmt.Fprintf(out, "Companies:            %d\n", s.Companies)
	fmt.Fprintf(out, "Installment plans:    %d\n", s.Plans)
	fmt.Fprintf(out, "Companies in arrears: %d\n", s.CompaniesWithOverdue)
	fmt.Fprintf(out, "Total value:          R$ %s\n", s.TotalValue.StringFixed(2))
	for _, t := range s.ByType {
		fmt.Fprintf(out, "  %-30s %4d plans %4d companies %5s%%\n", t.Type, t.Count, t.Companies, t.Percent.StringFixed(1))
	}
	fmt.Fprintf(out, "Elapsed:              %s\n", elapsed.Round(100*time.Millisecond))
}
