package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/parcelas/internal/config"
	"github.com/cleared-dev/parcelas/internal/export"
	"github.com/cleared-dev/parcelas/internal/reconcile"
	"github.com/cleared-dev/parcelas/internal/roster"
	"github.com/cleared-dev/parcelas/internal/runlog"
)

func newReconcileCommand() *cobra.Command {
	var wanted, universe, out string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Match a list of wanted companies against the full company roster by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("wanted") {
				p.cfg.Reconcile.WantedFile = wanted
			}
			if cmd.Flags().Changed("universe") {
				p.cfg.Reconcile.UniverseFile = universe
			}
			if cmd.Flags().Changed("out") {
				p.cfg.Reconcile.OutputFile = out
			} else if !filepath.IsAbs(p.cfg.Reconcile.OutputFile) && filepath.Dir(p.cfg.Reconcile.OutputFile) == "." {
				p.cfg.Reconcile.OutputFile = filepath.Join(p.cfg.Output.Dir, p.cfg.Reconcile.OutputFile)
			}
			return runReconcile(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().StringVar(&wanted, "wanted", "", "spreadsheet with name (A) and CNPJ (B), no header")
	cmd.Flags().StringVar(&universe, "universe", "", "spreadsheet with code (A), name (B) and CNPJ (C), no header")
	cmd.Flags().StringVar(&out, "out", "", "output file (.xlsx or .csv), default <output dir>/"+export.ReconciledFileName)

	return cmd
}

func runReconcile(out io.Writer, p *project) error {
	rc, log := p.cfg.Reconcile, p.log

	if err := requireFile("wanted file", rc.WantedFile); err != nil {
		return err
	}
	if err := requireFile("universe file", rc.UniverseFile); err != nil {
		return err
	}
	if strings.TrimSpace(rc.OutputFile) == "" {
		return fmt.Errorf("%w: output file is required", config.ErrInvalid)
	}
	if err := os.MkdirAll(filepath.Dir(rc.OutputFile), 0o755); err != nil {
		return fmt.Errorf("creating output folder: %w", err)
	}

	wanted, err := roster.ReadWanted(rc.WantedFile)
	if err != nil {
		return fmt.Errorf("reading wanted roster: %w", err)
	}
	universe, err := roster.ReadUniverse(rc.UniverseFile)
	if err != nil {
		return fmt.Errorf("reading universe roster: %w", err)
	}
	log.Info().Int("wanted", len(wanted)).Int("universe", len(universe)).Msg("rosters loaded")

	entries, stats := reconcile.ReconcileWithStats(wanted, universe)
	log.Debug().
		Int("wanted", stats.Wanted).
		Int("universe", stats.Universe).
		Int("matched", stats.Matched).
		Int("empty_code", stats.EmptyCode).
		Msg("reconciled")

	if len(entries) == 0 {
		fmt.Fprintln(out, "No companies matched the wanted names.")
		p.record(runlog.Entry{Timestamp: now(), Command: "reconcile", Action: "no_matches", Details: rc.WantedFile})
		return nil
	}

	write := export.WriteReconciledXLSX
	if strings.EqualFold(filepath.Ext(rc.OutputFile), ".csv") {
		write = export.WriteReconciledCSV
	}
	err = export.WriteFile(rc.OutputFile, func(w io.Writer) error {
		return write(w, entries)
	})
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}
	p.record(runlog.Entry{Timestamp: now(), Command: "reconcile", Action: "export_written", Details: rc.OutputFile, Count: len(entries)})

	for _, e := range entries {
		fmt.Fprintf(out, "%-8s %-50s %s\n", e.Code, e.Name, e.TaxID)
	}
	fmt.Fprintf(out, "%d companies matched, saved %s\n", len(entries), rc.OutputFile)
	return nil
}
