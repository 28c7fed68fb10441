package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/balanca/internal/history"
	"github.com/roach88/balanca/internal/model"
	"github.com/roach88/balanca/internal/numfmt"
	"github.com/roach88/balanca/internal/report"
)

// HistoryOptions holds flags for history list.
type HistoryOptions struct {
	*RootOptions
	Period  string
	From    string
	To      string
	BuyerID string
}

// NewHistoryCommand creates the history command group.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved weighings",
	}
	cmd.AddCommand(newHistoryListCommand(rootOpts))
	cmd.AddCommand(newHistoryShowCommand(rootOpts))
	return cmd
}

func newHistoryListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved weighings with totals and the buyer ranking",
		Long: `List saved weighings, newest first, with the period totals and the five
buyers with the highest total.

Periods: today, yesterday, week (last 7 days), month (last month), custom.
Custom takes --from and --to as dd/mm/yyyy or yyyy-mm-dd; both days are
included.

Example:
  balanca history list --period today
  balanca history list --period custom --from 01/03/2024 --to 15/03/2024`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(a *app) error {
				return runHistoryList(a, opts, cmd)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Period, "period", string(history.DefaultPeriod), "today|yesterday|week|month|custom")
	cmd.Flags().StringVar(&opts.From, "from", "", "first day of a custom period")
	cmd.Flags().StringVar(&opts.To, "to", "", "last day of a custom period")
	cmd.Flags().StringVarP(&opts.BuyerID, "buyer", "b", "", "only this buyer")

	return cmd
}

type historyView struct {
	Weighings []model.WeighingWithBuyer `json:"weighings"`
	Summary   history.Summary           `json:"summary"`
}

func runHistoryList(a *app, opts *HistoryOptions, cmd *cobra.Command) error {
	period, err := history.ParsePeriod(opts.Period)
	if err != nil {
		return a.usage(err)
	}
	from, err := parseDay(opts.From)
	if err != nil {
		return a.usage(fmt.Errorf("--from: %w", err))
	}
	to, err := parseDay(opts.To)
	if err != nil {
		return a.usage(fmt.Errorf("--to: %w", err))
	}
	r, err := period.Range(time.Now(), from, to)
	if err != nil {
		return a.usage(err)
	}

	ws, sum, err := history.List(cmd.Context(), a.store, r, opts.BuyerID)
	if err != nil {
		return a.fail(err)
	}

	if a.out.JSON() {
		return a.out.Success(historyView{Weighings: ws, Summary: sum})
	}

	if len(ws) == 0 {
		fmt.Fprintln(a.out.Writer, "Nenhuma pesagem no período.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Data\tComprador\tPeso\tTotal\tID")
	for _, w := range ws {
		buyer := "-"
		if w.Buyer != nil {
			buyer = w.Buyer.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			numfmt.FormatDateTime(w.CreatedAt), buyer,
			numfmt.FormatWeight(w.TotalKg), numfmt.FormatCurrency(w.TotalPrice), w.ID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(a.out.Writer, "\nPesagens: %d | Peso total: %s | Valor total: %s\n",
		sum.Count, numfmt.FormatWeight(sum.TotalKg), numfmt.FormatCurrency(sum.TotalPrice))
	if len(sum.Ranking) > 0 {
		fmt.Fprintln(a.out.Writer, "Maiores compradores:")
		for i, b := range sum.Ranking {
			fmt.Fprintf(a.out.Writer, "  %d. %s - %s\n", i+1, b.Name, numfmt.FormatCurrency(b.TotalPrice))
		}
	}
	return nil
}

var dayLayouts = []string{"02/01/2006", time.DateOnly}

// parseDay reads a local calendar day. Empty input yields nil.
func parseDay(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dayLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q (want dd/mm/yyyy or yyyy-mm-dd)", s)
}

func newHistoryShowCommand(rootOpts *RootOptions) *cobra.Command {
	var pdfPath string

	cmd := &cobra.Command{
		Use:           "show <weighing-id>",
		Short:         "Print the report of a saved weighing",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(a *app) error {
				c := a.session.Cache()
				r, err := history.Detail(cmd.Context(), a.store, args[0], report.Options{
					StoreName:     a.cfg.Report.Title,
					BoneCategory:  a.cfg.Weighing.BoneCategory,
					ReferenceTare: c.Tare,
					Settings:      c.Settings(),
				})
				if errors.Is(err, model.ErrNotFound) {
					_ = a.out.Error(ErrCodeNotFound, fmt.Sprintf("pesagem %s não encontrada", args[0]), nil)
					return WrapExitError(ExitFailure, "weighing not found", err)
				}
				if err != nil {
					return a.fail(err)
				}

				if pdfPath != "" {
					if err := writePDF(pdfPath, r); err != nil {
						return a.fail(err)
					}
					a.out.VerboseLog("PDF written to %s", pdfPath)
				}
				if a.out.JSON() {
					return a.out.Success(r)
				}
				if pdfPath == "" {
					return report.RenderText(a.out.Writer, r)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write the report as PDF to this file")

	return cmd
}
