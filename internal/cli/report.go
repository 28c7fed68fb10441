package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/balanca/internal/model"
	"github.com/roach88/balanca/internal/report"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	BuyerID string
	Save    bool
	PDF     string
}

// printView is the JSON form of a print.
type printView struct {
	Report    report.Report   `json:"report"`
	Weighing  *model.Weighing `json:"weighing,omitempty"`
	SaveError string          `json:"save_error,omitempty"`
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the report of the open batch",
		Long: `Print the report of the open batch, grouped by item type.

With --save the batch is also saved, with or without --buyer depending on
weighing.require_buyer. A failed save does not stop the report from being
printed; the batch is then kept.

Example:
  balanca report --buyer <buyer-id>
  balanca report --buyer <buyer-id> --save --pdf pesagem.pdf`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(a *app) error {
				return runReport(a, opts, cmd)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.BuyerID, "buyer", "b", "", "buyer id")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "also save the batch")
	cmd.Flags().StringVar(&opts.PDF, "pdf", "", "write the report as PDF to this file")

	return cmd
}

func runReport(a *app, opts *ReportOptions, cmd *cobra.Command) error {
	res := a.session.Print(cmd.Context(), opts.BuyerID, opts.Save)

	if opts.PDF != "" {
		if err := writePDF(opts.PDF, res.Report); err != nil {
			return a.fail(err)
		}
		a.out.VerboseLog("PDF written to %s", opts.PDF)
	}

	if a.out.JSON() {
		v := printView{Report: res.Report, Weighing: res.Weighing}
		if res.SaveErr != nil {
			v.SaveError = userMessage(res.SaveErr)
		}
		if err := a.out.Success(v); err != nil {
			return err
		}
	} else if opts.PDF == "" {
		if err := report.RenderText(a.out.Writer, res.Report); err != nil {
			return err
		}
	}

	if res.SaveErr != nil && res.Weighing != nil {
		a.out.Warn("%s", userMessage(res.SaveErr))
	} else if res.SaveErr != nil {
		a.out.Warn("relatório gerado sem salvar: %s", userMessage(res.SaveErr))
		return WrapExitError(ExitFailure, "report printed but not saved", res.SaveErr)
	}
	if res.Weighing != nil && !a.out.JSON() {
		fmt.Fprintf(a.out.GetErrWriter(), "Pesagem salva: %s\n", res.Weighing.ID)
	}
	return nil
}

func writePDF(path string, r report.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create pdf: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close pdf: %w", cerr)
		}
	}()
	return report.RenderPDF(f, r)
}
