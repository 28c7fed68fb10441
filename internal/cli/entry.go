package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/balanca/internal/numfmt"
	"github.com/roach88/balanca/internal/session"
)

// EntryOptions holds flags for entry add.
type EntryOptions struct {
	*RootOptions
	ItemType  string
	ProductID string
	Gross     string
	Tare      string
	Price     string
}

// NewEntryCommand creates the entry command group.
func NewEntryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Manage the open batch",
	}
	cmd.AddCommand(newEntryAddCommand(rootOpts))
	cmd.AddCommand(newEntryListCommand(rootOpts))
	cmd.AddCommand(newEntryRemoveCommand(rootOpts))
	cmd.AddCommand(newEntryClearCommand(rootOpts))
	cmd.AddCommand(newEntrySortCommand(rootOpts))
	return cmd
}

func newEntryAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EntryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a weighing to the batch",
		Long: `Add one weighing to the open batch.

Weights and prices take the decimal comma ("12,5"); a dot is only accepted
as a thousands separator ("1.250,5"). Tare and price default to the
reference values of the item type.

Example:
  balanca entry add --type Papelão --gross 12,5
  balanca entry add --type Osso --product <id> --gross 8 --price 3,20`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(a *app) error {
				return runEntryAdd(a, opts, cmd)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.ItemType, "type", "t", "", "item type (required)")
	cmd.Flags().StringVarP(&opts.ProductID, "product", "p", "", "product id (required for the bone category)")
	cmd.Flags().StringVarP(&opts.Gross, "gross", "g", "", "gross weight in kg (required)")
	cmd.Flags().StringVar(&opts.Tare, "tare", "", "tare in kg (default: reference tare)")
	cmd.Flags().StringVar(&opts.Price, "price", "", "price per kg (default: reference price)")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("gross")

	return cmd
}

func runEntryAdd(a *app, opts *EntryOptions, cmd *cobra.Command) error {
	gross, err := numfmt.ParseNumber(opts.Gross)
	if err != nil {
		return a.usage(fmt.Errorf("--gross: %w", err))
	}
	form := session.EntryForm{
		ItemType:      opts.ItemType,
		ProductID:     opts.ProductID,
		GrossWeightKg: gross,
	}
	if cmd.Flags().Changed("tare") {
		v, err := numfmt.ParseNumber(opts.Tare)
		if err != nil {
			return a.usage(fmt.Errorf("--tare: %w", err))
		}
		form.TareKg = &v
	}
	if cmd.Flags().Changed("price") {
		v, err := numfmt.ParseNumber(opts.Price)
		if err != nil {
			return a.usage(fmt.Errorf("--price: %w", err))
		}
		form.UnitPrice = &v
	}

	e, err := a.session.AddEntry(form)
	if err != nil && e.ID == "" {
		return a.fail(err)
	}
	if err != nil {
		// Added, but the draft was not written.
		a.out.Warn("%s", userMessage(err))
	}

	agg := a.session.Aggregate()
	if a.out.JSON() {
		return a.out.Success(map[string]interface{}{
			"entry":  newEntryView(e),
			"totals": newAggregateView(agg),
		})
	}
	fmt.Fprintf(a.out.Writer, "Adicionado %s: %s %s líquido, %s\n",
		e.ID, e.ItemType, numfmt.FormatWeight(e.NetWeightKg()), numfmt.FormatCurrency(e.TotalPrice()))
	writeAggregate(a.out.Writer, agg)
	return nil
}

func newEntryListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List the batch in display order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(a *app) error {
				return runEntryList(a)
			})
		},
	}
}

func runEntryList(a *app) error {
	entries := a.session.Entries()
	agg := a.session.Aggregate()

	if a.out.JSON() {
		views := make([]entryView, len(entries))
		for i, e := range entries {
			views[i] = newEntryView(e)
		}
		return a.out.Success(batchView{
			SortOrder: a.session.SortOrder(),
			Entries:   views,
			Totals:    newAggregateView(agg),
		})
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out.Writer, "Nenhuma pesagem no lote.")
		return nil
	}
	fmt.Fprintf(a.out.Writer, "Ordem: %s\n", sortOrderLabel(a.session.SortOrder()))
	if err := writeEntries(a.out.Writer, entries); err != nil {
		return err
	}
	writeAggregate(a.out.Writer, agg)
	return nil
}

func newEntryRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <entry-id>",
		Short:         "Remove one weighing from the batch",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(a *app) error {
				removed, err := a.session.RemoveEntry(args[0])
				if err != nil && !removed {
					return a.fail(err)
				}
				if err != nil {
					a.out.Warn("%s", userMessage(err))
				}
				if a.out.JSON() {
					return a.out.Success(map[string]interface{}{
						"removed": removed,
						"totals":  newAggregateView(a.session.Aggregate()),
					})
				}
				if !removed {
					fmt.Fprintf(a.out.Writer, "Pesagem %s não está no lote.\n", args[0])
					return nil
				}
				fmt.Fprintf(a.out.Writer, "Removido %s\n", args[0])
				writeAggregate(a.out.Writer, a.session.Aggregate())
				return nil
			})
		},
	}
}

func newEntryClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Discard the whole batch",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(a *app) error {
				n := a.session.Len()
				if err := a.session.ClearEntries(); err != nil {
					return a.fail(err)
				}
				if a.out.JSON() {
					return a.out.Success(map[string]int{"cleared": n})
				}
				fmt.Fprintf(a.out.Writer, "Lote limpo (%d pesagens descartadas).\n", n)
				return nil
			})
		},
	}
}

func newEntrySortCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "sort",
		Short:         "Toggle the display order (newest or oldest first)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(a *app) error {
				order, err := a.session.ToggleSortOrder()
				if err != nil {
					return a.fail(err)
				}
				if a.out.JSON() {
					return a.out.Success(map[string]string{"sort_order": string(order)})
				}
				fmt.Fprintf(a.out.Writer, "Ordem: %s\n", sortOrderLabel(order))
				return nil
			})
		},
	}
}
