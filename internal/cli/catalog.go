package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/balanca/internal/catalog"
	"github.com/roach88/balanca/internal/model"
	"github.com/roach88/balanca/internal/numfmt"
)

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage item types, prices, tares and products",
	}
	cmd.AddCommand(newCatalogImportCommand(rootOpts))
	cmd.AddCommand(newCatalogShowCommand(rootOpts))
	return cmd
}

func newCatalogImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <catalog.yaml>",
		Short: "Import reference data from a YAML catalog file",
		Long: `Import item types (price and tare), products and settings from a YAML
catalog file. Prices and tares are replaced; products already registered
for the same item type and description are skipped.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(a *app) error {
				seed, err := catalog.LoadSeed(args[0])
				if err != nil {
					return a.usage(err)
				}
				res, err := catalog.Apply(cmd.Context(), a.store, seed)
				if err != nil {
					return a.fail(err)
				}
				a.logger.Info("catalog imported", "file", args[0], "item_types", res.ItemTypes, "products", res.Products)
				if a.out.JSON() {
					return a.out.Success(res)
				}
				fmt.Fprintf(a.out.Writer, "Importado: %d tipos de item, %d produtos (%d já existentes)",
					res.ItemTypes, res.Products, res.SkippedProducts)
				if res.Settings {
					fmt.Fprint(a.out.Writer, ", configurações atualizadas")
				}
				fmt.Fprintln(a.out.Writer)
				return nil
			})
		},
	}
}

type catalogView struct {
	ItemTypes []model.ItemType `json:"item_types"`
	Products  []model.Product  `json:"products"`
	Settings  *model.Settings  `json:"settings,omitempty"`
}

func newCatalogShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Show the reference data",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(a *app) error {
				c := a.session.Cache()
				if !c.Loaded() {
					return a.fail(fmt.Errorf("reference data unavailable"))
				}
				if a.out.JSON() {
					return a.out.Success(catalogView{
						ItemTypes: c.ItemTypes(),
						Products:  c.Products(),
						Settings:  c.Settings(),
					})
				}

				tw := tabwriter.NewWriter(a.out.Writer, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "Tipo\tPreço/kg\tTara")
				for _, it := range c.ItemTypes() {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", it.Name, numfmt.FormatCurrency(it.Price), numfmt.FormatWeight(it.TareKg))
				}
				if err := tw.Flush(); err != nil {
					return err
				}

				if products := c.Products(); len(products) > 0 {
					fmt.Fprintln(a.out.Writer)
					tw = tabwriter.NewWriter(a.out.Writer, 0, 0, 2, ' ', 0)
					fmt.Fprintln(tw, "Produto\tTipo\tCódigo\tID")
					for _, p := range products {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Description, p.ItemType, p.Code, p.ID)
					}
					return tw.Flush()
				}
				return nil
			})
		},
	}
}
