package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/balanca/internal/document"
	"github.com/roach88/balanca/internal/session"
)

// NewBuyerCommand creates the buyer command group.
func NewBuyerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buyer",
		Short: "Register and list buyers",
	}
	cmd.AddCommand(newBuyerAddCommand(rootOpts))
	cmd.AddCommand(newBuyerListCommand(rootOpts))
	return cmd
}

func newBuyerAddCommand(rootOpts *RootOptions) *cobra.Command {
	var form session.BuyerForm

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a buyer",
		Long: `Register a buyer. Name and phone are required and must be unique; the
document (CPF, CNPJ or RG) is optional and validated when given.

Example:
  balanca buyer add --name "José Silva" --phone "(11) 91234-5678" --document 529.982.247-25`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(a *app) error {
				b, err := a.session.CreateBuyer(cmd.Context(), form)
				if err != nil {
					return a.fail(err)
				}
				if a.out.JSON() {
					return a.out.Success(b)
				}
				fmt.Fprintf(a.out.Writer, "Comprador cadastrado: %s (%s)\n", b.Name, b.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "buyer name (required)")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "phone number (required)")
	cmd.Flags().StringVar(&form.Document, "document", "", "CPF, CNPJ or RG")
	cmd.Flags().StringVar(&form.Company, "company", "", "company name")

	return cmd
}

func newBuyerListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List buyers by name",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(a *app) error {
				buyers, err := a.store.ListBuyers(cmd.Context())
				if err != nil {
					return a.fail(err)
				}
				if a.out.JSON() {
					return a.out.Success(buyers)
				}
				if len(buyers) == 0 {
					fmt.Fprintln(a.out.Writer, "Nenhum comprador cadastrado.")
					return nil
				}
				tw := tabwriter.NewWriter(a.out.Writer, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNome\tTelefone\tDocumento\tEmpresa")
				for _, b := range buyers {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						b.ID, b.Name, document.FormatPhone(b.Phone), document.Format(b.Document), b.Company)
				}
				return tw.Flush()
			})
		},
	}
}
