package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/balanca/internal/numfmt"
)

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	var buyerID string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the batch as one weighing",
		Long: `Save every entry of the open batch as one weighing, in a single
transaction. On success the batch is cleared; on failure it is kept as is.

Example:
  balanca save --buyer <buyer-id>`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(a *app) error {
				n := a.session.Len()
				w, err := a.session.Save(cmd.Context(), buyerID)
				if err != nil && w.ID == "" {
					return a.fail(err)
				}
				if err != nil {
					// Stored, but the draft still holds the batch.
					a.out.Warn("%s", userMessage(err))
				}
				if a.out.JSON() {
					return a.out.Success(w)
				}
				fmt.Fprintf(a.out.Writer, "Pesagem salva: %s (%d itens, %s, %s)\n",
					w.ID, n, numfmt.FormatWeight(w.TotalKg), numfmt.FormatCurrency(w.TotalPrice))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&buyerID, "buyer", "b", "", "buyer id")

	return cmd
}
