package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-payform/pkg/pricing"
)

func newTaxCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tax <method> <amount>",
		Short: "Compute the tax and total for a payment",
		Long:  "Compute the tax charged on amount for a payment method with the active rate table.\nUnknown methods carry no tax.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := RuntimeFrom(cmd)
			if err != nil {
				return err
			}
			app, err := rt.App()
			if err != nil {
				return err
			}
			method := strings.ToUpper(strings.TrimSpace(args[0]))
			principal, err := pricing.ParseAmount(args[1])
			if err != nil {
				return err
			}
			tax := app.Pricing().ComputeTax(method, principal)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "method: %s\namount: %s\ntax: %s\ntotal: %s\n",
				method,
				pricing.FormatAmount(principal),
				pricing.FormatAmount(tax),
				pricing.FormatAmount(principal.Add(tax)),
			)
			return err
		},
	}
}
