package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-payform/pkg/model"
)

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [channel]",
		Short: "List the notification fields of a channel",
		Long:  "List the fields the notification form shows for a channel, after overlays.\nWithout a channel, list the known channels.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := RuntimeFrom(cmd)
			if err != nil {
				return err
			}
			app, err := rt.App()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, ch := range model.KnownChannels() {
					if _, err := fmt.Fprintln(out, ch); err != nil {
						return err
					}
				}
				return nil
			}

			channel := model.ParseChannel(strings.ToUpper(args[0]))
			descriptors := app.Engine().SchemaFor(channel)
			if len(descriptors) == 0 {
				return fmt.Errorf("cli: channel %q has no fields", args[0])
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tKIND\tLABEL\tCHOICES")
			for _, d := range descriptors {
				choices := make([]string, 0, len(d.Choices))
				for _, o := range d.Choices {
					choices = append(choices, o.Value)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Key, d.Kind, d.Label, strings.Join(choices, "|"))
			}
			return tw.Flush()
		},
	}
}
