package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/law-makers/roomcheck/internal/timeslot"
	"github.com/spf13/cobra"
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Print the half-hour slot grid",
	Long:  `Prints every bookable half-hour slot with its index, starting at 5:00 AM.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "INDEX\tLABEL")
		for _, slot := range timeslot.All() {
			fmt.Fprintf(tw, "%d\t%s\n", slot.Discriminant(), slot.Label())
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(slotsCmd)
}
