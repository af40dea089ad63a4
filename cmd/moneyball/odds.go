package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/moneyball/internal/odds"
)

func newOddsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "odds <value>",
		Short: "Convert odds between American, decimal and implied probability",
		Example: `  moneyball odds +650
  moneyball odds -- -120
  moneyball odds 2.50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := odds.ParseOdds(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if structured, err := writeStructured(out, price); structured {
				return err
			}

			tw := newTable(out)
			fmt.Fprintf(tw, "Entered as\t%s\n", price.Format)
			fmt.Fprintf(tw, "American\t%s\n", odds.FormatAmericanOdds(price.American))
			fmt.Fprintf(tw, "Decimal\t%s\n", fixed(price.Decimal, 3))
			fmt.Fprintf(tw, "Implied\t%s\n", pct(price.Implied))
			return tw.Flush()
		},
	}
}
