package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/moneyball/internal/input"
	"github.com/yourusername/moneyball/internal/odds"
	"github.com/yourusername/moneyball/internal/parlay"
	"github.com/yourusername/moneyball/internal/repository"
	"github.com/yourusername/moneyball/internal/service"
	"github.com/yourusername/moneyball/internal/session"
)

func newParlayCmd() *cobra.Command {
	var (
		legSpecs []string
		bookOdds string
	)

	cmd := &cobra.Command{
		Use:   "parlay",
		Short: "Combine legs into a parlay and price it",
		Example: `  moneyball parlay \
    --leg "NFL|J. Allen - Over 250.5 Pass Yds|-115|58" \
    --leg "NBA|J. Tatum - Over 38.5 (PRA)|-110|56" \
    --book-odds +250`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(legSpecs) == 0 {
				return fmt.Errorf("at least one --leg is required")
			}

			cart := parlay.NewCart()
			for i, spec := range legSpecs {
				form, err := parseLegSpec(spec)
				if err != nil {
					return fmt.Errorf("leg %d: %w", i+1, err)
				}
				in, err := service.ParseLeg(form)
				if err != nil {
					return fmt.Errorf("leg %d: %w", i+1, err)
				}
				if _, err := cart.Add(in.Sport, in.Description, in.AmericanOdds, in.TrueProbability); err != nil {
					return fmt.Errorf("leg %d: %w", i+1, err)
				}
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			calc := service.NewCalculator(cfg.TierSet(), session.NewStore(cfg.SessionTTL(), 0),
				repository.NewMemoryTrackerRepository(), cliLogger(cfg))

			agg := calc.Combine(cart.Legs(), bookOdds)
			if agg.ManualOddsErr != nil {
				return fmt.Errorf("--book-odds: %w", agg.ManualOddsErr)
			}

			out := cmd.OutOrStdout()
			if structured, err := writeStructured(out, agg); structured {
				return err
			}

			tw := newTable(out)
			fmt.Fprintln(tw, "LEG\tODDS\tTRUE")
			for _, leg := range agg.Legs {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", leg.Label(), odds.FormatAmericanOdds(leg.AmericanOdds), pct(leg.TrueProbability))
			}
			fmt.Fprintln(tw)
			fmt.Fprintf(tw, "True probability\t%s\n", pct(agg.TrueProbability))
			fmt.Fprintf(tw, "Auto odds\t%s (%s)\n", odds.FormatAmericanOdds(float64(agg.AutoAmerican)), fixed(agg.DecimalProduct, 3))
			if agg.BookOdds != nil {
				fmt.Fprintf(tw, "Book odds\t%s\n", agg.BookOdds)
			}
			fmt.Fprintf(tw, "Implied\t%s\n", pct(agg.UsedImplied))
			fmt.Fprintf(tw, "Edge\t%s pp\n", fixed(agg.EdgePP, 2))
			fmt.Fprintf(tw, "EV\t%s%%\n", fixed(agg.EVPercent(), 2))
			fmt.Fprintf(tw, "Tier\t%s\n", agg.Tier)
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s\n", agg.TrackerRow(time.Now()))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&legSpecs, "leg", "l", nil, `Leg as "SPORT|description|odds|prob" (prob as percent or fraction)`)
	cmd.Flags().StringVar(&bookOdds, "book-odds", "", "Sportsbook parlay price overriding the computed odds")
	return cmd
}

// parseLegSpec splits "SPORT|description|odds|prob" into leg fields
func parseLegSpec(spec string) (input.Form, error) {
	parts := strings.Split(spec, "|")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%q: want SPORT|description|odds|prob", spec)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return input.Form{
		"sport":       parts[0],
		"description": parts[1],
		"odds":        parts[2],
		"prob":        parts[3],
	}, nil
}
