package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/moneyball/internal/models"
	"github.com/yourusername/moneyball/internal/odds"
)

// writeStructured renders v as JSON or YAML. It reports false for table output.
func writeStructured(w io.Writer, v interface{}) (bool, error) {
	switch strings.ToLower(outputFormat) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		// round-trip through JSON so YAML keys match the JSON tags
		data, err := json.Marshal(v)
		if err != nil {
			return true, err
		}
		var generic interface{}
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return true, err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return true, enc.Encode(generic)
	case "table", "":
		return false, nil
	default:
		return true, fmt.Errorf("unknown output format %q", outputFormat)
	}
}

func pct(v float64) string {
	return decimal.NewFromFloat(v*100).StringFixed(1) + "%"
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// writePropositions prints one row per proposition
func writePropositions(w io.Writer, props []models.Proposition) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "PROPOSITION\tTRUE\tODDS\tIMPLIED\tEDGE PP\tEV/$1\tTIER")
	for _, p := range props {
		oddsCol, implied, edge, evCol := "-", "-", "-", "-"
		if p.HasOdds() {
			oddsCol = odds.FormatAmericanOdds(*p.AmericanOdds)
			implied = pct(p.ImpliedProbability)
			edge = fixed(p.EdgePP, 2)
			evCol = fixed(p.EVPerDollar, 3)
		}
		tier := string(p.Tier)
		if tier == "" {
			tier = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Description, pct(p.TrueProbability), oddsCol, implied, edge, evCol, tier)
	}
	return tw.Flush()
}
