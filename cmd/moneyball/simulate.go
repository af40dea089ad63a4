package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/moneyball/internal/input"
	"github.com/yourusername/moneyball/internal/repository"
	"github.com/yourusername/moneyball/internal/service"
	"github.com/yourusername/moneyball/internal/session"
	"github.com/yourusername/moneyball/internal/simulator"
)

func newSimulateCmd() *cobra.Command {
	var (
		inputFile string
		sets      map[string]string
	)

	kinds := make([]string, 0, len(simulator.Kinds()))
	for _, k := range simulator.Kinds() {
		kinds = append(kinds, string(k))
	}

	cmd := &cobra.Command{
		Use:       "simulate <sport>",
		Short:     "Run a sport simulator over a YAML input file",
		Long:      "Runs one simulator. Sports: " + strings.Join(kinds, ", ") + ".",
		Example:   `  moneyball simulate soccer --input arsenal-spurs.yaml --set over25_odds=+105`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := simulator.ParseKind(args[0])
			if err != nil {
				return err
			}

			form := input.Form{}
			if inputFile != "" {
				if form, err = readForm(inputFile); err != nil {
					return err
				}
			}
			for k, v := range sets {
				form[k] = v
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			calc := service.NewCalculator(cfg.TierSet(), session.NewStore(cfg.SessionTTL(), 0),
				repository.NewMemoryTrackerRepository(), cliLogger(cfg))

			report, err := calc.Simulate(context.Background(), uuid.Nil, kind, form)
			if err != nil {
				var ve input.ValidationErrors
				if errors.As(err, &ve) {
					for _, fe := range ve {
						fmt.Fprintf(cmd.ErrOrStderr(), "  %s (%s): %s\n", fe.Field, fe.Kind, fe.Message)
					}
				}
				return err
			}

			out := cmd.OutOrStdout()
			if structured, err := writeStructured(out, report); structured {
				return err
			}
			if err := writePropositions(out, report.Propositions()); err != nil {
				return err
			}
			for _, note := range report.Messages() {
				fmt.Fprintln(out, note)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "YAML file of simulator fields")
	cmd.Flags().StringToStringVar(&sets, "set", nil, "Override a field, e.g. --set line=38.5")
	return cmd
}

// readForm loads a flat YAML mapping of field names to values
func readForm(path string) (input.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse input file: %w", err)
	}

	form := input.Form{}
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
		case map[string]interface{}, []interface{}:
			return nil, fmt.Errorf("input field %q must be a single value", k)
		default:
			form[strings.ToLower(k)] = fmt.Sprint(val)
		}
	}
	return form, nil
}
