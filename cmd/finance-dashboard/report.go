package main

import (
	"errors"
	"time"

	"github.com/iwvelando/finance-dashboard/internal/property"
	"github.com/iwvelando/finance-dashboard/internal/retirement"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/iwvelando/finance-dashboard/pkg/output"
	"github.com/iwvelando/finance-dashboard/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// outputFormat resolves the --output-format flag against the configured
// default. CLI override takes precedence.
func (a *app) outputFormat(override string) (string, error) {
	outputFormat := a.conf.Output.Format
	if override != "" {
		outputFormat = override
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	return outputFormat, validation.ValidateOutputFormat(outputFormat)
}

func (a *app) metricsCmd() *cobra.Command {
	var (
		file         string
		asOf         string
		outputFormat string
	)
	cmd := &cobra.Command{
		Use:   "metrics --file properties.yaml",
		Short: "Compute investment metrics for the properties in a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := a.outputFormat(outputFormat)
			if err != nil {
				return err
			}
			at, err := datetime.ParseAsOf(asOf, time.Now().UTC())
			if err != nil {
				return errors.New("--as-of must be YYYY-MM-DD or RFC 3339")
			}

			properties, err := loadProperties(file)
			if err != nil {
				return err
			}

			reports := make([]output.PropertyReport, 0, len(properties))
			for _, p := range properties {
				reports = append(reports, output.PropertyReport{Property: p, Metrics: property.ComputeMetrics(p, at)})
			}
			a.logger.Debug("computed property metrics",
				zap.String("op", "main.metrics"),
				zap.Int("properties", len(reports)),
				zap.Time("asOf", at),
			)

			switch format {
			case constants.OutputFormatCSV:
				return output.CsvProperties(cmd.OutOrStdout(), reports)
			default:
				output.PrettyProperties(cmd.OutOrStdout(), reports, property.SummarizePortfolio(properties, at))
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with a top-level properties list")
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date for the trailing twelve months (default today)")
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) projectCmd() *cobra.Command {
	var (
		file         string
		rates        []float64
		outputFormat string
	)
	cmd := &cobra.Command{
		Use:   "project --file goals.yaml",
		Short: "Project retirement savings for the goals in a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := a.outputFormat(outputFormat)
			if err != nil {
				return err
			}

			input, warnings, err := loadGoals(file)
			if err != nil {
				return err
			}
			for _, warning := range warnings {
				a.logger.Warn("Goals warning: "+warning,
					zap.String("op", "main.project"),
				)
			}

			// Flag rates win over file rates, which win over configured rates.
			switch {
			case len(rates) > 0:
			case len(input.Rates) > 0:
				rates = input.Rates
			default:
				rates = a.conf.GrowthRates()
			}

			projections := retirement.Project(input.Goals, rates)
			report := output.ProjectionReport{
				Projections: projections,
				Evaluation:  retirement.EvaluateGoal(projections, input.Goals),
				Allocation:  retirement.AllocateMonthlySpend(input.Goals),
				Warnings:    warnings,
			}

			switch format {
			case constants.OutputFormatCSV:
				return output.CsvProjection(cmd.OutOrStdout(), projections)
			default:
				output.PrettyProjection(cmd.OutOrStdout(), report)
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with a top-level goals mapping and optional rates")
	cmd.Flags().Float64SliceVar(&rates, "rates", nil, "growth rates to project, e.g. 0.05,0.07")
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
