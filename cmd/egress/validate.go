package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/egress/pkg/cli"
	"mercator-hq/egress/pkg/config"
)

var validateFlags struct {
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load a configuration file with defaults and environment overrides applied
and report every invalid field.

The command exits with status 2 when the configuration is invalid.

Examples:
  # Validate the default config.yaml
  egress validate

  # Validate with secrets from a dotenv file, JSON report
  egress validate --config prod.yaml --env-file .env --format json`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json, yaml")
}

// validationReport is the outcome of validate.
type validationReport struct {
	Path      string             `json:"path" yaml:"path"`
	Valid     bool               `json:"valid" yaml:"valid"`
	Errors    []*cli.ConfigError `json:"errors,omitempty" yaml:"errors,omitempty"`
	Tokens    int                `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Overrides []string           `json:"region_overrides,omitempty" yaml:"region_overrides,omitempty"`
	Placement bool               `json:"placement_probe" yaml:"placement_probe"`
}

// String renders the report for text output.
func (r validationReport) String() string {
	var sb strings.Builder
	if !r.Valid {
		fmt.Fprintf(&sb, "✗ %s is invalid\n", r.Path)
		for _, e := range r.Errors {
			fmt.Fprintf(&sb, "  - %s\n", strings.TrimPrefix(e.Error(), "config error in "))
		}
		return strings.TrimSuffix(sb.String(), "\n")
	}

	fmt.Fprintf(&sb, "✓ %s is valid\n", r.Path)
	fmt.Fprintf(&sb, "  tokens: %d\n", r.Tokens)
	if len(r.Overrides) > 0 {
		fmt.Fprintf(&sb, "  region overrides: %s\n", strings.Join(r.Overrides, ", "))
	}
	fmt.Fprintf(&sb, "  placement probe: %t", r.Placement)
	return sb.String()
}

func checkConfig(path string) validationReport {
	report := validationReport{Path: path}

	cfg, err := loadConfig(path, false)
	if err != nil {
		report.Errors = cli.ConfigErrors(err)
		return report
	}

	report.Valid = true
	report.Tokens = len(cfg.Auth.Tokens)
	report.Placement = cfg.Placement.Enabled
	for _, id := range config.RegionIDs {
		if _, ok := cfg.Regions[id]; ok {
			report.Overrides = append(report.Overrides, id)
		}
	}
	return report
}

func validateConfig(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(validateFlags.format)
	if err != nil {
		return err
	}

	report := checkConfig(cfgFile)
	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if !report.Valid {
		return cli.NewConfigError("", fmt.Sprintf("%d invalid field(s) in %s", len(report.Errors), cfgFile))
	}
	return nil
}
