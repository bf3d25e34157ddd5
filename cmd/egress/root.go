package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/egress/pkg/cli"
	"mercator-hq/egress/pkg/config"
)

var (
	// Global flags
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "egress",
	Short: "Mercator Egress - regional egress proxy",
	Long: `Mercator Egress relays HTTP and SOAP calls to upstream services from a
pinned regional placement, so that upstreams with IP allowlists or data
residency rules always see traffic from the expected location.

Requests are authorized with a shared bearer secret, routed to one of eight
regional actors (wnam, enam, weur, eeur, apac, oc, af, me) and answered with
a JSON description of the upstream response.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile == "" {
			return nil
		}
		if err := config.LoadEnvFile(envFile); err != nil {
			return cli.NewConfigError("--env-file", err.Error())
		}
		return nil
	},
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file loaded before environment overrides")
}

// loadConfig reads path with environment overrides applied. With
// allowMissing a missing file yields the defaults.
func loadConfig(path string, allowMissing bool) (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(path, allowMissing)
	if err == nil {
		return cfg, nil
	}

	var valErr config.ValidationError
	if errors.As(err, &valErr) {
		return nil, err
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, cli.NewConfigError("", fmt.Sprintf("config file %s not found", path))
	}
	return nil, cli.NewConfigError("", err.Error())
}
