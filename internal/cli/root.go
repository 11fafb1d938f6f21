// Package cli implements the dashboard command line.
package cli

import (
	"io"
	"os"

	"socialpulse/internal/bootstrap"
	"socialpulse/internal/config"
	"socialpulse/internal/observability"
	"socialpulse/internal/term"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rt *bootstrap.Runtime

	apiURL  string
	verbose bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:               "dashboard [command] [flags]",
	Short:             "SocialPulse: social media analytics in the terminal",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Remote API base URL (overrides API_BASE_URL)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests to stderr")
}

// Execute runs the command line. It is called by main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		term.OutputErrorAndExit("%v", err)
	}
}

// setup loads the configuration and builds the runtime. The CLI never touches
// Redis.
func setup(cmd *cobra.Command, _ []string) error {
	var logOut io.Writer = io.Discard
	if verbose {
		logOut = cmd.ErrOrStderr()
	}
	observability.InitLogger(os.Getenv("APP_ENV"), logOut)

	if apiURL != "" {
		viper.Set("API_BASE_URL", apiURL)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	rt, err = bootstrap.InitRuntime(cfg, bootstrap.Options{SkipRedis: true})
	return err
}
