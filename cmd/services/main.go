// cmd/services/main.go
package main

import (
	"fmt"
	"os"

	"anify-manager/internal/config"
	"anify-manager/internal/logging"
	"anify-manager/internal/services"
	v "anify-manager/internal/version"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "anify-services",
		Short:         "Start, stop and kill the " + v.AppName + " services",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_, err := logging.Setup(logLevel, "")
			return err
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")

	cmd.AddCommand(
		newStartCmd(),
		newStopCmd(),
		newKillCmd(),
		newListCmd(),
	)
	return cmd
}

// newManager builds a manager whose service output goes to stdout.
func newManager() (*services.Manager, error) {
	cfg, err := config.LoadServices()
	if err != nil {
		return nil, err
	}
	return services.NewManager(services.FromConfig(cfg), services.ExecRunner{Output: os.Stdout}, logging.Component("services")), nil
}
