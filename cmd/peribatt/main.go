package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/peribatt/pkg/ble"
	"github.com/charlie0129/peribatt/pkg/permissions"
	"github.com/charlie0129/peribatt/pkg/runner"
	"github.com/charlie0129/peribatt/pkg/version"
)

var (
	verbosity int
	opts      runner.Options
)

// verbosityLevel maps the number of -v flags to a log level.
func verbosityLevel(n int) logrus.Level {
	switch {
	case n <= 0:
		return logrus.ErrorLevel
	case n == 1:
		return logrus.WarnLevel
	case n == 2:
		return logrus.InfoLevel
	case n == 3:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

func setupLogger() {
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(verbosityLevel(verbosity))
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}
}

func handleCmdError(err error) {
	red := color.New(color.FgRed, color.Bold)
	switch {
	case errors.Is(err, permissions.ErrPermissionDenied):
		red.Fprintln(os.Stderr, "\nError: Bluetooth access denied")
	case errors.Is(err, ble.ErrAdapterUnavailable):
		red.Fprintln(os.Stderr, "\nError: no usable Bluetooth adapter")
		fmt.Fprintln(os.Stderr, "  - Make sure Bluetooth is turned on")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := NewCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		handleCmdError(err)
		stop()
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peribatt",
		Short: "peribatt reports the battery levels of Bluetooth peripherals and Dygma keyboards",
		Long: `peribatt reports the battery levels of Bluetooth peripherals and Dygma keyboards.

Every run performs a single scan and prints one line per device, or a JSON
array with --json. Logs are written to stderr, raise their verbosity with -v.`,
		Version:      version.Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogger()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !opts.Any() {
				return cmd.Help()
			}

			r := runner.New(cmd.OutOrStdout())
			if err := r.Run(cmd.Context(), opts); err != nil {
				return fmt.Errorf("failed to report battery levels: %w", err)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.Dygma, "dygma-support", "d", false, "Read information from Dygma Neuron")
	flags.BoolVarP(&opts.Bluetooth, "bluetooth-names", "b", false, "Read information about BLE devices")
	flags.BoolVarP(&opts.JSON, "json", "j", false, "Format output as json")
	flags.BoolVarP(&opts.Host, "host-battery", "s", false, "Read information about the internal batteries of this computer")
	flags.CountVarP(&verbosity, "verbose", "v", "Increase logging verbosity (repeatable)")

	return cmd
}
