package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aryankumar/rangeminer/internal/cli/profile"
	"github.com/aryankumar/rangeminer/internal/output"
	"github.com/aryankumar/rangeminer/pkg/version"
)

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rangeminer",
		Short: "Rangeminer - parallel numeric range scanner",
		Long: `Rangeminer splits a numeric range into contiguous sub-ranges and tests
every value in parallel on a fixed pool of workers, reporting the matches,
per-task timing and whatever partial results exist when a run is cut short.`,
		Version:       version.Get().Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.rangeminer.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (text, table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output with debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))

	formats := make([]string, 0, len(output.Formats))
	for _, f := range output.Formats {
		formats = append(formats, string(f))
	}
	_ = rootCmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(formats, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(profile.NewProfileCmd())

	return rootCmd
}

// initConfig initializes logging. The config file itself is read by
// config.Manager in the commands that need it.
func initConfig(cmd *cobra.Command) error {
	setupLogging(cmd.ErrOrStderr(), viper.GetBool("verbose"), viper.GetBool("no-color"))
	return nil
}

// setupLogging configures structured logging with slog
func setupLogging(w io.Writer, verbose, noColor bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if noColor {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))

	if verbose {
		slog.Debug("verbose logging enabled")
		if cfgFile := viper.GetString("config"); cfgFile != "" {
			slog.Debug("using configuration", "file", cfgFile)
		}
	}
}
