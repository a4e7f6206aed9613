package cli

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aryankumar/rangeminer/internal/cli/profile"
	"github.com/aryankumar/rangeminer/internal/config"
	"github.com/aryankumar/rangeminer/internal/executor"
	"github.com/aryankumar/rangeminer/internal/job"
	"github.com/aryankumar/rangeminer/internal/output"
	"github.com/aryankumar/rangeminer/internal/predicate"
	"github.com/aryankumar/rangeminer/internal/util"
)

type runOptions struct {
	workers   int
	timeout   time.Duration
	predicate string
	profile   string
	progress  bool
	wide      bool
}

// newRunCmd creates the run command
func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [START END [WORKERS [TIMEOUT_SECONDS]]]",
		Short: "Scan a range for matching values",
		Long: `Scan the inclusive range START..END for values matching a predicate.

The range is split into WORKERS contiguous sub-ranges evaluated in parallel.
When TIMEOUT_SECONDS elapse the running tasks are cancelled and whatever they
found so far is reported. Interrupting the run (Ctrl+C) reports the tasks that
already finished; a second interrupt exits immediately.

Without a range, the profile given with --profile or the default profile from
the config file is used.`,
		Example: `  # Scan 1..1000000 on 8 workers with a 30 second timeout
  rangeminer run 1 1000000 8 30

  # Same, using flags and table output
  rangeminer run 1 1000000 -p 8 --timeout 30s -o table

  # Run a saved profile with a progress bar
  rangeminer run --profile large --progress`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 || len(args) > 4 {
				return fmt.Errorf("accepts 0 or 2 to 4 args, received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.workers, "workers", "p", 0, "number of parallel tasks (default from config, else number of CPUs)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "time to wait before cancelling tasks (default from config, else 60s)")
	cmd.Flags().StringVar(&opts.predicate, "predicate", "", fmt.Sprintf("predicate to evaluate (%s)", strings.Join(predicate.Names(), ", ")))
	cmd.Flags().StringVar(&opts.profile, "profile", "", "run a saved profile from the config file")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "show a progress bar on stderr")
	cmd.Flags().BoolVar(&opts.wide, "wide", false, "include the per-task breakdown")

	_ = cmd.RegisterFlagCompletionFunc("profile", profile.CompleteNames)
	_ = cmd.RegisterFlagCompletionFunc("predicate", cobra.FixedCompletions(predicate.Names(), cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func runRun(cmd *cobra.Command, args []string, opts *runOptions) error {
	logger := slog.Default()

	manager := config.NewManager(viper.GetString("config"))
	cfg, err := manager.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("loaded configuration", "file", manager.Path(), "profiles", len(cfg.Profiles))

	settings, err := resolveSettings(cmd, args, opts, manager)
	if err != nil {
		return err
	}

	pred, ok := predicate.Lookup(settings.Predicate)
	if !ok {
		return util.NewValidationError("predicate", settings.Predicate,
			fmt.Sprintf("unknown predicate, expected one of: %s", strings.Join(predicate.Names(), ", ")))
	}

	j, err := job.New(settings.Start, settings.End, settings.Workers)
	if err != nil {
		return err
	}

	outputFormat := viper.GetString("output")
	if outputFormat == "" {
		outputFormat = cfg.Defaults.OutputFormat
	}
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	showProgress := cfg.Defaults.Progress
	if cmd.Flags().Changed("progress") {
		showProgress = opts.progress
	}

	runOpts := job.Options{
		Timeout: settings.Timeout,
		Logger:  logger,
	}
	var bar *progressbar.ProgressBar
	if showProgress {
		bar = newProgressBar(cmd.ErrOrStderr(), j.Workers)
		runOpts.TaskHook = func(executor.TaskID, error) {
			_ = bar.Add(1)
		}
	}

	outcome, err := job.Run(cmd.Context(), j, pred, runOpts)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	if err := outcome.Err(); err != nil {
		logger.Warn("reporting partial results", "reason", util.FriendlyError(err), "run_id", outcome.RunID)
	}

	formatter := output.NewFormatter(format,
		output.WithNoColor(viper.GetBool("no-color") || cfg.Defaults.NoColor),
		output.WithWide(opts.wide))
	return formatter.FormatOutcome(cmd.OutOrStdout(), outcome)
}

// resolveSettings merges, in increasing precedence, config defaults, the
// selected profile, flags and positional arguments.
func resolveSettings(cmd *cobra.Command, args []string, opts *runOptions, manager *config.Manager) (config.RunSettings, error) {
	defaults := manager.GetConfig().Defaults
	settings := config.RunSettings{
		Workers:   defaults.Workers,
		Timeout:   defaults.Timeout,
		Predicate: defaults.Predicate,
	}

	if len(args) == 0 {
		name := opts.profile
		if name == "" {
			name = manager.GetConfig().DefaultProfile
		}
		if name == "" {
			return config.RunSettings{}, util.NewValidationError("range", "",
				"a range is required: rangeminer run START END, --profile NAME or a default profile")
		}

		resolved, err := manager.Resolve(name)
		if err != nil {
			return config.RunSettings{}, err
		}
		settings = resolved
	}

	if cmd.Flags().Changed("workers") {
		settings.Workers = opts.workers
	}
	if cmd.Flags().Changed("timeout") {
		settings.Timeout = opts.timeout
	}
	if opts.predicate != "" {
		settings.Predicate = opts.predicate
	}

	if len(args) > 0 {
		positional, err := parseRunArgs(args)
		if err != nil {
			return config.RunSettings{}, err
		}
		settings.Start = positional.Start
		settings.End = positional.End
		if positional.Workers > 0 {
			settings.Workers = positional.Workers
		}
		if positional.Timeout > 0 {
			settings.Timeout = positional.Timeout
		}
	}

	return settings, nil
}

// parseRunArgs parses START END [WORKERS [TIMEOUT_SECONDS]]. Unset optional
// values are left at zero.
func parseRunArgs(args []string) (config.RunSettings, error) {
	var settings config.RunSettings
	if len(args) < 2 {
		return settings, util.NewValidationError("range", strings.Join(args, " "), "both START and END are required")
	}

	start, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return settings, util.NewValidationError("start", args[0], "must be a 64-bit integer")
	}
	end, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return settings, util.NewValidationError("end", args[1], "must be a 64-bit integer")
	}
	settings.Start, settings.End = start, end

	if len(args) > 2 {
		workers, err := strconv.Atoi(args[2])
		if err != nil || workers < 1 {
			return settings, util.NewValidationError("workers", args[2], "must be a positive integer")
		}
		settings.Workers = workers
	}

	if len(args) > 3 {
		seconds, err := strconv.ParseInt(args[3], 10, 64)
		if err != nil || seconds < 1 || seconds > math.MaxInt64/int64(time.Second) {
			return settings, util.NewValidationError("timeout", args[3], "must be a positive number of seconds")
		}
		settings.Timeout = time.Duration(seconds) * time.Second
	}

	return settings, nil
}

func newProgressBar(w io.Writer, tasks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(tasks,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Mining"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(output.IsTTY(w)),
	)
}
