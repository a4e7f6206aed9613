package profile

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aryankumar/rangeminer/internal/config"
	"github.com/aryankumar/rangeminer/internal/predicate"
	"github.com/aryankumar/rangeminer/internal/util"
)

// newAddCmd creates the profile add command
func newAddCmd() *cobra.Command {
	var (
		workers    int
		timeout    time.Duration
		predName   string
		labels     []string
		setDefault bool
	)

	cmd := &cobra.Command{
		Use:   "add NAME START END",
		Short: "Save a range as a profile",
		Long: `Save a range as a profile in the rangeminer config file.

Values left unset fall back to the defaults section of the config file when
the profile runs. Adding a profile that already exists replaces it.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return util.NewValidationError("start", args[1], "must be a 64-bit integer")
			}
			end, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return util.NewValidationError("end", args[2], "must be a 64-bit integer")
			}
			if _, ok := predicate.Lookup(predName); !ok {
				return util.NewValidationError("predicate", predName,
					fmt.Sprintf("unknown predicate, expected one of: %s", strings.Join(predicate.Names(), ", ")))
			}
			parsedLabels, err := parseLabels(labels)
			if err != nil {
				return err
			}

			return runAdd(cmd, args[0], config.ProfileConfig{
				Start:     start,
				End:       end,
				Workers:   workers,
				Timeout:   timeout,
				Predicate: predName,
				Labels:    parsedLabels,
			}, setDefault)
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "p", 0, "number of parallel tasks")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "time to wait before cancelling tasks")
	cmd.Flags().StringVar(&predName, "predicate", "", "predicate to evaluate")
	cmd.Flags().StringSliceVarP(&labels, "label", "l", nil, "labels as key=value (repeatable)")
	cmd.Flags().BoolVar(&setDefault, "default", false, "make this the default profile")

	return cmd
}

func runAdd(cmd *cobra.Command, name string, profile config.ProfileConfig, setDefault bool) error {
	manager, err := loadManager()
	if err != nil {
		return err
	}

	if err := manager.SetProfile(name, profile); err != nil {
		return err
	}
	if setDefault {
		if err := manager.SetDefaultProfile(name); err != nil {
			return err
		}
	}
	if err := manager.Save(); err != nil {
		return err
	}

	slog.Debug("profile saved", "name", name, "file", manager.Path())
	fmt.Fprintf(cmd.OutOrStdout(), "Profile %q saved to %s\n", name, manager.Path())
	return nil
}

// parseLabels turns key=value pairs into a map
func parseLabels(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	labels := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, util.NewValidationError("label", pair, "must be key=value")
		}
		labels[key] = value
	}
	return labels, nil
}
