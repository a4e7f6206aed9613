package profile

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aryankumar/rangeminer/internal/config"
)

// NewProfileCmd creates the profile management command
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage saved runs",
		Long: `Manage saved runs in the rangeminer config file.

A profile stores a range together with optional worker count, timeout and
predicate. "rangeminer run --profile NAME" runs it; the default profile runs
when "rangeminer run" is given no range.`,
		Aliases: []string{"profiles"},
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newUseCmd())

	return cmd
}

// CompleteNames lists saved profile names for shell completion
func CompleteNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	manager, err := loadManager()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return manager.GetProfilesByLabel(nil), cobra.ShellCompDirectiveNoFileComp
}

// completeNameArg completes the NAME argument of use and remove
func completeNameArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return CompleteNames(cmd, args, toComplete)
}

// loadManager loads the config file selected by the root --config flag
func loadManager() (*config.Manager, error) {
	manager := config.NewManager(viper.GetString("config"))
	if _, err := manager.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return manager, nil
}
