package profile

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newRemoveCmd creates the profile remove command
func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove NAME",
		Short:   "Remove a profile",
		Long:    `Remove a profile from the rangeminer config file.`,
		Aliases: []string{"rm", "delete"},
		Args:    cobra.ExactArgs(1),

		ValidArgsFunction: completeNameArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := loadManager()
			if err != nil {
				return err
			}

			if !manager.RemoveProfile(args[0]) {
				return fmt.Errorf("profile %q not found", args[0])
			}
			if err := manager.Save(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Profile %q removed\n", args[0])
			return nil
		},
	}

	return cmd
}
