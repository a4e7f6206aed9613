package profile

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newUseCmd creates the profile use command
func newUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "use NAME",
		Short:   "Select the default profile",
		Long:    `Select the profile that "rangeminer run" uses when no range is given.`,
		Aliases: []string{"switch"},
		Args:    cobra.ExactArgs(1),

		ValidArgsFunction: completeNameArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := loadManager()
			if err != nil {
				return err
			}

			if err := manager.SetDefaultProfile(args[0]); err != nil {
				return err
			}
			if err := manager.Save(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Default profile set to %q\n", args[0])
			return nil
		},
	}

	return cmd
}
